package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/githubixx/vdrremote-go/internal/application/services"
	"github.com/githubixx/vdrremote-go/internal/domain"
	"github.com/githubixx/vdrremote-go/internal/ports"
)

// Handler serves the JSON status API
type Handler struct {
	logger *slog.Logger
	client ports.VDRClient
	status *services.StatusService
	guide  *services.GuideService
	loc    *time.Location
}

// NewHandler creates a new HTTP handler
func NewHandler(
	logger *slog.Logger,
	client ports.VDRClient,
	status *services.StatusService,
	guide *services.GuideService,
) *Handler {
	return &Handler{
		logger: logger,
		client: client,
		status: status,
		guide:  guide,
		loc:    time.Local,
	}
}

// SetLocation sets the zone timer days and start times are read in.
func (h *Handler) SetLocation(loc *time.Location) {
	if loc != nil {
		h.loc = loc
	}
}

// Health answers 200 while VDR responds and 503 otherwise
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !h.client.IsOnline(r.Context()) {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]any{"online": false})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"online": true})
}

// Status returns a device snapshot. Offline devices still get a 200 so
// sensors can show the state.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.status.Snapshot(r.Context()))
}

// CurrentChannel returns the tuned channel
func (h *Handler) CurrentChannel(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.client.GetCurrentChannel(r.Context())
	if !ok {
		h.handleError(w, r, domain.ErrNoData)
		return
	}
	h.writeJSON(w, http.StatusOK, ch)
}

// Channels lists all channels
func (h *Handler) Channels(w http.ResponseWriter, r *http.Request) {
	chs := h.client.GetChannels(r.Context())
	if len(chs) == 0 {
		h.handleError(w, r, domain.ErrNoData)
		return
	}
	h.writeJSON(w, http.StatusOK, chs)
}

// DiskStat returns video disk usage
func (h *Handler) DiskStat(w http.ResponseWriter, r *http.Request) {
	stat, ok := h.client.GetDiskStat(r.Context())
	if !ok {
		h.handleError(w, r, domain.ErrNoData)
		return
	}
	h.writeJSON(w, http.StatusOK, stat)
}

// TimerList lists timers
func (h *Handler) TimerList(w http.ResponseWriter, r *http.Request) {
	timers := h.client.GetTimers(r.Context())
	if len(timers) == 0 {
		if !h.client.IsOnline(r.Context()) {
			h.handleError(w, r, domain.ErrNoData)
			return
		}
		timers = []domain.Timer{}
	}
	h.writeJSON(w, http.StatusOK, timers)
}

// NextTimer returns the timer that starts first
func (h *Handler) NextTimer(w http.ResponseWriter, r *http.Request) {
	tm, start, ok := services.NextTimer(h.client.GetTimers(r.Context()), h.loc)
	if !ok {
		h.handleError(w, r, domain.ErrNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"timer": tm, "start": start})
}

// Recording reports the ongoing recording, if any
func (h *Handler) Recording(w http.ResponseWriter, r *http.Request) {
	tm, ok := h.client.GetRecordingTimer(r.Context())
	body := map[string]any{"state": domain.RecordingStateOf(tm, ok)}
	if ok {
		body["timer"] = tm
	}
	h.writeJSON(w, http.StatusOK, body)
}

// NowPlaying returns the running event on the tuned channel
func (h *Handler) NowPlaying(w http.ResponseWriter, r *http.Request) {
	np, ok := h.guide.NowPlaying(r.Context())
	if !ok {
		h.handleError(w, r, domain.ErrNoData)
		return
	}
	h.writeJSON(w, http.StatusOK, np)
}

// EPGList returns the EPG of one channel; ?filter=now|next|at <t>
func (h *Handler) EPGList(w http.ResponseWriter, r *http.Request) {
	channel := strings.TrimSpace(r.PathValue("channel"))
	if channel == "" {
		h.handleError(w, r, domain.ErrInvalidInput)
		return
	}

	epg := h.client.GetEPG(r.Context(), channel, r.URL.Query().Get("filter"))
	if len(epg) == 0 {
		h.handleError(w, r, domain.ErrNoData)
		return
	}

	h.logger.Debug("EPG fetched", slog.Int("channels", len(epg)), slog.String("channel", channel))
	h.writeJSON(w, http.StatusOK, epg)
}

// Guide sweeps the EPG of every channel; ?filter=now|next|at <t>
func (h *Handler) Guide(w http.ResponseWriter, r *http.Request) {
	guides := h.guide.Sweep(r.Context(), r.URL.Query().Get("filter"))
	if len(guides) == 0 {
		h.handleError(w, r, domain.ErrNoData)
		return
	}
	h.writeJSON(w, http.StatusOK, guides)
}

// ChannelUp switches to the next channel and returns VDR's reply
func (h *Handler) ChannelUp(w http.ResponseWriter, r *http.Request) {
	h.zap(w, r, h.client.ChannelUp)
}

// ChannelDown switches to the previous channel and returns VDR's reply
func (h *Handler) ChannelDown(w http.ResponseWriter, r *http.Request) {
	h.zap(w, r, h.client.ChannelDown)
}

func (h *Handler) zap(w http.ResponseWriter, r *http.Request, step func(ctx context.Context) string) {
	reply := step(r.Context())
	if reply == "" {
		h.handleError(w, r, domain.ErrNoData)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"reply": reply})
}

// Helper methods

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", slog.Any("error", err))
	}
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNoData), errors.Is(err, domain.ErrConnection):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	h.logger.Debug("handler error", slog.Any("error", err), slog.String("path", r.URL.Path), slog.Int("status", status))
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
