package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/githubixx/vdrremote-go/internal/domain"
	"github.com/githubixx/vdrremote-go/internal/ports"
)

// timerLayout is how LSTT spells a timer's day and start time.
const timerLayout = "2006-01-02 1504"

// StatusService assembles device snapshots for sensors and dashboards.
type StatusService struct {
	vdrClient ports.VDRClient
	logger    *slog.Logger
}

// NewStatusService creates a new status service
func NewStatusService(vdrClient ports.VDRClient, logger *slog.Logger) *StatusService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StatusService{vdrClient: vdrClient, logger: logger}
}

// Snapshot queries channel, disk and recording state one after another.
// Online is false when neither the channel nor the disk query answered; the
// recording state is then left at off without asking the device.
func (s *StatusService) Snapshot(ctx context.Context) domain.Status {
	var st domain.Status

	if ch, ok := s.vdrClient.GetCurrentChannel(ctx); ok {
		st.Online = true
		st.ChannelNumber = ch.Number
		st.ChannelName = ch.Name
	}

	if disk, ok := s.vdrClient.GetDiskStat(ctx); ok {
		st.Online = true
		st.DiskTotal = disk.TotalBlocks
		st.DiskFree = disk.FreeBlocks
		st.DiskPercent = disk.FreePercent
	}

	// An unreachable device would only cost another connect timeout.
	if st.Online {
		tm, ok := s.vdrClient.GetRecordingTimer(ctx)
		st.Recording = domain.RecordingStateOf(tm, ok)
		if ok {
			st.RecordingName = tm.Name
		}
	}

	s.logger.Debug("status snapshot",
		slog.Bool("online", st.Online),
		slog.String("channel", st.ChannelNumber),
		slog.String("recording", st.Recording.String()))
	return st
}

// NextTimer returns the timer that starts first, with its start time in loc.
// Timers whose day or start cannot be parsed are skipped.
func NextTimer(timers []domain.Timer, loc *time.Location) (domain.Timer, time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}

	var (
		next  domain.Timer
		start time.Time
		found bool
	)
	for _, tm := range timers {
		at, err := time.ParseInLocation(timerLayout, tm.Date+" "+tm.Start, loc)
		if err != nil {
			continue
		}
		if !found || at.Before(start) {
			next, start, found = tm, at, true
		}
	}
	return next, start, found
}
