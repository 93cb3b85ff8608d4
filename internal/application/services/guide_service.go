package services

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/githubixx/vdrremote-go/internal/domain"
	"github.com/githubixx/vdrremote-go/internal/ports"
)

// GuideService combines channel and EPG listings.
type GuideService struct {
	vdrClient ports.VDRClient
	logger    *slog.Logger
}

// NewGuideService creates a new guide service
func NewGuideService(vdrClient ports.VDRClient, logger *slog.Logger) *GuideService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GuideService{vdrClient: vdrClient, logger: logger}
}

// NowPlaying looks up the tuned channel and its running event.
// ok is false when either lookup yields nothing.
func (s *GuideService) NowPlaying(ctx context.Context) (domain.NowPlaying, bool) {
	ch, ok := s.vdrClient.GetCurrentChannel(ctx)
	if !ok {
		return domain.NowPlaying{}, false
	}

	epg := s.vdrClient.GetEPG(ctx, ch.Number, "now")
	for _, block := range epg {
		if ev, ok := firstEvent(block); ok {
			if ch.ID == "" {
				ch.ID = block.ChannelID
			}
			return domain.NowPlaying{Channel: ch, Event: ev}, true
		}
	}

	s.logger.Debug("no running event", slog.String("channel", ch.Number))
	return domain.NowPlaying{}, false
}

// Sweep fetches the EPG of every channel, one request at a time, and
// returns the blocks keyed by channel id. Channels without EPG are left out.
// A cancelled ctx ends the sweep early with what was collected so far.
func (s *GuideService) Sweep(ctx context.Context, filter string) map[string]domain.Guide {
	guides := make(map[string]domain.Guide)

	for _, ch := range s.vdrClient.GetChannels(ctx) {
		if ctx.Err() != nil {
			s.logger.Debug("guide sweep interrupted", slog.Int("channels", len(guides)), slog.Any("error", ctx.Err()))
			break
		}
		block, ok := s.vdrClient.GetEPG(ctx, ch.ID, filter)[ch.ID]
		if !ok {
			continue
		}
		guides[ch.ID] = domain.Guide{Channel: ch, Block: block}
	}

	s.logger.Debug("guide sweep", slog.Int("channels", len(guides)))
	return guides
}

// firstEvent returns the event with the lowest start time.
func firstEvent(block domain.EPGChannel) (domain.EPGEvent, bool) {
	var (
		first   domain.EPGEvent
		firstAt int64
		found   bool
	)
	for key, ev := range block.Events {
		at, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		if !found || at < firstAt {
			first, firstAt, found = ev, at, true
		}
	}
	return first, found
}
