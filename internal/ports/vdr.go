package ports

import (
	"context"

	"github.com/githubixx/vdrremote-go/internal/domain"
)

// VDRClient defines the interface for communicating with VDR via SVDRP.
//
// Implementations never report connectivity problems as errors: an
// unreachable device yields ok=false, empty slices/maps or empty text.
type VDRClient interface {
	// IsOnline reports whether VDR answers at all
	IsOnline(ctx context.Context) bool

	// GetCurrentChannel returns the channel VDR is tuned to
	GetCurrentChannel(ctx context.Context) (domain.Channel, bool)

	// GetChannels retrieves all channels including their ids
	GetChannels(ctx context.Context) []domain.Channel

	// GetDiskStat returns the video disk usage
	GetDiskStat(ctx context.Context) (domain.DiskStat, bool)

	// GetTimers retrieves all timers
	GetTimers(ctx context.Context) []domain.Timer

	// GetRecordingTimer returns the timer behind an ongoing recording
	GetRecordingTimer(ctx context.Context) (domain.Timer, bool)

	// GetEPG retrieves EPG blocks for one channel, keyed by channel id
	GetEPG(ctx context.Context, channel string, filter string) map[string]domain.EPGChannel

	// ChannelUp switches to the next channel and returns the raw reply
	ChannelUp(ctx context.Context) string

	// ChannelDown switches to the previous channel and returns the raw reply
	ChannelDown(ctx context.Context) string
}
