package svdrp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/githubixx/vdrremote-go/internal/domain"
)

// DefaultPort is the SVDRP port VDR listens on since 1.7.15.
const DefaultPort = 6419

// Commands understood by the client.
const (
	cmdCurrentChannel = "CHAN"
	cmdChannelUp      = "CHAN +"
	cmdChannelDown    = "CHAN -"
	cmdListChannels   = "LSTC :ids :groups"
	cmdListTimers     = "LSTT"
	cmdDiskStat       = "STAT DISK"
	cmdListEPG        = "LSTE"
)

// Client implements the SVDRP protocol for VDR communication.
// Every method runs its own connect/command/disconnect cycle, so a Client
// holds no session state. Results degrade to "no data" when VDR is
// unreachable; nothing here returns connectivity errors.
type Client struct {
	transport *Transport
	logger    *slog.Logger
}

// NewClient creates a new SVDRP client
func NewClient(host string, port int, timeout time.Duration) *Client {
	logger := slog.New(slog.DiscardHandler)
	return &Client{
		transport: NewTransport(host, port, timeout, logger),
		logger:    logger,
	}
}

// SetLogger routes diagnostics (connect failures, skipped lines) to logger.
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger = logger.With(slog.String("component", "svdrp"))
	c.logger = logger
	c.transport.logger = logger
}

// Addr returns the VDR address the client talks to.
func (c *Client) Addr() string { return c.transport.Addr() }

// IsOnline reports whether VDR answered a STAT DISK at all.
func (c *Client) IsOnline(ctx context.Context) bool {
	return !c.transport.Send(ctx, cmdDiskStat).Empty()
}

// GetCurrentChannel returns the channel VDR is tuned to.
func (c *Client) GetCurrentChannel(ctx context.Context) (domain.Channel, bool) {
	resp := c.transport.Send(ctx, cmdCurrentChannel)
	ch, ok := decodeCurrentChannel(resp)
	c.logger.Debug("current channel", slog.Bool("ok", ok), slog.String("number", ch.Number), slog.String("name", ch.Name))
	return ch, ok
}

// GetChannels returns all channels with number, id and name.
func (c *Client) GetChannels(ctx context.Context) []domain.Channel {
	resp := c.transport.Send(ctx, cmdListChannels)
	channels := decodeChannels(resp, c.logger)
	c.logger.Debug("channel list", slog.Int("channels", len(channels)))
	return channels
}

// GetDiskStat returns the video disk usage.
func (c *Client) GetDiskStat(ctx context.Context) (domain.DiskStat, bool) {
	return decodeDiskStat(c.transport.Send(ctx, cmdDiskStat))
}

// GetTimers returns all timers that could be decoded.
func (c *Client) GetTimers(ctx context.Context) []domain.Timer {
	resp := c.transport.Send(ctx, cmdListTimers)
	timers := decodeTimers(resp, c.logger)
	c.logger.Debug("timer list", slog.Int("timers", len(timers)))
	return timers
}

// GetRecordingTimer returns the timer behind an ongoing recording. Instant
// recordings are preferred and flagged with IsInstantRecording.
func (c *Client) GetRecordingTimer(ctx context.Context) (domain.Timer, bool) {
	return recordingTimer(c.GetTimers(ctx))
}

// GetRecordingState classifies the ongoing recording, if any.
func (c *Client) GetRecordingState(ctx context.Context) (domain.RecordingState, domain.Timer) {
	tm, ok := c.GetRecordingTimer(ctx)
	return domain.RecordingStateOf(tm, ok), tm
}

// ChannelUp switches to the next channel and returns VDR's raw reply.
func (c *Client) ChannelUp(ctx context.Context) string {
	return c.transport.Send(ctx, cmdChannelUp).Text()
}

// ChannelDown switches to the previous channel and returns VDR's raw reply.
func (c *Client) ChannelDown(ctx context.Context) string {
	return c.transport.Send(ctx, cmdChannelDown).Text()
}

// GetEPG lists the EPG of one channel (number or channel id). filter is
// passed through to LSTE, e.g. "now", "next" or "at <unix time>"; empty
// means the full schedule.
func (c *Client) GetEPG(ctx context.Context, channel string, filter string) map[string]domain.EPGChannel {
	resp := c.transport.Send(ctx, epgCommand(channel, filter))
	epg := decodeEPG(resp, c.logger)
	c.logger.Debug("epg listing", slog.String("channel", channel), slog.Int("channels", len(epg)))
	return epg
}

func epgCommand(channel, filter string) string {
	cmd := cmdListEPG
	if channel = strings.TrimSpace(channel); channel != "" {
		cmd = fmt.Sprintf("%s %s", cmd, channel)
	}
	if filter = strings.TrimSpace(filter); filter != "" {
		cmd = fmt.Sprintf("%s %s", cmd, filter)
	}
	return cmd
}
