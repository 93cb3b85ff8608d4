package ports

import (
	"context"
	"fmt"
	"sync"

	"github.com/githubixx/vdrremote-go/internal/domain"
)

// MockVDRClient is a flexible test double for VDRClient with function field customization.
// This is the canonical mock implementation used across all tests.
//
// Usage with function fields (maximum flexibility):
//
//	mock := &ports.MockVDRClient{
//	    GetChannelsFunc: func(ctx context.Context) []domain.Channel {
//	        return []domain.Channel{{ID: "C-1-2-3", Number: "1", Name: "Test"}}
//	    },
//	}
//
// Usage with builder pattern (convenience):
//
//	mock := ports.NewMockVDRClient().
//	    WithChannels([]domain.Channel{{ID: "C-1-2-3", Number: "1", Name: "Test"}}).
//	    WithTimers([]domain.Timer{{TimerID: "1", Name: "Test"}})
type MockVDRClient struct {
	// Function fields for custom behavior
	IsOnlineFunc          func(ctx context.Context) bool
	GetCurrentChannelFunc func(ctx context.Context) (domain.Channel, bool)
	GetChannelsFunc       func(ctx context.Context) []domain.Channel
	GetDiskStatFunc       func(ctx context.Context) (domain.DiskStat, bool)
	GetTimersFunc         func(ctx context.Context) []domain.Timer
	GetRecordingTimerFunc func(ctx context.Context) (domain.Timer, bool)
	GetEPGFunc            func(ctx context.Context, channel string, filter string) map[string]domain.EPGChannel
	ChannelUpFunc         func(ctx context.Context) string
	ChannelDownFunc       func(ctx context.Context) string

	// Data fields for builder pattern
	mu       sync.RWMutex
	offline  bool
	current  int
	channels []domain.Channel
	timers   []domain.Timer
	disk     *domain.DiskStat
	epg      map[string]map[string]domain.EPGChannel
	calls    []string
}

var _ VDRClient = (*MockVDRClient)(nil)

// NewMockVDRClient creates a new mock with default behavior.
// Use builder methods to configure data or set function fields directly for custom behavior.
func NewMockVDRClient() *MockVDRClient {
	return &MockVDRClient{
		current:  -1,
		channels: []domain.Channel{},
		timers:   []domain.Timer{},
		epg:      make(map[string]map[string]domain.EPGChannel),
	}
}

// WithChannels sets the channels returned by GetChannels.
func (m *MockVDRClient) WithChannels(channels []domain.Channel) *MockVDRClient {
	m.channels = channels
	return m
}

// WithTimers sets the timers returned by GetTimers.
func (m *MockVDRClient) WithTimers(timers []domain.Timer) *MockVDRClient {
	m.timers = timers
	return m
}

// WithDiskStat sets the disk usage returned by GetDiskStat.
func (m *MockVDRClient) WithDiskStat(stat domain.DiskStat) *MockVDRClient {
	m.disk = &stat
	return m
}

// WithCurrentChannel tunes the mock to the channel with the given number.
// The channel must be part of WithChannels.
func (m *MockVDRClient) WithCurrentChannel(number string) *MockVDRClient {
	m.current = -1
	for i, ch := range m.channels {
		if ch.Number == number {
			m.current = i
		}
	}
	return m
}

// WithEPG sets the EPG returned by GetEPG for a channel number or id.
func (m *MockVDRClient) WithEPG(channel string, epg map[string]domain.EPGChannel) *MockVDRClient {
	m.epg[channel] = epg
	return m
}

// Offline makes every call behave like an unreachable device.
func (m *MockVDRClient) Offline() *MockVDRClient {
	m.offline = true
	return m
}

// Calls returns the names of the methods invoked so far, in order.
func (m *MockVDRClient) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.calls...)
}

func (m *MockVDRClient) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

// Implementation of VDRClient interface

func (m *MockVDRClient) IsOnline(ctx context.Context) bool {
	m.record("IsOnline")
	if m.IsOnlineFunc != nil {
		return m.IsOnlineFunc(ctx)
	}
	return !m.offline
}

func (m *MockVDRClient) GetCurrentChannel(ctx context.Context) (domain.Channel, bool) {
	m.record("GetCurrentChannel")
	if m.GetCurrentChannelFunc != nil {
		return m.GetCurrentChannelFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.offline || m.current < 0 || m.current >= len(m.channels) {
		return domain.Channel{}, false
	}
	ch := m.channels[m.current]
	// CHAN does not report the channel id.
	return domain.Channel{Number: ch.Number, Name: ch.Name}, true
}

func (m *MockVDRClient) GetChannels(ctx context.Context) []domain.Channel {
	m.record("GetChannels")
	if m.GetChannelsFunc != nil {
		return m.GetChannelsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.offline {
		return nil
	}
	return m.channels
}

func (m *MockVDRClient) GetDiskStat(ctx context.Context) (domain.DiskStat, bool) {
	m.record("GetDiskStat")
	if m.GetDiskStatFunc != nil {
		return m.GetDiskStatFunc(ctx)
	}
	if m.offline || m.disk == nil {
		return domain.DiskStat{}, false
	}
	return *m.disk, true
}

func (m *MockVDRClient) GetTimers(ctx context.Context) []domain.Timer {
	m.record("GetTimers")
	if m.GetTimersFunc != nil {
		return m.GetTimersFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.offline {
		return nil
	}
	return m.timers
}

func (m *MockVDRClient) GetRecordingTimer(ctx context.Context) (domain.Timer, bool) {
	m.record("GetRecordingTimer")
	if m.GetRecordingTimerFunc != nil {
		return m.GetRecordingTimerFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.offline {
		return domain.Timer{}, false
	}
	for _, tm := range m.timers {
		if tm.Status.Has(domain.TimerInstantRecording) {
			tm.IsInstantRecording = true
			return tm, true
		}
	}
	for _, tm := range m.timers {
		if tm.Status.Has(domain.TimerRecording) {
			return tm, true
		}
	}
	return domain.Timer{}, false
}

func (m *MockVDRClient) GetEPG(ctx context.Context, channel string, filter string) map[string]domain.EPGChannel {
	m.record("GetEPG")
	if m.GetEPGFunc != nil {
		return m.GetEPGFunc(ctx, channel, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.offline || m.epg[channel] == nil {
		return map[string]domain.EPGChannel{}
	}
	return m.epg[channel]
}

func (m *MockVDRClient) ChannelUp(ctx context.Context) string {
	m.record("ChannelUp")
	if m.ChannelUpFunc != nil {
		return m.ChannelUpFunc(ctx)
	}
	return m.zap(1)
}

func (m *MockVDRClient) ChannelDown(ctx context.Context) string {
	m.record("ChannelDown")
	if m.ChannelDownFunc != nil {
		return m.ChannelDownFunc(ctx)
	}
	return m.zap(-1)
}

// zap moves the current channel and renders a reply like VDR would.
func (m *MockVDRClient) zap(step int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.offline {
		return ""
	}
	if len(m.channels) == 0 {
		return "220 mock ready\n550 No channels defined\n221 closing"
	}
	m.current = (m.current + step + len(m.channels)) % len(m.channels)
	ch := m.channels[m.current]
	return fmt.Sprintf("220 mock ready\n250 %s %s\n221 closing", ch.Number, ch.Name)
}
