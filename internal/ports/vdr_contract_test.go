package ports

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/githubixx/vdrremote-go/internal/domain"
)

// ClientFactory creates a VDRClient instance and returns a cleanup function.
type ClientFactory func() (VDRClient, func())

// Contract fixture every online factory must serve.
var (
	ContractChannels = []domain.Channel{
		{Number: "1", ID: "S19.2E-1-1019-10301", Name: "Das Erste HD"},
		{Number: "2", ID: "S19.2E-1-1011-11110", Name: "ZDF HD"},
	}
	ContractCurrentChannel = "1"
	ContractDiskStat       = domain.DiskStat{TotalBlocks: 1000, FreeBlocks: 400, FreePercent: 40}
	ContractTimers         = []domain.Timer{
		{Status: 1, Channel: "1", Date: "2026-01-02", Start: "2000", End: "2015", Name: "Tagesschau", EventID: "100", TimerID: "1"},
		{Status: 9, Channel: "2", Date: "2026-01-02", Start: "2015", End: "2145", Name: "Tatort~Folge 1", EventID: "101", TimerID: "2", IsSeries: true},
	}
	ContractEPG = map[string]domain.EPGChannel{
		"S19.2E-1-1019-10301": {
			ChannelID:   "S19.2E-1-1019-10301",
			ChannelName: "Das Erste HD",
			Events: map[string]domain.EPGEvent{
				"1767380400": {
					EventID:       "100",
					Start:         "1767380400",
					Duration:      "900",
					Title:         "Tagesschau",
					Description:   "Nachrichten",
					StreamDetails: []string{"5 0B deu HD"},
				},
			},
		},
	}
)

// RunVDRClientContractTests runs the contract test suite against a VDRClient
// implementation serving the contract fixture. This ensures that all
// implementations (real SVDRP client, mocks, fakes) behave consistently.
//
// Usage:
//
//	func TestMyClientImplementation(t *testing.T) {
//	    factory := func() (VDRClient, func()) {
//	        client := NewMyClient()
//	        return client, func() {}
//	    }
//	    RunVDRClientContractTests(t, factory)
//	}
func RunVDRClientContractTests(t *testing.T, factory ClientFactory) {
	t.Run("Online", func(t *testing.T) { testOnline(t, factory) })
	t.Run("CurrentChannel", func(t *testing.T) { testCurrentChannel(t, factory) })
	t.Run("Channels", func(t *testing.T) { testChannels(t, factory) })
	t.Run("DiskStat", func(t *testing.T) { testDiskStat(t, factory) })
	t.Run("Timers", func(t *testing.T) { testTimers(t, factory) })
	t.Run("EPG", func(t *testing.T) { testEPG(t, factory) })
	t.Run("RemoteControl", func(t *testing.T) { testRemoteControl(t, factory) })
}

// RunVDRClientOfflineContractTests checks that an unreachable device
// degrades to "no data" everywhere instead of failing.
func RunVDRClientOfflineContractTests(t *testing.T, factory ClientFactory) {
	client, cleanup := factory()
	defer cleanup()
	ctx := contractContext(t)

	if client.IsOnline(ctx) {
		t.Errorf("IsOnline should be false")
	}
	if ch, ok := client.GetCurrentChannel(ctx); ok {
		t.Errorf("GetCurrentChannel should report no data, got %+v", ch)
	}
	if chs := client.GetChannels(ctx); len(chs) != 0 {
		t.Errorf("GetChannels should be empty, got %+v", chs)
	}
	if _, ok := client.GetDiskStat(ctx); ok {
		t.Errorf("GetDiskStat should report no data")
	}
	if timers := client.GetTimers(ctx); len(timers) != 0 {
		t.Errorf("GetTimers should be empty, got %+v", timers)
	}
	if _, ok := client.GetRecordingTimer(ctx); ok {
		t.Errorf("GetRecordingTimer should report no data")
	}
	if epg := client.GetEPG(ctx, "1", "now"); len(epg) != 0 {
		t.Errorf("GetEPG should be empty, got %+v", epg)
	}
	if txt := client.ChannelUp(ctx); txt != "" {
		t.Errorf("ChannelUp should return empty text, got %q", txt)
	}
}

func contractContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func testOnline(t *testing.T, factory ClientFactory) {
	client, cleanup := factory()
	defer cleanup()

	if !client.IsOnline(contractContext(t)) {
		t.Errorf("IsOnline should be true")
	}
}

func testCurrentChannel(t *testing.T, factory ClientFactory) {
	client, cleanup := factory()
	defer cleanup()

	ch, ok := client.GetCurrentChannel(contractContext(t))
	if !ok {
		t.Fatalf("GetCurrentChannel should report a channel")
	}
	if ch.Number != ContractCurrentChannel || ch.Name != "Das Erste HD" {
		t.Errorf("unexpected current channel: %+v", ch)
	}
	if ch.ID != "" {
		t.Errorf("current channel must not carry an id, got %q", ch.ID)
	}
}

func testChannels(t *testing.T, factory ClientFactory) {
	client, cleanup := factory()
	defer cleanup()

	channels := client.GetChannels(contractContext(t))
	if !reflect.DeepEqual(channels, ContractChannels) {
		t.Errorf("GetChannels=%+v\nwant %+v", channels, ContractChannels)
	}
	for i, ch := range channels {
		if ch.ID == "" || ch.Number == "" || ch.Name == "" {
			t.Errorf("Channel[%d] is incomplete: %+v", i, ch)
		}
	}
}

func testDiskStat(t *testing.T, factory ClientFactory) {
	client, cleanup := factory()
	defer cleanup()

	stat, ok := client.GetDiskStat(contractContext(t))
	if !ok || stat != ContractDiskStat {
		t.Errorf("GetDiskStat=%+v,%v want %+v", stat, ok, ContractDiskStat)
	}
}

func testTimers(t *testing.T, factory ClientFactory) {
	t.Run("GetTimers", func(t *testing.T) {
		client, cleanup := factory()
		defer cleanup()

		timers := client.GetTimers(contractContext(t))
		if !reflect.DeepEqual(timers, ContractTimers) {
			t.Errorf("GetTimers=%+v\nwant %+v", timers, ContractTimers)
		}
	})

	t.Run("GetRecordingTimer", func(t *testing.T) {
		client, cleanup := factory()
		defer cleanup()

		tm, ok := client.GetRecordingTimer(contractContext(t))
		if !ok {
			t.Fatalf("expected a recording timer")
		}
		if tm.TimerID != "2" || tm.IsInstantRecording {
			t.Errorf("unexpected recording timer: %+v", tm)
		}
	})
}

func testEPG(t *testing.T, factory ClientFactory) {
	t.Run("KnownChannel", func(t *testing.T) {
		client, cleanup := factory()
		defer cleanup()

		epg := client.GetEPG(contractContext(t), "1", "")
		if !reflect.DeepEqual(epg, ContractEPG) {
			t.Errorf("GetEPG=%+v\nwant %+v", epg, ContractEPG)
		}
		for id, block := range epg {
			if id != block.ChannelID {
				t.Errorf("block keyed %q has id %q", id, block.ChannelID)
			}
		}
	})

	t.Run("UnknownChannel", func(t *testing.T) {
		client, cleanup := factory()
		defer cleanup()

		epg := client.GetEPG(contractContext(t), "99", "")
		if epg == nil || len(epg) != 0 {
			t.Errorf("GetEPG for an unknown channel should be an empty map, got %#v", epg)
		}
	})
}

func testRemoteControl(t *testing.T, factory ClientFactory) {
	client, cleanup := factory()
	defer cleanup()
	ctx := contractContext(t)

	if up := client.ChannelUp(ctx); !strings.Contains(up, "250 ") {
		t.Errorf("ChannelUp should report the 250 reply, got %q", up)
	}
	if down := client.ChannelDown(ctx); !strings.Contains(down, "250 ") {
		t.Errorf("ChannelDown should report the 250 reply, got %q", down)
	}
}
