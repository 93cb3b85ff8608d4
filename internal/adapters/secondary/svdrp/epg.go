package svdrp

import (
	"log/slog"
	"regexp"

	"github.com/githubixx/vdrremote-go/internal/domain"
)

var (
	// C <channel-id> <channel-name>, e.g. "C S19.2E-1-1019-10301 Das Erste HD"
	epgChannelPattern = regexp.MustCompile(`^(` + channelID + `)\s+(.*)$`)
	// E <event-id> <start> <duration> [<table-id> [<version>]]
	epgEventPattern = regexp.MustCompile(`^(\d+)\s+(\d+)\s+(\d+)(?:\s.*)?$`)
)

type epgState int

const (
	epgIdle epgState = iota
	epgInChannel
	epgInEvent
)

func (s epgState) String() string {
	switch s {
	case epgInChannel:
		return "in-channel"
	case epgInEvent:
		return "in-event"
	default:
		return "idle"
	}
}

// epgTransition handles one tagged line and returns the next state.
type epgTransition func(d *epgDecoder, value string) epgState

// epgTransitions lists, per state, the tags that have an effect.
// Tags missing from a state's table are ignored in that state.
var epgTransitions = map[epgState]map[string]epgTransition{
	epgIdle: {
		"C": (*epgDecoder).openChannel,
	},
	epgInChannel: {
		"E": (*epgDecoder).openEvent,
		"c": (*epgDecoder).closeChannel,
	},
	epgInEvent: {
		"T": setEventField(func(ev *domain.EPGEvent, v string) { ev.Title = v }),
		"S": setEventField(func(ev *domain.EPGEvent, v string) { ev.Subtitle = v }),
		"D": setEventField(func(ev *domain.EPGEvent, v string) { ev.Description = v }),
		"G": setEventField(func(ev *domain.EPGEvent, v string) { ev.Genre = v }),
		"R": setEventField(func(ev *domain.EPGEvent, v string) { ev.MinAge = v }),
		"V": setEventField(func(ev *domain.EPGEvent, v string) { ev.VPSTime = v }),
		"X": (*epgDecoder).appendStreamDetail,
		"e": (*epgDecoder).closeEvent,
		"c": (*epgDecoder).closeChannel,
	},
}

type epgDecoder struct {
	state   epgState
	channel domain.EPGChannel
	event   domain.EPGEvent
	result  map[string]domain.EPGChannel
}

// decodeEPG decodes an LSTE reply into channel blocks keyed by channel id.
// Only blocks and events whose closing tag arrived are returned.
func decodeEPG(resp *Response, logger *slog.Logger) map[string]domain.EPGChannel {
	d := &epgDecoder{result: make(map[string]domain.EPGChannel)}

	for _, line := range resp.Lines() {
		if line.Code != CodeEPGData {
			continue
		}
		transition, ok := epgTransitions[d.state][line.Separator]
		if !ok {
			continue
		}
		d.state = transition(d, line.Value)
	}

	if d.state != epgIdle {
		logger.Debug("discarding incomplete EPG block",
			slog.String("state", d.state.String()),
			slog.String("channel", d.channel.ChannelID))
	}
	return d.result
}

func (d *epgDecoder) openChannel(value string) epgState {
	m := epgChannelPattern.FindStringSubmatch(value)
	if m == nil {
		return epgIdle
	}
	d.channel = domain.EPGChannel{
		ChannelID:   m[1],
		ChannelName: m[2],
		Events:      make(map[string]domain.EPGEvent),
	}
	return epgInChannel
}

func (d *epgDecoder) openEvent(value string) epgState {
	m := epgEventPattern.FindStringSubmatch(value)
	if m == nil {
		return epgInChannel
	}
	d.event = domain.EPGEvent{EventID: m[1], Start: m[2], Duration: m[3]}
	return epgInEvent
}

func (d *epgDecoder) appendStreamDetail(value string) epgState {
	d.event.StreamDetails = append(d.event.StreamDetails, value)
	return epgInEvent
}

func (d *epgDecoder) closeEvent(string) epgState {
	d.channel.Events[d.event.Start] = d.event
	d.event = domain.EPGEvent{}
	return epgInChannel
}

// closeChannel emits the channel. An event still open at this point never
// saw its "e" and is dropped.
func (d *epgDecoder) closeChannel(string) epgState {
	d.result[d.channel.ChannelID] = d.channel
	d.channel = domain.EPGChannel{}
	d.event = domain.EPGEvent{}
	return epgIdle
}

// setEventField overwrites a single-valued event field; the last line wins.
func setEventField(set func(ev *domain.EPGEvent, v string)) epgTransition {
	return func(d *epgDecoder, value string) epgState {
		set(&d.event, value)
		return epgInEvent
	}
}
