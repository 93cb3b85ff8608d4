package domain

import "fmt"

// Channel represents a VDR channel
type Channel struct {
	// Number is the channel's position as reported by VDR.
	Number string
	Name   string
	// ID is only known when the channel came from the full channel list.
	ID string
}

// TimerStatus holds the bitflags from the first field of a timer line.
type TimerStatus int

const (
	TimerActive           TimerStatus = 1
	TimerInstantRecording TimerStatus = 2
	TimerVPS              TimerStatus = 4
	TimerRecording        TimerStatus = 8
)

// Has reports whether all bits of flag are set.
func (s TimerStatus) Has(flag TimerStatus) bool {
	return s&flag == flag
}

// SeriesMarker separates a series title from the episode in timer names.
const SeriesMarker = "~"

// Timer represents a recording timer as listed by LSTT
type Timer struct {
	Status  TimerStatus
	Channel string
	Date    string // YYYY-MM-DD
	Start   string // HHMM
	End     string // HHMM
	// Name is kept verbatim, including any series marker.
	Name    string
	EventID string
	TimerID string

	IsSeries           bool
	IsInstantRecording bool
}

// IsActive reports whether the timer is enabled
func (t Timer) IsActive() bool { return t.Status.Has(TimerActive) }

// IsRecording reports whether VDR is currently recording this timer
func (t Timer) IsRecording() bool { return t.Status.Has(TimerRecording) }

// DiskStat is the result of STAT DISK
type DiskStat struct {
	TotalBlocks int
	FreeBlocks  int
	FreePercent int
}

// EPGChannel is one channel block of an LSTE listing.
type EPGChannel struct {
	ChannelID   string
	ChannelName string
	// Events is keyed by the event start (unix seconds, as sent by VDR).
	Events map[string]EPGEvent
}

// EPGEvent represents an electronic program guide entry.
// Optional fields are empty when VDR did not send the tag.
type EPGEvent struct {
	EventID     string
	Start       string
	Duration    string
	Title       string
	Subtitle    string
	Description string
	Genre       string
	MinAge      string
	VPSTime     string
	// StreamDetails keeps every X line in arrival order.
	StreamDetails []string
}

// RecordingState summarizes what the device is recording right now
type RecordingState int

const (
	RecordingNone RecordingState = iota
	RecordingInstant
	RecordingTimer
)

func (s RecordingState) String() string {
	switch s {
	case RecordingInstant:
		return "instant"
	case RecordingTimer:
		return "timer"
	default:
		return "off"
	}
}

// MarshalText renders the state as "off", "instant" or "timer".
func (s RecordingState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the names written by MarshalText.
func (s *RecordingState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "off":
		*s = RecordingNone
	case "instant":
		*s = RecordingInstant
	case "timer":
		*s = RecordingTimer
	default:
		return fmt.Errorf("%w: recording state %q", ErrInvalidInput, text)
	}
	return nil
}

// RecordingStateOf classifies the timer found for an ongoing recording.
// ok is false when no timer is recording.
func RecordingStateOf(t Timer, ok bool) RecordingState {
	switch {
	case !ok:
		return RecordingNone
	case t.IsInstantRecording:
		return RecordingInstant
	default:
		return RecordingTimer
	}
}
