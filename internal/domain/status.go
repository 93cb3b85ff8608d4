package domain

// Status is a point-in-time snapshot of the device, shaped for sensors
// and dashboards.
type Status struct {
	Online bool

	ChannelNumber string
	ChannelName   string

	DiskTotal   int
	DiskFree    int
	DiskPercent int

	Recording     RecordingState
	RecordingName string
}

// NowPlaying pairs the tuned channel with its running event.
type NowPlaying struct {
	Channel Channel
	Event   EPGEvent
}

// Guide is the EPG block fetched for one channel of the channel list.
type Guide struct {
	Channel Channel
	Block   EPGChannel
}
