package svdrp

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/githubixx/vdrremote-go/internal/domain"
)

// channelID matches a channel id as both LSTC and LSTE print it:
// "S19.2E-1-1019-10301", "C-1-1-10", or a bare "S1".
const channelID = `[A-Za-z][0-9A-Za-z.\-]*`

var (
	// <channel-id> <name>;<provider>:<channels.conf fields>
	channelListPattern = regexp.MustCompile(`^(` + channelID + `)\s(.*?);.*$`)

	// "1000MB 400MB 40%", tolerant of any non-digit filler.
	diskStatPattern = regexp.MustCompile(`^\D*(\d+)\D+(\d+)\D+(\d+)`)

	// status:channel:day:start:stop:priority:lifetime:name[:aux] with the
	// epgsearch <eventid> and <timerid> tags somewhere in the tail.
	timerPattern = regexp.MustCompile(`(?i)^(\d+):(\d+):(\d{4}-\d{2}-\d{2}):(\d+):(\d+):(\d+):(\d+):([^:]*?)(?::.*?)?<eventid>(.*?)</eventid>.*?<timerid>(.*?)</timerid>.*$`)
)

// decodeCurrentChannel decodes a CHAN reply. The channel sits on the line
// before the closing quit acknowledgment: "250 <number> <name>".
func decodeCurrentChannel(resp *Response) (domain.Channel, bool) {
	line, ok := resp.FromEnd(2)
	if !ok || line.Code != CodeSuccess {
		return domain.Channel{}, false
	}
	return domain.Channel{Number: line.Separator, Name: line.Value}, true
}

// decodeChannels decodes an "LSTC :ids :groups" reply. Group separator
// lines and anything else that does not look like a channel are skipped.
func decodeChannels(resp *Response, logger *slog.Logger) []domain.Channel {
	var channels []domain.Channel
	for _, line := range resp.Lines() {
		if line.Code != CodeSuccess {
			continue
		}
		ch, err := parseChannel(line)
		if err != nil {
			logger.Debug("skipping channel line", slog.String("value", line.Value), slog.Any("error", err))
			continue
		}
		channels = append(channels, ch)
	}
	return channels
}

func parseChannel(line ResponseLine) (domain.Channel, error) {
	m := channelListPattern.FindStringSubmatch(line.Value)
	if m == nil {
		return domain.Channel{}, fmt.Errorf("no channel id/name in %q", line.Value)
	}
	return domain.Channel{Number: line.Separator, ID: m[1], Name: m[2]}, nil
}

// decodeDiskStat decodes a STAT DISK reply.
func decodeDiskStat(resp *Response) (domain.DiskStat, bool) {
	for _, line := range resp.Lines() {
		if line.Code != CodeSuccess {
			continue
		}
		if stat, ok := parseDiskStat(line.Value); ok {
			return stat, true
		}
	}
	return domain.DiskStat{}, false
}

func parseDiskStat(text string) (domain.DiskStat, bool) {
	m := diskStatPattern.FindStringSubmatch(text)
	if m == nil {
		return domain.DiskStat{}, false
	}
	total, err1 := strconv.Atoi(m[1])
	free, err2 := strconv.Atoi(m[2])
	percent, err3 := strconv.Atoi(m[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return domain.DiskStat{}, false
	}
	return domain.DiskStat{TotalBlocks: total, FreeBlocks: free, FreePercent: percent}, true
}

// decodeTimers decodes an LSTT reply. A line that does not match the timer
// layout is logged and skipped; the remaining timers are still returned.
func decodeTimers(resp *Response, logger *slog.Logger) []domain.Timer {
	var timers []domain.Timer
	for _, line := range resp.Lines() {
		if line.Code != CodeSuccess {
			continue
		}
		timer, err := parseTimer(line.Value)
		if err != nil {
			logger.Debug("skipping timer line, check the timer layout", slog.Any("error", err))
			continue
		}
		timers = append(timers, timer)
	}
	return timers
}

func parseTimer(value string) (domain.Timer, error) {
	m := timerPattern.FindStringSubmatch(value)
	if m == nil {
		return domain.Timer{}, fmt.Errorf("invalid timer format: %q", value)
	}
	status, err := strconv.Atoi(m[1])
	if err != nil {
		return domain.Timer{}, fmt.Errorf("invalid timer status %q: %w", m[1], err)
	}

	name := m[8]
	return domain.Timer{
		Status:   domain.TimerStatus(status),
		Channel:  m[2],
		Date:     m[3],
		Start:    m[4],
		End:      m[5],
		Name:     name,
		EventID:  m[9],
		TimerID:  m[10],
		IsSeries: strings.Contains(name, domain.SeriesMarker),
	}, nil
}

// recordingTimer picks the timer that explains an ongoing recording: an
// instant recording wins over a regular timer that is recording.
func recordingTimer(timers []domain.Timer) (domain.Timer, bool) {
	for _, tm := range timers {
		if tm.Status.Has(domain.TimerInstantRecording) {
			tm.IsInstantRecording = true
			return tm, true
		}
	}
	for _, tm := range timers {
		if tm.Status.Has(domain.TimerRecording) {
			return tm, true
		}
	}
	return domain.Timer{}, false
}
