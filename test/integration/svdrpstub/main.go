package main

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

type channel struct {
	number string
	id     string
	name   string
}

type event struct {
	id       string
	offset   time.Duration
	duration time.Duration
	title    string
	desc     string
}

var channels = []channel{
	{"1", "S19.2E-1-1019-10301", "Das Erste HD"},
	{"2", "S19.2E-1-1011-11110", "ZDF HD"},
	{"3", "S19.2E-1-1079-28006", "arte HD"},
}

// Schedules relative to the stub's start. arte has no EPG on purpose.
var schedules = map[string][]event{
	"S19.2E-1-1019-10301": {
		{"100", -5 * time.Minute, 15 * time.Minute, "Tagesschau", "Nachrichten"},
		{"101", 10 * time.Minute, 90 * time.Minute, "Tatort", "Krimi"},
	},
	"S19.2E-1-1011-11110": {
		{"200", -10 * time.Minute, 30 * time.Minute, "heute journal", "Nachrichten"},
	},
}

func main() {
	addr := getenv("SVDRP_ADDR", ":6419")
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("listen %s: %v", addr, err)
	}
	defer ln.Close()

	log.Printf("svdrp stub listening on %s", addr)

	s := &stub{epoch: time.Now().Truncate(time.Minute)}
	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Printf("accept: %v", err)
			continue
		}
		go s.handleConn(conn)
	}
}

type stub struct {
	epoch time.Time
	// current is the index into channels VDR is tuned to.
	current atomic.Int64
}

func (s *stub) handleConn(conn net.Conn) {
	defer conn.Close()

	// Welcome.
	_, _ = conn.Write([]byte("220 svdrp-stub SVDRP VideoDiskRecorder 2.6.0; UTF-8\r\n"))

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmdline := strings.TrimSpace(line)
		if cmdline == "" {
			continue
		}

		fields := strings.Fields(cmdline)
		cmd := strings.ToUpper(fields[0])
		args := fields[1:]

		switch cmd {
		case "QUIT":
			writeLine(w, "221 svdrp-stub closing connection")
			_ = w.Flush()
			return

		case "STAT":
			writeLine(w, "250 1000000MB 400000MB 40%")

		case "CHAN":
			s.channel(w, args)

		case "LSTC":
			var out []string
			for _, ch := range channels {
				out = append(out, fmt.Sprintf("%s %s %s;Provider:11494:HC23M5O35P0S1:S19.2E:22000:5101=2:5102=deu@3:0:0:1:1019:0", ch.number, ch.id, ch.name))
			}
			writeMulti(w, 250, out)

		case "LSTT":
			today := s.epoch.Format("2006-01-02")
			writeMulti(w, 250, []string{
				fmt.Sprintf("1 1:1:%s:2015:2145:50:99:Tatort:<epgsearch><eventid>101</eventid><timerid>1</timerid></epgsearch>", today),
				fmt.Sprintf("2 9:2:%s:2145:2215:50:99:heute journal~Ausgabe:<epgsearch><eventid>200</eventid><timerid>2</timerid></epgsearch>", today),
			})

		case "LSTE":
			s.lste(w, args)

		default:
			writeLine(w, fmt.Sprintf("500 Command unrecognized: %q", cmdline))
		}

		_ = w.Flush()
	}
}

func (s *stub) channel(w *bufio.Writer, args []string) {
	n := int64(len(channels))
	if len(args) > 0 {
		switch args[0] {
		case "+":
			s.current.Store((s.current.Load() + 1) % n)
		case "-":
			s.current.Store((s.current.Load() - 1 + n) % n)
		default:
			writeLine(w, "501 Undefined channel")
			return
		}
	}
	ch := channels[s.current.Load()]
	writeLine(w, fmt.Sprintf("250 %s %s", ch.number, ch.name))
}

func (s *stub) lste(w *bufio.Writer, args []string) {
	var selected []channel
	filter := ""
	if len(args) == 0 {
		selected = channels
	} else {
		for _, ch := range channels {
			if ch.number == args[0] || ch.id == args[0] {
				selected = append(selected, ch)
			}
		}
		if len(args) > 1 {
			filter = strings.ToLower(args[1])
		}
	}

	var out []string
	for _, ch := range selected {
		events := schedules[ch.id]
		if len(events) == 0 {
			continue
		}
		out = append(out, "C "+ch.id+" "+ch.name)
		for i, ev := range events {
			if filter == "now" && i > 0 {
				break
			}
			if filter == "next" && i == 0 {
				continue
			}
			start := s.epoch.Add(ev.offset)
			out = append(out,
				fmt.Sprintf("E %s %d %d 4E 1", ev.id, start.Unix(), int(ev.duration.Seconds())),
				"T "+ev.title,
				"D "+ev.desc,
				"X 5 0B deu HD",
				"e",
			)
		}
		out = append(out, "c")
	}

	if len(out) == 0 {
		writeLine(w, "550 No schedule found")
		return
	}
	writeMulti(w, 215, append(out, "End of EPG data"))
}

// writeMulti writes lines as a continued reply; the last one closes it.
func writeMulti(w *bufio.Writer, code int, lines []string) {
	for i, l := range lines {
		sep := "-"
		if i == len(lines)-1 {
			sep = " "
		}
		writeLine(w, fmt.Sprintf("%03d%s%s", code, sep, l))
	}
}

func writeLine(w *bufio.Writer, line string) {
	_, _ = w.WriteString(line + "\r\n")
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
