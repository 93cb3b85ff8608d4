package svdrp_test

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// svdrpConnScript describes how the test server handles one connection.
type svdrpConnScript struct {
	welcome string
	// expect is the command line the client must send before QUIT.
	expect string
	// Raw SVDRP response lines to write (each should already start with a 3-digit code).
	// Each line will be terminated with CRLF.
	respond []string
	// If true, the server closes the connection after reading the command (without responding).
	closeAfterRead bool
	// If set, the server keeps the connection open this long after responding
	// instead of acknowledging QUIT, forcing the client into its read timeout.
	stall time.Duration
}

type svdrpTestServer struct {
	t       *testing.T
	ln      net.Listener
	host    string
	port    int
	scripts []svdrpConnScript

	mu        sync.Mutex
	accepted  int
	commands  []string
	closed    bool
	closeOnce sync.Once
}

func newSVDRPTestServer(t *testing.T, scripts []svdrpConnScript) *svdrpTestServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	host, portStr, _ := strings.Cut(ln.Addr().String(), ":")
	port := 0
	_, _ = fmt.Sscanf(portStr, "%d", &port)

	s := &svdrpTestServer{t: t, ln: ln, host: host, port: port, scripts: scripts}
	go s.acceptLoop()
	t.Cleanup(s.Close)
	return s
}

func (s *svdrpTestServer) Addr() (string, int) { return s.host, s.port }

// Accepted returns the number of connections seen so far.
func (s *svdrpTestServer) Accepted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted
}

// Commands returns every line received, across all connections.
func (s *svdrpTestServer) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

func (s *svdrpTestServer) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		_ = s.ln.Close()
	})
}

func (s *svdrpTestServer) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return
			}
			s.t.Errorf("accept: %v", err)
			return
		}

		var script svdrpConnScript
		s.mu.Lock()
		idx := s.accepted
		s.accepted++
		if idx < len(s.scripts) {
			script = s.scripts[idx]
		}
		s.mu.Unlock()

		go s.handleConn(conn, idx, script)
	}
}

func (s *svdrpTestServer) readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	cmd := strings.TrimSpace(line)
	s.mu.Lock()
	s.commands = append(s.commands, cmd)
	s.mu.Unlock()
	return cmd, nil
}

func (s *svdrpTestServer) handleConn(conn net.Conn, idx int, script svdrpConnScript) {
	defer func() { _ = conn.Close() }()

	w := bufio.NewWriter(conn)
	r := bufio.NewReader(conn)

	welcome := script.welcome
	if strings.TrimSpace(welcome) == "" {
		welcome = "220 VDR SVDRP mock ready"
	}
	_, _ = w.WriteString(welcome + "\r\n")
	_ = w.Flush()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	cmd, err := s.readLine(r)
	if err != nil {
		s.t.Errorf("conn %d: read command: %v", idx, err)
		return
	}
	if script.expect != "" && cmd != script.expect {
		s.t.Errorf("conn %d: expected %q, got %q", idx, script.expect, cmd)
		return
	}
	if script.closeAfterRead {
		return
	}

	for _, respLine := range script.respond {
		_, _ = w.WriteString(respLine + "\r\n")
	}
	_ = w.Flush()

	if script.stall > 0 {
		time.Sleep(script.stall)
		return
	}

	quit, err := s.readLine(r)
	if err != nil {
		s.t.Errorf("conn %d: read quit: %v", idx, err)
		return
	}
	if quit != "QUIT" {
		s.t.Errorf("conn %d: expected QUIT, got %q", idx, quit)
		return
	}
	_, _ = w.WriteString("221 VDR closing connection\r\n")
	_ = w.Flush()
}
