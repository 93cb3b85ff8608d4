package svdrp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/githubixx/vdrremote-go/internal/domain"
)

const (
	lineTerminator = "\r\n"
	quitCommand    = "QUIT"

	readChunkSize = 4096
)

// Transport runs one SVDRP command cycle per Send: connect, write the
// command plus QUIT, read until the peer closes, disconnect.
// It keeps no connection between calls.
type Transport struct {
	addr    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewTransport creates a transport for host:port. timeout bounds the dial
// and the whole read phase.
func NewTransport(host string, port int, timeout time.Duration, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Transport{
		addr:    net.JoinHostPort(host, strconv.Itoa(port)),
		timeout: timeout,
		logger:  logger,
	}
}

// Addr returns the host:port this transport dials.
func (t *Transport) Addr() string { return t.addr }

// Send executes cmd and returns every line received. Connection problems
// are not returned as errors: the Response is empty (or truncated) and
// Response.Err carries the cause.
func (t *Transport) Send(ctx context.Context, cmd string) *Response {
	resp := &Response{}

	dialer := &net.Dialer{Timeout: t.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		resp.err = fmt.Errorf("%w: %s: %v", domain.ErrConnection, t.addr, err)
		t.logger.Info("unable to connect to VDR, not powered on?",
			slog.String("addr", t.addr), slog.Any("error", err))
		return resp
	}
	defer conn.Close()

	deadline := time.Now().Add(t.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)
	// Cancelling ctx cuts the cycle short; what was read so far is kept.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	t.logger.Debug("send command", slog.String("addr", t.addr), slog.String("command", cmd))

	if _, err := io.WriteString(conn, cmd+lineTerminator+quitCommand+lineTerminator); err != nil {
		resp.err = fmt.Errorf("write %q: %w", cmd, err)
		t.logger.Warn("failed to send command", slog.String("command", cmd), slog.Any("error", err))
		return resp
	}

	data, err := readAll(conn)
	if err != nil {
		resp.err = err
		if errors.Is(err, os.ErrDeadlineExceeded) {
			resp.err = fmt.Errorf("%w: %v", domain.ErrTimeout, err)
			t.logger.Debug("read timed out, using partial response",
				slog.String("command", cmd), slog.Int("bytes", len(data)))
		} else {
			t.logger.Warn("read failed, using partial response",
				slog.String("command", cmd), slog.Any("error", err))
		}
	}

	splitLines(data, resp)
	t.logger.Debug("received response", slog.String("command", cmd), slog.Int("lines", resp.Len()))
	return resp
}

// readAll reads in bounded chunks until EOF. On any other error the bytes
// read so far are returned together with the error.
func readAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	for {
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return buf.Bytes(), err
		}
	}
}

// splitLines adds every non-empty line of data to resp. The whole reply is
// already in memory, so no line is too long to keep.
func splitLines(data []byte, resp *Response) {
	for _, raw := range bytes.Split(data, []byte("\n")) {
		line := bytes.TrimSuffix(raw, []byte("\r"))
		if len(line) == 0 {
			continue
		}
		resp.add(string(line))
	}
}
