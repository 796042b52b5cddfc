package testutil

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/kbukum/asynchttp/component"
)

// Responder writes whatever reply it likes to conn after req was read.
type Responder func(conn net.Conn, req *http.Request)

// OK answers 200 with body.
func OK(body string) Responder {
	return Reply("HTTP/1.1 200 OK\r\nContent-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n" + body)
}

// Reply writes raw verbatim.
func Reply(raw string) Responder {
	return func(conn net.Conn, _ *http.Request) {
		_, _ = io.WriteString(conn, raw)
	}
}

// Silent holds the connection open without answering until the peer
// closes it.
func Silent(conn net.Conn, _ *http.Request) {
	_, _ = io.Copy(io.Discard, conn)
}

// RawServer is a loopback HTTP/1.1 peer. Each connection serves one request.
type RawServer struct {
	respond Responder
	// ConnDeadline bounds every accepted connection. Defaults to 10s.
	ConnDeadline time.Duration

	mu     sync.Mutex
	ln     net.Listener
	raw    [][]byte
	closed chan struct{}
	wg     sync.WaitGroup
}

var _ TestComponent = (*RawServer)(nil)

// NewRawServer creates a server answering with respond. A nil respond
// closes each connection after reading the request.
func NewRawServer(respond Responder) *RawServer {
	return &RawServer{
		respond:      respond,
		ConnDeadline: 10 * time.Second,
		closed:       make(chan struct{}, 1024),
	}
}

// Name implements component.Component.
func (s *RawServer) Name() string { return "raw-http-server" }

// Start listens on an ephemeral loopback port.
func (s *RawServer) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return fmt.Errorf("testutil: server already started")
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	s.ln = ln
	s.wg.Add(1)
	go s.accept(ln)
	return nil
}

// Stop closes the listener and waits for open connections to finish.
func (s *RawServer) Stop(_ context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return nil
	}
	err := ln.Close()
	s.wg.Wait()
	return err
}

// Health implements component.Component.
func (s *RawServer) Health(_ context.Context) component.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return component.Health{Name: s.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: s.Name(), Status: component.StatusHealthy, Message: s.ln.Addr().String()}
}

func (s *RawServer) accept(ln net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

func (s *RawServer) handle(conn net.Conn) {
	defer func() {
		_ = conn.Close()
		s.closed <- struct{}{}
	}()
	_ = conn.SetDeadline(time.Now().Add(s.ConnDeadline))

	var buf bytes.Buffer
	req, err := http.ReadRequest(bufio.NewReader(io.TeeReader(conn, &buf)))
	if err != nil {
		return
	}
	_, _ = io.ReadAll(req.Body)
	s.mu.Lock()
	s.raw = append(s.raw, append([]byte(nil), buf.Bytes()...))
	s.mu.Unlock()
	if s.respond != nil {
		s.respond(conn, req)
	}
}

// Addr returns host:port.
func (s *RawServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ln.Addr().String()
}

// URL returns an http URL for path.
func (s *RawServer) URL(path string) string { return "http://" + s.Addr() + path }

// Requests returns the raw bytes of every request read so far.
func (s *RawServer) Requests() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.raw...)
}

// Closed receives once per connection the server has closed.
func (s *RawServer) Closed() <-chan struct{} { return s.closed }

// Reset discards recorded requests.
func (s *RawServer) Reset(_ context.Context) error {
	s.mu.Lock()
	s.raw = nil
	s.mu.Unlock()
	return nil
}

// Snapshot returns the number of recorded requests.
func (s *RawServer) Snapshot(_ context.Context) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.raw), nil
}

// Restore truncates the recording to a Snapshot.
func (s *RawServer) Restore(_ context.Context, snapshot any) error {
	n, ok := snapshot.(int)
	if !ok {
		return fmt.Errorf("testutil: snapshot %T is not a request count", snapshot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 || n > len(s.raw) {
		return fmt.Errorf("testutil: snapshot %d out of range", n)
	}
	s.raw = s.raw[:n]
	return nil
}

// HeaderLines returns the header lines of a raw request.
func HeaderLines(raw []byte) []string {
	head, _, _ := bytes.Cut(raw, []byte("\r\n\r\n"))
	lines := bytes.Split(head, []byte("\r\n"))
	out := make([]string, 0, len(lines))
	for _, l := range lines[1:] {
		out = append(out, string(l))
	}
	return out
}

// ClosedPort returns a loopback address nothing listens on.
func ClosedPort() (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	addr := ln.Addr().String()
	return addr, ln.Close()
}
