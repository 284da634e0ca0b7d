package metrics

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/quadgate-labs/logcollector/pkg/log"
)

// Server is the single-threaded HTTP/1.0-style responder from spec §4.6.
// It never uses net/http: each connection is read once (up to 1024
// bytes), matched against a fixed set of request-line prefixes, and
// answered with Connection: close and an exact Content-Length.
type Server struct {
	logger log.Logger
	src    Source
	reg    *registry

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup
	stopped  bool
}

// NewServer constructs a Server. Values are read from src on every
// request, never cached.
func NewServer(logger log.Logger, src Source) *Server {
	return &Server{
		logger: logger,
		src:    src,
		reg:    newRegistry(src),
	}
}

// Start binds bindAddr and begins accepting connections in a background
// goroutine. Bind failure is fatal per spec §7 and is returned directly.
//
// Go's net package does not expose the SO_REUSEADDR/listen-backlog knobs
// spec §4.6 names; net.Listen's platform defaults are accepted as-is (see
// DESIGN.md).
func (s *Server) Start(bindAddr string) error {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return fmt.Errorf("metrics: listen %s: %w", bindAddr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.wg.Add(1)
	go s.acceptLoop(ln)
	return nil
}

// acceptLoop mirrors spec §4.6's wait-set of {listen-fd, wake-fd}: Stop
// closing the listener is what makes the blocked Accept return an error,
// which is treated as the wake signal rather than an operational failure.
func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			stopped := s.stopped
			s.mu.Unlock()
			if stopped {
				return
			}
			s.logger.Warnf("metrics: accept: %v", err)
			return
		}
		s.wg.Add(1)
		s.handle(conn)
	}
}

// handle serves exactly one request on conn and closes it. The reader is
// best-effort per spec §4.6: a short first read is answered with whatever
// request line (or none) was captured, which naturally falls through to
// 404 for anything unrecognized.
func (s *Server) handle(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	// No read deadline: spec §5 accepts that a client failing to send
	// data stays pinned until the kernel returns from recv, since this is
	// a scrape on a trusted network.
	buf := make([]byte, 1024)
	n, _ := conn.Read(buf)
	requestLine := firstLine(buf[:n])

	var status string
	var contentType string
	var body []byte

	switch {
	case strings.HasPrefix(requestLine, "GET /metrics"):
		text, err := s.reg.renderText()
		if err != nil {
			s.logger.Errorf("metrics: render: %v", err)
			status, contentType, body = "500 Internal Server Error", "text/plain; charset=utf-8", []byte("Internal Server Error\n")
			break
		}
		status, contentType, body = "200 OK", "text/plain; version=0.0.4", text
	case strings.HasPrefix(requestLine, "GET /health"):
		status, contentType, body = "200 OK", "application/json", healthJSON(s.src)
	default:
		status, contentType, body = "404 Not Found", "text/plain; charset=utf-8", []byte("Not Found\n")
	}

	var resp bytes.Buffer
	fmt.Fprintf(&resp, "HTTP/1.0 %s\r\n", status)
	fmt.Fprintf(&resp, "Content-Type: %s\r\n", contentType)
	fmt.Fprintf(&resp, "Content-Length: %d\r\n", len(body))
	resp.WriteString("Connection: close\r\n\r\n")
	resp.Write(body)

	_, _ = conn.Write(resp.Bytes())
}

// firstLine returns the first line of a raw request buffer with its
// trailing CR stripped, or "" if buf is empty.
func firstLine(buf []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(buf))
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r")
	}
	return ""
}

// Stop closes the listener, which unblocks the accept loop, then waits
// for all in-flight handlers to finish. Idempotent.
func (s *Server) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	ln := s.listener
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	s.wg.Wait()
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}
