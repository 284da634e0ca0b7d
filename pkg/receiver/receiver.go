// Package receiver implements the UDP ingestion loop from spec §4.4 (C4):
// one socket, one fixed-size read buffer, handing datagrams off to the
// bounded queue without ever blocking on it.
package receiver

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/quadgate-labs/logcollector/pkg/log"
	"github.com/quadgate-labs/logcollector/pkg/queue"
)

// maxDatagram is the fixed 2048-byte stack buffer spec §4.4 specifies.
const maxDatagram = 2048

// maxRead is the read cap: one byte less than maxDatagram, matching
// recvfrom(sockfd, buffer, sizeof(buffer)-1, ...) in the original
// implementation (UdpServer.cpp). A datagram of exactly 2048 bytes is
// truncated to 2047 bytes, per spec §8's boundary test.
const maxRead = maxDatagram - 1

// pollInterval bounds how long a single ReadFromUDP blocks before the
// loop re-checks stopRequested when that function reports true without
// wake ever closing. In the real shutdown path (spec §4.4/§5) wake and
// stopRequested always fire together off the same signal, so this is only
// a fallback bound, never the mechanism that wakes the receiver: a
// dedicated goroutine below forces an immediate deadline the instant wake
// closes, so shutdown never waits out a poll interval.
const pollInterval = 200 * time.Millisecond

// Receiver owns the UDP socket and feeds it into a queue.Queue.
type Receiver struct {
	conn   *net.UDPConn
	q      *queue.Queue
	logger log.Logger
	inc    Counters
}

// Counters is the subset of collector.Counters the receiver mutates.
type Counters interface {
	IncReceived() uint64
	IncDropped() uint64
}

// New binds a UDP socket on bindAddr:port. Bind failure is fatal per spec
// §7 and is returned directly for the caller to wrap and log.
func New(logger log.Logger, bindAddr string, port int, q *queue.Queue, counters Counters) (*Receiver, error) {
	addr := &net.UDPAddr{IP: net.ParseIP(bindAddr), Port: port}
	if addr.IP == nil {
		return nil, fmt.Errorf("receiver: invalid bind address %q", bindAddr)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("receiver: listen %s:%d: %w", bindAddr, port, err)
	}

	return &Receiver{conn: conn, q: q, logger: logger, inc: counters}, nil
}

// Run reads datagrams until wake is closed or stopRequested reports true,
// then closes the socket and returns. It never blocks the caller's own
// shutdown sequence: this method is meant to run in its own goroutine.
func (r *Receiver) Run(wake <-chan struct{}, stopRequested func() bool) {
	defer r.conn.Close()

	// The moment wake closes, force any in-flight (or future) ReadFromUDP
	// to return immediately instead of waiting out pollInterval.
	go func() {
		<-wake
		_ = r.conn.SetReadDeadline(time.Now())
	}()

	buf := make([]byte, maxDatagram)
	for {
		select {
		case <-wake:
			return
		default:
		}
		if stopRequested() {
			return
		}

		_ = r.conn.SetReadDeadline(time.Now().Add(pollInterval))
		n, _, err := r.conn.ReadFromUDP(buf[:maxRead])
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			select {
			case <-wake:
				return
			default:
			}
			if isTimeout(err) {
				continue
			}
			r.logger.Warnf("receiver: read: %v", err)
			continue
		}
		if n <= 0 {
			continue
		}

		r.inc.IncReceived()

		line := make([]byte, n)
		copy(line, buf[:n])

		if !r.q.TryPush(line) {
			r.inc.IncDropped()
		}
	}
}

// LocalAddr returns the bound socket address, for tests and startup logs.
func (r *Receiver) LocalAddr() net.Addr {
	return r.conn.LocalAddr()
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
