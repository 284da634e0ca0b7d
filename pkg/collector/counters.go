// Package collector wires together the receiver, queue, writer, and
// metrics endpoint into the running pipeline described in spec §5, and
// owns the shared atomic counters spec §7 requires to be observable from
// every subsystem without higher-than-relaxed ordering.
package collector

import "sync/atomic"

// Counters holds the process-wide relaxed atomic counters shared by the
// receiver, writer, and metrics endpoint. Spec §7: received is
// incremented strictly before try_push, dropped strictly after a failed
// try_push, written after a successful sink write. No linearization point
// is required between these and the queue's own depth.
type Counters struct {
	received atomic.Uint64
	written  atomic.Uint64
	dropped  atomic.Uint64
}

// IncReceived increments the received counter and returns the new value.
func (c *Counters) IncReceived() uint64 { return c.received.Add(1) }

// IncWritten increments the written counter and returns the new value.
func (c *Counters) IncWritten() uint64 { return c.written.Add(1) }

// IncDropped increments the dropped counter and returns the new value.
func (c *Counters) IncDropped() uint64 { return c.dropped.Add(1) }

// Received returns the current received count.
func (c *Counters) Received() uint64 { return c.received.Load() }

// Written returns the current written count.
func (c *Counters) Written() uint64 { return c.written.Load() }

// Dropped returns the current dropped count.
func (c *Counters) Dropped() uint64 { return c.dropped.Load() }
