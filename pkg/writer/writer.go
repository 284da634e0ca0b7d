// Package writer implements the pull-based batching loop from spec §4.5
// (C5): drain the queue in batches, push each line through the sink, and
// guarantee drain-on-shutdown once the queue is closed and empty.
package writer

import (
	"fmt"
	"time"

	"github.com/quadgate-labs/logcollector/pkg/log"
	"github.com/quadgate-labs/logcollector/pkg/queue"
	"github.com/quadgate-labs/logcollector/pkg/sink"
)

// Counters is the subset of collector.Counters the writer mutates.
type Counters interface {
	IncWritten() uint64
}

// Writer pulls batches off a queue.Queue and writes each line through a
// sink.Sink. It owns the sink's lifetime: Run closes it on return.
type Writer struct {
	q          *queue.Queue
	s          *sink.Sink
	logger     log.Logger
	inc        Counters
	batchSize  int
	flushEvery time.Duration
}

// New constructs a Writer. batchSize and flushEvery come directly from
// spec §6's config surface (batch, flush_ms).
func New(logger log.Logger, q *queue.Queue, s *sink.Sink, counters Counters, batchSize int, flushEvery time.Duration) *Writer {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Writer{
		q:          q,
		s:          s,
		logger:     logger,
		inc:        counters,
		batchSize:  batchSize,
		flushEvery: flushEvery,
	}
}

// Run drains the queue until it observes closed-and-empty, writing every
// popped line through the sink. A sink I/O failure is fatal per spec §4.5
// and is returned to the caller, who is expected to treat it as a
// non-zero process exit.
func (w *Writer) Run() error {
	defer w.s.Close()

	for {
		batch := w.q.PopBatchFor(w.batchSize, w.flushEvery)
		for _, line := range batch {
			if err := w.s.WriteLine(line); err != nil {
				return fmt.Errorf("writer: %w", err)
			}
			w.inc.IncWritten()
		}
		if w.q.IsClosed() && w.q.Size() == 0 {
			return nil
		}
	}
}
