package collector

import (
	"time"

	"github.com/quadgate-labs/logcollector/pkg/log"
)

// statsInterval is the periodic summary cadence, matching the 5-second
// sleep in the original implementation's metricsLoop (main.cpp).
const statsInterval = 5 * time.Second

// statsSource is the subset of Counters the periodic logger reads.
type statsSource interface {
	Received() uint64
	Written() uint64
	Dropped() uint64
}

// statsLogger periodically logs a received/written/dropped summary with
// per-second rates computed against the previous tick. It is the Go
// equivalent of the original implementation's metricsLoop, which prints
// the same summary to stderr every 5 seconds while the process runs.
type statsLogger struct {
	logger   log.Logger
	src      statsSource
	depth    func() int
	interval time.Duration

	lastReceived, lastWritten, lastDropped uint64
	lastTick                               time.Time
}

func newStatsLogger(logger log.Logger, src statsSource, depth func() int) *statsLogger {
	return &statsLogger{
		logger:   logger,
		src:      src,
		depth:    depth,
		interval: statsInterval,
		lastTick: time.Now(),
	}
}

// tick logs one summary line and resets the delta baseline.
func (l *statsLogger) tick() {
	now := time.Now()
	dt := now.Sub(l.lastTick).Seconds()
	l.lastTick = now

	received := l.src.Received()
	written := l.src.Written()
	dropped := l.src.Dropped()

	var recvRate, writtenRate, droppedRate float64
	if dt > 0 {
		recvRate = float64(received-l.lastReceived) / dt
		writtenRate = float64(written-l.lastWritten) / dt
		droppedRate = float64(dropped-l.lastDropped) / dt
	}
	l.lastReceived, l.lastWritten, l.lastDropped = received, written, dropped

	l.logger.Infof(
		"stats: received=%d written=%d dropped=%d queue_depth=%d | recv/s=%.1f written/s=%.1f dropped/s=%.1f",
		received, written, dropped, l.depth(), recvRate, writtenRate, droppedRate,
	)
}

// run logs a summary every interval until stop is closed.
func (l *statsLogger) run(stop <-chan struct{}) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.tick()
		case <-stop:
			return
		}
	}
}
