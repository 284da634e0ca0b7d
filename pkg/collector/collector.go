package collector

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyp3rd/ewrap"

	"github.com/quadgate-labs/logcollector/pkg/config"
	"github.com/quadgate-labs/logcollector/pkg/log"
	"github.com/quadgate-labs/logcollector/pkg/metrics"
	"github.com/quadgate-labs/logcollector/pkg/queue"
	"github.com/quadgate-labs/logcollector/pkg/receiver"
	"github.com/quadgate-labs/logcollector/pkg/signalctl"
	"github.com/quadgate-labs/logcollector/pkg/sink"
	"github.com/quadgate-labs/logcollector/pkg/writer"
)

// Collector owns the full pipeline described in spec §5: the signal
// controller, queue, receiver, writer, sink, and metrics endpoint, wired
// together and torn down in the mandatory order, plus a periodic stats
// logger carried over from the original implementation's metricsLoop.
type Collector struct {
	runID  string
	cfg    config.Config
	logger log.Logger

	counters *Counters
	q        *queue.Queue
	sig      *signalctl.Controller
	recv     *receiver.Receiver
	w        *writer.Writer
	m        *metrics.Server
	stats    *statsLogger
}

// udpBindAddr is the fixed UDP wildcard bind address (spec §4.4/§6):
// cfg.BindIP configures only the HTTP metrics listener, never the
// datagram socket.
const udpBindAddr = "0.0.0.0"

// metricsSource adapts a Collector's counters and queue to metrics.Source.
type metricsSource struct {
	c *Collector
}

func (s metricsSource) Received() float64   { return float64(s.c.counters.Received()) }
func (s metricsSource) Written() float64    { return float64(s.c.counters.Written()) }
func (s metricsSource) Dropped() float64    { return float64(s.c.counters.Dropped()) }
func (s metricsSource) QueueDepth() float64 { return float64(s.c.q.Size()) }

// New constructs a Collector from a validated Config. The fatal startup
// failures that happen here (UDP bind, sink open) are wrapped with
// github.com/hyp3rd/ewrap so the returned error carries a stack of causes
// rather than a flat string; the metrics listener is bound, and its
// failure wrapped the same way, in Run.
func New(logger log.Logger, cfg config.Config) (*Collector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, ewrap.Wrap(err, "collector: invalid configuration")
	}

	sig, err := signalctl.Install()
	if err != nil {
		return nil, ewrap.Wrap(err, "collector: install signal handlers")
	}

	c := &Collector{
		runID:  uuid.New().String(),
		cfg:    cfg,
		logger: logger,
		sig:    sig,
		q:      queue.New(cfg.Queue),
	}

	s, err := sink.Open(sink.Config{
		Path:        cfg.Out,
		MaxBytes:    int64(cfg.RotateMB) << 20,
		MaxArchives: cfg.RotateFiles,
	})
	if err != nil {
		sig.Stop()
		return nil, ewrap.Wrap(err, "collector: open sink")
	}

	c.counters = &Counters{}

	// The UDP socket always binds the wildcard address, independent of
	// cfg.BindIP: spec §4.4/§6 give the collector no separate UDP host
	// knob, and the original (UdpServer.cpp's INADDR_ANY) never restricts
	// ingestion to loopback. cfg.BindIP is the HTTP bind address for C6.
	recv, err := receiver.New(logger, udpBindAddr, cfg.UDPPort, c.q, c.counters)
	if err != nil {
		_ = s.Close()
		sig.Stop()
		return nil, ewrap.Wrap(err, "collector: start receiver")
	}
	c.recv = recv

	c.w = writer.New(logger, c.q, s, c.counters, cfg.Batch, time.Duration(cfg.FlushMS)*time.Millisecond)
	c.m = metrics.NewServer(logger, metricsSource{c: c})
	c.stats = newStatsLogger(logger, c.counters, func() int { return c.q.Size() })

	return c, nil
}

// Run starts the receiver, writer, and metrics endpoint and blocks until
// a termination signal arrives, then executes the mandatory shutdown
// sequence from spec §5: receiver exits, queue closes, writer drains,
// metrics stops.
func (c *Collector) Run() error {
	metricsAddr := fmt.Sprintf("%s:%d", c.cfg.BindIP, c.cfg.MetricsPort)
	if err := c.m.Start(metricsAddr); err != nil {
		return ewrap.Wrap(err, "collector: start metrics endpoint")
	}

	c.logger.Infof("collector run_id=%s starting: udp=%s:%d metrics=%s out=%s", c.runID, udpBindAddr, c.cfg.UDPPort, metricsAddr, c.cfg.Out)

	writerErr := make(chan error, 1)
	go func() { writerErr <- c.w.Run() }()

	go c.stats.run(c.sig.Wake())

	recvDone := make(chan struct{})
	go func() {
		c.recv.Run(c.sig.Wake(), c.sig.StopRequested)
		close(recvDone)
	}()

	<-c.sig.Wake()
	<-recvDone

	c.q.Close()

	var runErr error
	if err := <-writerErr; err != nil {
		runErr = ewrap.Wrap(err, "collector: writer failed")
	}

	c.m.Stop()

	c.logger.Infof("collector run_id=%s stopped: received=%d written=%d dropped=%d", c.runID, c.counters.Received(), c.counters.Written(), c.counters.Dropped())

	return runErr
}

// RunID returns the process-unique identifier stamped at construction.
func (c *Collector) RunID() string { return c.runID }
