// Package sink implements the append-only, size-rotating file writer from
// spec §4.3 (C3): every line lands in a live file that rotates into a
// bounded set of numbered archives once it crosses a byte threshold.
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Config configures a Sink: a base path, a size budget, and a retained
// archive count.
type Config struct {
	// Path is the live log file, P in spec §4.3.
	Path string
	// MaxBytes is the per-file threshold B. Rotation happens before a
	// write that would cause bytes_written+add >= MaxBytes.
	MaxBytes int64
	// MaxArchives is N, the number of retained P.1..P.N segments.
	MaxArchives int
}

// DefaultConfig returns a Config using the collector's default rotation
// budget (5 MiB per file, 5 retained archives) for the given path.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		MaxBytes:    5 << 20,
		MaxArchives: 5,
	}
}

// Sink is a single-writer append-only file with size-based rotation. It is
// owned exclusively by the writer goroutine (spec §5); the mutex exists
// only so Stats can be read from another goroutine (e.g. the metrics
// server) without racing.
type Sink struct {
	cfg Config

	mu           sync.Mutex
	file         *os.File
	bytesWritten int64
	closed       bool

	writtenLines int64
	rotations    int64
}

// Open opens (or creates) cfg.Path in append mode and seeds bytesWritten
// from the file's current size, per spec §4.3's "open-on-demand" clause.
// Open failure is fatal per spec §7 and is returned directly for the
// caller to wrap and surface.
func Open(cfg Config) (*Sink, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sink: path is required")
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = (5 << 20)
	}
	if cfg.MaxArchives < 1 {
		cfg.MaxArchives = 1
	}

	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("sink: open %s: %w", cfg.Path, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("sink: stat %s: %w", cfg.Path, err)
	}

	return &Sink{
		cfg:          cfg,
		file:         f,
		bytesWritten: st.Size(),
	}, nil
}

// WriteLine appends line to the live file, ensuring exactly one trailing
// newline, rotating first if the write would cross MaxBytes. Every write
// is flushed (there is no internal buffering) so an unexpected process
// exit loses at most this one write, per spec §4.3's durability policy.
func (s *Sink) WriteLine(line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("sink: write on closed sink")
	}

	needsNewline := len(line) == 0 || line[len(line)-1] != '\n'
	add := int64(len(line))
	if needsNewline {
		add++
	}

	if s.bytesWritten+add >= s.cfg.MaxBytes {
		if err := s.rotateLocked(); err != nil {
			return err
		}
	}

	if _, err := s.file.Write(line); err != nil {
		return fmt.Errorf("sink: write: %w", err)
	}
	if needsNewline {
		if _, err := s.file.Write([]byte{'\n'}); err != nil {
			return fmt.Errorf("sink: write newline: %w", err)
		}
	}

	s.bytesWritten += add
	s.writtenLines++
	return nil
}

// rotateLocked performs the rotation algorithm from spec §4.3. Caller must
// hold s.mu.
func (s *Sink) rotateLocked() error {
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("sink: close before rotate: %w", err)
	}

	// Delete the oldest archive if present, then shift P.(N-1)->P.N down
	// to P.1, best-effort: an individual rename failure (e.g. permission
	// glitch) is skipped rather than aborting ingestion (spec §4.3, §7).
	_ = os.Remove(s.archivePath(s.cfg.MaxArchives))
	for i := s.cfg.MaxArchives - 1; i >= 1; i-- {
		_ = os.Rename(s.archivePath(i), s.archivePath(i+1))
	}
	_ = os.Rename(s.cfg.Path, s.archivePath(1))

	f, err := os.OpenFile(s.cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("sink: reopen after rotate: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("sink: stat after rotate: %w", err)
	}

	s.file = f
	s.bytesWritten = st.Size()
	s.rotations++
	return nil
}

func (s *Sink) archivePath(i int) string {
	return s.cfg.Path + "." + strconv.Itoa(i)
}

// ArchivePath exposes the naming scheme for tests and operational tooling.
func (s *Sink) ArchivePath(i int) string {
	return s.archivePath(i)
}

// Close flushes and closes the live file handle. Idempotent.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}

// Stats is a snapshot of the sink's operational counters.
type Stats struct {
	BytesWritten int64
	WrittenLines int64
	Rotations    int64
}

// Stats returns a snapshot of the sink's counters.
func (s *Sink) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		BytesWritten: s.bytesWritten,
		WrittenLines: s.writtenLines,
		Rotations:    s.rotations,
	}
}

// CurrentPath returns the sink's live file path.
func (s *Sink) CurrentPath() string {
	return s.cfg.Path
}

// listArchives is a small helper for tests: returns which of P.1..P.(N+1)
// currently exist on disk (one slot past N, so an over-retained archive
// would show up).
func listArchives(dir, base string, maxArchives int) ([]string, error) {
	var found []string
	for i := 1; i <= maxArchives+1; i++ {
		p := filepath.Join(dir, base+"."+strconv.Itoa(i))
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return found, nil
}
