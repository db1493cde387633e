package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	stats "github.com/lyft/gostats"
	"github.com/lyft/sysexconv/table"
	"github.com/pkg/errors"

	logger "github.com/sirupsen/logrus"
)

const (
	DefaultContainer  = "DELAY_TIME_LOOKUP"
	DefaultSourceName = "delay_time_sysex.h"
)

// ErrOutputUnwritable is matched by every error returned from WriteFile.
var ErrOutputUnwritable = errors.New("output unwritable")

type writeError struct {
	path string
	err  error
}

func (e *writeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrOutputUnwritable, e.path, e.err)
}

func (e *writeError) Is(target error) bool { return target == ErrOutputUnwritable }

func (e *writeError) Unwrap() error { return e.err }

type renderStats struct {
	writes        stats.Counter
	writeFailures stats.Counter
	lines         stats.Gauge
}

func newRenderStats(scope stats.Scope) renderStats {
	ret := renderStats{}
	ret.writes = scope.NewCounter("writes")
	ret.writeFailures = scope.NewCounter("write_failures")
	ret.lines = scope.NewGauge("lines")
	return ret
}

// Serializer renders a delay table as a JavaScript module.
type Serializer struct {
	container  string
	sourceName string
	helper     bool
	stats      renderStats
}

type Option func(s *Serializer)

// Container sets the name of the emitted array.
func Container(name string) Option {
	return func(s *Serializer) { s.container = name }
}

// SourceName sets the file name quoted in the generated preamble.
func SourceName(name string) Option {
	return func(s *Serializer) { s.sourceName = name }
}

func WithLookupHelper(s *Serializer)    { s.helper = true }
func WithoutLookupHelper(s *Serializer) { s.helper = false }

func New(scope stats.Scope, opts ...Option) *Serializer {
	s := &Serializer{
		container:  DefaultContainer,
		sourceName: DefaultSourceName,
		stats:      newRenderStats(scope.Scope("render")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render produces the complete document. Every token is written exactly as extracted.
func (s *Serializer) Render(t table.IFace) string {
	var b strings.Builder

	fmt.Fprintf(&b, "// Auto-generated from %s\n", s.sourceName)
	fmt.Fprintf(&b, "// Contains lookup table for SPM Delay Time SysEx commands (%s)\n\n", delayRange(t))
	fmt.Fprintf(&b, "const %s = [\n", s.container)

	for _, e := range t.Entries() {
		fmt.Fprintf(&b, "    { ms: %d, data: [%s] },\n", e.DelayMs, strings.Join(e.Data, ", "))
	}

	b.WriteString("];\n\n")
	fmt.Fprintf(&b, "console.log(`Loaded %[1]s with ${%[1]s.length} entries`);\n", s.container)

	if s.helper {
		b.WriteString("\n")
		writeLookupHelper(&b, s.container)
	}

	s.stats.lines.Set(uint64(t.Len()))
	return b.String()
}

// WriteFile renders t and replaces path with the result. The document is written to a temporary
// file next to path first, so a failed write never leaves a truncated table behind.
func (s *Serializer) WriteFile(path string, t table.IFace) error {
	if err := s.writeFile(path, s.Render(t)); err != nil {
		s.stats.writeFailures.Inc()
		return errors.WithStack(&writeError{path: path, err: err})
	}
	s.stats.writes.Inc()
	logger.Debugf("render: wrote %d entries to %s", t.Len(), path)
	return nil
}

func (s *Serializer) writeFile(path string, doc string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func delayRange(t table.IFace) string {
	lo, hi, ok := t.Range()
	if !ok {
		return "empty"
	}
	return fmt.Sprintf("%dms - %dms", lo, hi)
}
