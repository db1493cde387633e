package convert

import (
	"fmt"
	"os"

	stats "github.com/lyft/gostats"
	"github.com/lyft/sysexconv/extract"
	"github.com/lyft/sysexconv/render"
	"github.com/lyft/sysexconv/table"
	"github.com/pkg/errors"

	logger "github.com/sirupsen/logrus"
)

// ErrSourceUnreadable is matched by errors caused by reading the input document.
var ErrSourceUnreadable = errors.New("source unreadable")

type readError struct {
	path string
	err  error
}

func (e *readError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrSourceUnreadable, e.path, e.err)
}

func (e *readError) Is(target error) bool { return target == ErrSourceUnreadable }

func (e *readError) Unwrap() error { return e.err }

type convertStats struct {
	runs       stats.Counter
	failures   stats.Counter
	numEntries stats.Gauge
}

func newConvertStats(scope stats.Scope) convertStats {
	ret := convertStats{}
	ret.runs = scope.NewCounter("runs")
	ret.failures = scope.NewCounter("failures")
	ret.numEntries = scope.NewGauge("num_entries")
	return ret
}

// Converter reads one source listing and writes one generated table.
type Converter struct {
	inputPath  string
	outputPath string
	extractor  extract.IFace
	serializer *render.Serializer
	stats      convertStats
}

func New(inputPath, outputPath string, extractor extract.IFace, serializer *render.Serializer, scope stats.Scope) *Converter {
	return &Converter{
		inputPath:  inputPath,
		outputPath: outputPath,
		extractor:  extractor,
		serializer: serializer,
		stats:      newConvertStats(scope.Scope("convert")),
	}
}

func (c *Converter) InputPath() string { return c.inputPath }

// Run performs one full conversion. The output file is left untouched unless every entry was
// extracted successfully.
func (c *Converter) Run() (*table.Table, error) {
	c.stats.runs.Inc()

	t, err := c.run()
	if err != nil {
		c.stats.failures.Inc()
		return nil, err
	}

	c.stats.numEntries.Set(uint64(t.Len()))
	return t, nil
}

func (c *Converter) run() (*table.Table, error) {
	logger.Infof("reading %s", c.inputPath)

	contents, err := os.ReadFile(c.inputPath)
	if err != nil {
		return nil, errors.WithStack(&readError{path: c.inputPath, err: err})
	}

	t, err := c.extractor.Extract(string(contents))
	if err != nil {
		return nil, errors.WithMessagef(err, "%s", c.inputPath)
	}
	logger.Infof("found %d entries", t.Len())

	logger.Infof("writing %d entries to %s", t.Len(), c.outputPath)
	if err := c.serializer.WriteFile(c.outputPath, t); err != nil {
		return nil, err
	}

	logger.Info("done")
	return t, nil
}
