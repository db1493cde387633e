package extract

import (
	"regexp"
	"strconv"
	"strings"

	stats "github.com/lyft/gostats"
	"github.com/lyft/sysexconv/table"
	"github.com/lyft/sysexconv/table/entry"
	"github.com/pkg/errors"

	logger "github.com/sirupsen/logrus"
)

var (
	// ErrMalformedEntry is returned when a matched entry's delay is not a decimal unsigned integer.
	ErrMalformedEntry = errors.New("malformed entry")

	// ErrEmptyTable is returned by an Extractor built with RejectEmpty when nothing matched.
	ErrEmptyTable = errors.New("no entries found")
)

// Matches `{ <key>, { <tokens> } }`. The key group accepts anything that looks like a numeric
// literal so that bad keys are reported instead of silently skipped; identifiers never match.
// The token group is non-greedy and may span lines.
var entryPattern = regexp.MustCompile(`(?s)\{\s*([+-]?[0-9]\w*)\s*,\s*\{(.*?)\}\s*\}`)

type extractStats struct {
	attempts   stats.Counter
	malformed  stats.Counter
	numEntries stats.Gauge
}

func newExtractStats(scope stats.Scope) extractStats {
	ret := extractStats{}
	ret.attempts = scope.NewCounter("attempts")
	ret.malformed = scope.NewCounter("malformed")
	ret.numEntries = scope.NewGauge("num_entries")
	return ret
}

// Implementation of IFace that scans text with a regular expression.
type Extractor struct {
	stats       extractStats
	rejectEmpty bool
}

type Option func(x *Extractor)

func AllowEmpty(x *Extractor)  { x.rejectEmpty = false }
func RejectEmpty(x *Extractor) { x.rejectEmpty = true }

func New(scope stats.Scope, opts ...Option) *Extractor {
	x := &Extractor{
		stats: newExtractStats(scope.Scope("extract")),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

func (x *Extractor) Extract(source string) (*table.Table, error) {
	x.stats.attempts.Inc()

	matches := entryPattern.FindAllStringSubmatchIndex(source, -1)
	entries := make([]*entry.Entry, 0, len(matches))

	var lines lineCounter
	for _, m := range matches {
		key := source[m[2]:m[3]]
		line := lines.at(source, m[0])

		delayMs, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			x.stats.malformed.Inc()
			return nil, errors.Wrapf(ErrMalformedEntry, "line %d: delay %q is not an unsigned decimal integer", line, key)
		}

		entries = append(entries, &entry.Entry{
			DelayMs: delayMs,
			Data:    splitTokens(source[m[4]:m[5]]),
			Line:    line,
		})
	}

	x.stats.numEntries.Set(uint64(len(entries)))

	if len(entries) == 0 {
		if x.rejectEmpty {
			return nil, errors.WithStack(ErrEmptyTable)
		}
		logger.Warn("extract: no delay entries found in source")
	}

	return table.New(entries...), nil
}

// splitTokens keeps each comma separated byte literal exactly as written, minus surrounding space.
func splitTokens(list string) []string {
	parts := strings.Split(list, ",")
	ret := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ret = append(ret, p)
	}
	return ret
}

// lineCounter maps byte offsets to 1-based line numbers. Offsets must not decrease between calls,
// so each byte of the source is scanned at most once.
type lineCounter struct {
	offset int
	line   int
}

func (l *lineCounter) at(source string, offset int) int {
	if l.line == 0 {
		l.line = 1
	}
	l.line += strings.Count(source[l.offset:offset], "\n")
	l.offset = offset
	return l.line
}
