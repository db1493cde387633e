package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	stats "github.com/lyft/gostats"
	"github.com/lyft/gostats/mock"
	"github.com/lyft/sysexconv/extract"
	"github.com/lyft/sysexconv/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFileInDir(assert *require.Assertions, path string, text string) {
	err := os.MkdirAll(filepath.Dir(path), os.ModeDir|os.ModePerm)
	assert.NoError(err)

	err = os.WriteFile(path, []byte(text), 0644)
	assert.NoError(err)
}

func newConverter(store stats.Store, in, out string, opts ...extract.Option) *Converter {
	return New(in, out, extract.New(store, opts...), render.New(store), store)
}

func TestConverter_Run(t *testing.T) {
	assert := require.New(t)

	sink := mock.NewSink()
	store := stats.NewStore(sink, false)

	dir := t.TempDir()
	in := filepath.Join(dir, "Chocotone", "delay_time_sysex.h")
	out := filepath.Join(dir, "delay_sysex.js")
	makeFileInDir(assert, in, `
const DelayTimeSysex DELAY_TIME_SYSEX[] = {
    {20, {0xF0,0x08,0x01,0xF7}},
    {1000, {0xF0,0x08,
            0x02,0xF7}},
};
`)

	tbl, err := newConverter(store, in, out).Run()
	assert.NoError(err)
	assert.Equal([]uint64{20, 1000}, tbl.Delays())

	contents, err := os.ReadFile(out)
	assert.NoError(err)
	doc := string(contents)
	first := strings.Index(doc, "    { ms: 20, data: [0xF0, 0x08, 0x01, 0xF7] },\n")
	second := strings.Index(doc, "    { ms: 1000, data: [0xF0, 0x08, 0x02, 0xF7] },\n")
	assert.True(first > 0)
	assert.True(second > first)
	assert.Equal(2, strings.Count(doc, "{ ms: "))

	store.Flush()
	sink.AssertCounterEquals(t, "convert.runs", 1)
	sink.AssertGaugeEquals(t, "convert.num_entries", 2)
}

func TestConverter_SourceUnreadable(t *testing.T) {
	sink := mock.NewSink()
	store := stats.NewStore(sink, false)

	dir := t.TempDir()
	out := filepath.Join(dir, "delay_sysex.js")

	tbl, err := newConverter(store, filepath.Join(dir, "nope.h"), out).Run()
	assert.Nil(t, tbl)
	assert.ErrorIs(t, err, ErrSourceUnreadable)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))

	store.Flush()
	sink.AssertCounterEquals(t, "convert.failures", 1)
}

func TestConverter_MalformedKeepsPreviousOutput(t *testing.T) {
	assert := require.New(t)
	store := stats.NewStore(stats.NewNullSink(), false)

	dir := t.TempDir()
	in := filepath.Join(dir, "delay_time_sysex.h")
	out := filepath.Join(dir, "delay_sysex.js")
	makeFileInDir(assert, in, "{20, {0xF0}}\n{-30, {0xF0}}\n")
	makeFileInDir(assert, out, "previous")

	tbl, err := newConverter(store, in, out).Run()
	assert.Nil(tbl)
	assert.ErrorIs(err, extract.ErrMalformedEntry)
	assert.Contains(err.Error(), in)

	contents, err := os.ReadFile(out)
	assert.NoError(err)
	assert.Equal("previous", string(contents))
}

func TestConverter_Empty(t *testing.T) {
	assert := require.New(t)
	store := stats.NewStore(stats.NewNullSink(), false)

	dir := t.TempDir()
	in := filepath.Join(dir, "delay_time_sysex.h")
	out := filepath.Join(dir, "delay_sysex.js")
	makeFileInDir(assert, in, "// table moved elsewhere\n")

	tbl, err := newConverter(store, in, out).Run()
	assert.NoError(err)
	assert.Equal(0, tbl.Len())

	contents, err := os.ReadFile(out)
	assert.NoError(err)
	assert.Contains(string(contents), "const DELAY_TIME_LOOKUP = [\n];\n")

	_, err = newConverter(store, in, filepath.Join(dir, "strict.js"), extract.RejectEmpty).Run()
	assert.ErrorIs(err, extract.ErrEmptyTable)
	_, err = os.Stat(filepath.Join(dir, "strict.js"))
	assert.True(os.IsNotExist(err))
}

func TestConverter_OutputUnwritable(t *testing.T) {
	assert := require.New(t)
	store := stats.NewStore(stats.NewNullSink(), false)

	dir := t.TempDir()
	in := filepath.Join(dir, "delay_time_sysex.h")
	makeFileInDir(assert, in, "{20, {0xF0}}")

	_, err := newConverter(store, in, filepath.Join(dir, "no", "such", "dir.js")).Run()
	assert.ErrorIs(err, render.ErrOutputUnwritable)
}

func TestConverter_KeyFromParsedValue(t *testing.T) {
	assert := require.New(t)
	store := stats.NewStore(stats.NewNullSink(), false)

	dir := t.TempDir()
	in := filepath.Join(dir, "delay_time_sysex.h")
	out := filepath.Join(dir, "delay_sysex.js")
	makeFileInDir(assert, in, "{020, {0x00F0, 0x08}}")

	_, err := newConverter(store, in, out).Run()
	assert.NoError(err)

	contents, err := os.ReadFile(out)
	assert.NoError(err)
	assert.Contains(string(contents), "    { ms: 20, data: [0x00F0, 0x08] },\n")
}
