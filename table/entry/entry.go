package entry

// An individual table row. Data holds each byte exactly as it was spelled in the source.
type Entry struct {
	DelayMs uint64
	Data    []string
	Line    int
}

func New(delayMs uint64, data ...string) *Entry {
	return &Entry{
		DelayMs: delayMs,
		Data:    data,
	}
}
