package subtitle

import (
	"errors"
	"time"
)

var ErrUnsupportedFormat = errors.New("unsupported subtitle format")

// represents single subtitle cue
type Record struct {
	Index    int
	Start    time.Duration
	End      time.Duration
	Duration time.Duration
	Text     string
}

func newRecord(index int, start, end time.Duration, text string) Record {
	return Record{
		Index:    index,
		Start:    start,
		End:      end,
		Duration: end - start,
		Text:     text,
	}
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
)

// interface for writing subtitles to files
type Writer interface {
	Write(records []Record, path string) error
}
