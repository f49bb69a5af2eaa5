package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// writes the records to an SRT file
func (w *SRTWriter) Write(records []Record, path string) error {
	var sb strings.Builder
	for i, rec := range records {
		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatSRTTimestamp(rec.Start),
			FormatSRTTimestamp(rec.End)))

		sb.WriteString(rec.Text)
		sb.WriteString("\n\n")
	}

	return writeFile(path, sb.String())
}

// writes the records to a VTT file
func (w *VTTWriter) Write(records []Record, path string) error {
	var sb strings.Builder

	sb.WriteString("WEBVTT\n\n")

	for i, rec := range records {
		// optional cue identifier
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatVTTTimestamp(rec.Start),
			FormatVTTTimestamp(rec.End)))

		sb.WriteString(rec.Text)
		sb.WriteString("\n\n")
	}

	return writeFile(path, sb.String())
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
