package subtitle

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// index line, timing line, then every non-blank line up to a blank line or EOF
var srtCueRegex = regexp.MustCompile(
	`(?m)^(\d+)[ \t]*\n` +
		`(\d{2}):(\d{2}):(\d{2}),(\d{3})[ \t]*-->[ \t]*(\d{2}):(\d{2}):(\d{2}),(\d{3})[^\n]*\n` +
		`((?:[^\n]*\S[^\n]*\n)*)`,
)

// Parse turns SubRip content into records in file order. Blocks that do not
// look like a cue are skipped.
func Parse(text string) []Record {
	content := normalize(text)
	if content == "" {
		return []Record{}
	}
	// every block, including the last one, ends with a newline
	content += "\n"

	matches := srtCueRegex.FindAllStringSubmatch(content, -1)
	records := make([]Record, 0, len(matches))
	for _, m := range matches {
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		start := clockToDuration(m[2], m[3], m[4], m[5])
		end := clockToDuration(m[6], m[7], m[8], m[9])
		records = append(records, newRecord(index, start, end, strings.TrimSpace(m[10])))
	}
	return records
}

// reads and parses a SubRip file
func ParseFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read SRT file: %w", err)
	}
	return Parse(string(data)), nil
}

func normalize(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimRightFunc(text, unicode.IsSpace)
}

// digits are guaranteed by the cue regex
func clockToDuration(hours, minutes, seconds, millis string) time.Duration {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	ms, _ := strconv.Atoi(millis)

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond
}

// renders HH:MM:SS,mmm
func FormatSRTTimestamp(d time.Duration) string {
	return formatClock(d, ',')
}

func formatClock(d time.Duration, sep byte) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, sep, millis)
}
