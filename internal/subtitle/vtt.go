package subtitle

import (
	"bufio"
	"regexp"
	"strings"
	"time"
)

var (
	vttTimestampRegex = regexp.MustCompile(
		`^(\d{2,}):(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2,}):(\d{2}):(\d{2})\.(\d{3})`,
	)
	vttShortTimestampRegex = regexp.MustCompile(
		`^(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2}):(\d{2})\.(\d{3})`,
	)
)

// ParseVTT turns WebVTT content into records numbered 1..N in file order.
// Header, NOTE and STYLE blocks are skipped, as are cue settings.
func ParseVTT(text string) []Record {
	records := []Record{}
	scanner := bufio.NewScanner(strings.NewReader(normalize(text)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		current   *Record
		textLines []string
		inBlock   bool
	)

	flush := func() {
		if current != nil {
			records = append(records, newRecord(
				len(records)+1,
				current.Start,
				current.End,
				strings.TrimSpace(strings.Join(textLines, "\n")),
			))
		}
		current = nil
		textLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			inBlock = false
			continue
		}

		if current == nil && !inBlock &&
			(strings.HasPrefix(trimmed, "WEBVTT") ||
				strings.HasPrefix(trimmed, "NOTE") ||
				strings.HasPrefix(trimmed, "STYLE") ||
				strings.HasPrefix(trimmed, "REGION")) {
			inBlock = true
			continue
		}
		if inBlock {
			continue
		}

		if start, end, ok := parseVTTTiming(trimmed); ok {
			flush()
			current = &Record{Start: start, End: end}
			continue
		}

		if current != nil {
			textLines = append(textLines, line)
		}
	}
	flush()

	return records
}

func parseVTTTiming(line string) (time.Duration, time.Duration, bool) {
	if m := vttTimestampRegex.FindStringSubmatch(line); m != nil {
		return clockToDuration(m[1], m[2], m[3], m[4]),
			clockToDuration(m[5], m[6], m[7], m[8]),
			true
	}
	if m := vttShortTimestampRegex.FindStringSubmatch(line); m != nil {
		return clockToDuration("00", m[1], m[2], m[3]),
			clockToDuration("00", m[4], m[5], m[6]),
			true
	}
	return 0, 0, false
}

// renders HH:MM:SS.mmm
func FormatVTTTimestamp(d time.Duration) string {
	return formatClock(d, '.')
}
