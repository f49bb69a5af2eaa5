package subtitle

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrMissingFormatLine = errors.New("ASS file missing Format line in [Events] section")

var assTagRegex = regexp.MustCompile(`\{[^}]*\}`)

// column layout of the [Events] Format line
type assColumns struct {
	count int
	start int
	end   int
	text  int
}

// parses ASS/SSA dialogue lines into records, dropping override tags.
// Styles and other sections are ignored.
func ParseASS(text string) ([]Record, error) {
	scanner := bufio.NewScanner(strings.NewReader(normalize(text)))

	var (
		records  []Record
		columns  *assColumns
		inEvents bool
		lineNum  int
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineNum++

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section := strings.ToLower(strings.Trim(line, "[]"))
			inEvents = section == "events"
			continue
		}
		if !inEvents {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Format:"):
			cols, err := parseASSFormat(strings.TrimPrefix(line, "Format:"))
			if err != nil {
				return nil, err
			}
			columns = cols

		case strings.HasPrefix(line, "Dialogue:"):
			if columns == nil {
				return nil, ErrMissingFormatLine
			}
			fields := splitASSFields(
				strings.TrimSpace(strings.TrimPrefix(line, "Dialogue:")),
				columns.count,
			)
			if len(fields) < columns.count {
				return nil, fmt.Errorf(
					"failed to parse Dialogue at line %d: expected %d fields, got %d",
					lineNum,
					columns.count,
					len(fields),
				)
			}

			start, ok := parseASSTimestamp(fields[columns.start])
			if !ok {
				continue
			}
			end, ok := parseASSTimestamp(fields[columns.end])
			if !ok {
				continue
			}

			records = append(records,
				newRecord(len(records)+1, start, end, assText(fields[columns.text])))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASS file: %w", err)
	}
	return records, nil
}

func parseASSFormat(format string) (*assColumns, error) {
	cols := &assColumns{start: -1, end: -1, text: -1}

	names := strings.Split(format, ",")
	cols.count = len(names)
	for i, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "start":
			cols.start = i
		case "end":
			cols.end = i
		case "text":
			cols.text = i
		}
	}

	if cols.start == -1 || cols.end == -1 || cols.text == -1 {
		return nil, fmt.Errorf("ASS Format line needs Start, End and Text columns")
	}
	return cols, nil
}

// splits into at most numFields parts; the last one keeps its commas
func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}
	return strings.SplitN(content, ",", numFields)
}

func assText(raw string) string {
	text := assTagRegex.ReplaceAllString(raw, "")
	text = strings.ReplaceAll(text, `\N`, "\n")
	text = strings.ReplaceAll(text, `\n`, "\n")
	text = strings.ReplaceAll(text, `\h`, " ")
	return strings.TrimSpace(text)
}

// H:MM:SS.cc
func parseASSTimestamp(ts string) (time.Duration, bool) {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) != 3 {
		return 0, false
	}

	secParts := strings.Split(parts[2], ".")
	if len(secParts) != 2 {
		return 0, false
	}

	values := make([]int, 0, 4)
	for _, p := range []string{parts[0], parts[1], secParts[0], secParts[1]} {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, false
		}
		values = append(values, n)
	}

	return time.Duration(values[0])*time.Hour +
		time.Duration(values[1])*time.Minute +
		time.Duration(values[2])*time.Second +
		time.Duration(values[3])*10*time.Millisecond, true
}
