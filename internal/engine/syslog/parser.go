package syslog

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/mccannj9/SyslogAnalyzer/internal/model"
)

// linePattern recognizes the narrow RFC3164 shape this system ingests:
// <PRI>MMM DD HH:MM:SS HOST MESSAGE. Single-digit days may carry a doubled
// leading space, hence \s{1,2} after the month name.
var linePattern = regexp.MustCompile(`^<([0-9]+)>([A-Z][a-z]{2}\s{1,2}[0-9]{1,2} [0-9]{2}:[0-9]{2}:[0-9]{2}) (\S+) (.*)$`)

// timeLayout parses the BSD-style timestamp. The underscore absorbs the
// padding space before single-digit days; the missing year lands every
// timestamp in year zero, which is what the sentinel comparisons in
// model.Stats expect.
const timeLayout = "Jan _2 15:04:05"

// ParseLine turns one raw syslog line into a LogRecord.
// A line that does not match the grammar, or whose timestamp names an
// invalid calendar date, yields an error carrying the offending line.
// Callers skip such lines; a malformed line never aborts the stream.
func ParseLine(line string) (*model.LogRecord, error) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("line does not match RFC3164 pattern: %q", line)
	}

	pri, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("invalid priority %q in line %q: %w", m[1], line, err)
	}

	ts, err := time.Parse(timeLayout, m[2])
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q in line %q: %w", m[2], line, err)
	}

	return &model.LogRecord{
		Host:      m[3],
		Timestamp: ts,
		// Severity lives in the low 3 bits of the priority: 0=Emergency,
		// 1=Alert. Out-of-range priorities are not rejected, only masked.
		Emergency: pri&0x7 < 2,
		Length:    len(m[4]),
	}, nil
}
