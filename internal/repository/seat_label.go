package repository

import (
	"strconv"
	"strings"
)

// SplitSeatLabel parses a customer-facing seat label like "A1" or "AA12" into
// its row letters and seat number. It returns ok=false for anything that does
// not match one or two ASCII letters followed by a positive number.
func SplitSeatLabel(label string) (rowLabel string, seatNumber uint32, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(label))
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == 0 || i > 2 || i == len(s) {
		return "", 0, false
	}
	n, err := strconv.ParseUint(s[i:], 10, 32)
	if err != nil || n == 0 {
		return "", 0, false
	}
	return s[:i], uint32(n), true
}

// NormalizeSeatLabels trims, upper-cases and deduplicates a list of seat
// labels, preserving first-seen order. Labels that fail to parse are returned
// separately so callers can report them.
func NormalizeSeatLabels(labels []string) (valid []string, invalid []string) {
	seen := make(map[string]struct{}, len(labels))
	for _, raw := range labels {
		row, num, ok := SplitSeatLabel(raw)
		if !ok {
			if strings.TrimSpace(raw) != "" {
				invalid = append(invalid, raw)
			}
			continue
		}
		label := row + strconv.FormatUint(uint64(num), 10)
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		valid = append(valid, label)
	}
	return valid, invalid
}
