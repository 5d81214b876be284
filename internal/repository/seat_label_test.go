package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSeatLabel(t *testing.T) {
	cases := []struct {
		in   string
		row  string
		num  uint32
		ok   bool
	}{
		{"A1", "A", 1, true},
		{"a1", "A", 1, true},
		{" F10 ", "F", 10, true},
		{"AA12", "AA", 12, true},
		{"A0", "", 0, false},
		{"A", "", 0, false},
		{"1A", "", 0, false},
		{"", "", 0, false},
		{"AAA1", "", 0, false},
		{"A-1", "", 0, false},
		{"A1B", "", 0, false},
	}
	for _, tc := range cases {
		row, num, ok := SplitSeatLabel(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.row, row, "input %q", tc.in)
		assert.Equal(t, tc.num, num, "input %q", tc.in)
	}
}

func TestNormalizeSeatLabels(t *testing.T) {
	valid, invalid := NormalizeSeatLabels([]string{" a1 ", "A1", "b3", "1X", "", "C10"})

	assert.Equal(t, []string{"A1", "B3", "C10"}, valid, "dedup and preserve first-seen order")
	assert.Equal(t, []string{"1X"}, invalid)
}

func TestNormalizeSeatLabels_AllEmpty(t *testing.T) {
	valid, invalid := NormalizeSeatLabels([]string{"", "  "})
	assert.Empty(t, valid)
	assert.Empty(t, invalid, "blank entries are dropped, not reported")
}

func TestRowLabelFor(t *testing.T) {
	assert.Equal(t, "A", RowLabelFor(0))
	assert.Equal(t, "F", RowLabelFor(5))
	assert.Equal(t, "Z", RowLabelFor(25))
	assert.Equal(t, "AA", RowLabelFor(26))
	assert.Equal(t, "AB", RowLabelFor(27))
}
