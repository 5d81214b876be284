package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code, err := newBookingCode()
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(code, codePrefix))
		assert.Len(t, code, len(codePrefix)+codeLength)
		for _, r := range code[len(codePrefix):] {
			assert.Contains(t, codeAlphabet, string(r), "code %q uses a character outside the alphabet", code)
		}
		seen[code] = struct{}{}
	}
	// 100 draws from a 31^8 space colliding would point at a broken generator.
	assert.Len(t, seen, 100)
}

func TestCodeAlphabetOmitsAmbiguousCharacters(t *testing.T) {
	for _, c := range "0O1IL" {
		assert.NotContains(t, codeAlphabet, string(c))
	}
}
