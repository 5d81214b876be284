package service

import (
	"crypto/rand"
	"fmt"
)

// codeAlphabet deliberately omits 0/O/1/I/L so codes read unambiguously over
// the phone and at the box office.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	codePrefix = "BK-"
	codeLength = 8
)

// newBookingCode returns a code like "BK-7KQ2M9XA". Collisions are unlikely
// (31^8 combinations) but not assumed impossible: the ledger's unique
// constraint catches them and the booking transaction retries with a fresh
// code.
func newBookingCode() (string, error) {
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate booking code: %w", err)
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return codePrefix + string(b), nil
}
