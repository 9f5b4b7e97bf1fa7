// Package joincode generates the short tokens used to join a group.
package joincode

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Length is the number of characters in a join code.
const Length = 6

// alphabet omits characters that are easy to confuse when read aloud or
// typed from a screenshot (0/O, 1/I/L).
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// New returns a random uppercase join code.
func New() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	code := make([]byte, Length)
	for i, b := range buf {
		code[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(code), nil
}

// Normalize trims and upper-cases user input so codes match case-insensitively.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code has the shape of a join code.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(alphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
