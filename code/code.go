package code

import (
	"math/rand/v2"
	"strings"
)

var letters = strings.Split("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", "")

const Length = 6

// Generator produces candidate room codes. Uniqueness is checked by the caller.
type Generator func() string

func GenerateRandom() string {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		b.WriteString(letters[rand.IntN(len(letters))])
	}
	return b.String()
}

// Normalize turns user input into the canonical upper-case form of a code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func IsValid(code string) bool {
	if len(code) != Length {
		return false
	}
	for _, c := range code {
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
