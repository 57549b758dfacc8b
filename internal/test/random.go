package test

import (
	"math/rand/v2"
	"strings"
)

const (
	lowerLetters = "abcdefghijklmnopqrstuvwxyz"
	digits       = "0123456789"
)

// RandomEmail returns a lowercase address on example.com with a local part of 5 to 10 letters.
func RandomEmail() string {
	return randomFrom(lowerLetters, 5+rand.IntN(6)) + "@example.com"
}

// RandomCedula returns a numeric identity document number of 8 to 13 digits.
func RandomCedula() string {
	return randomFrom(digits, 8+rand.IntN(6))
}

func randomFrom(alphabet string, n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}
