// Package taxid validates Brazilian national tax identifiers: the 11-digit
// CPF (individuals) and the 14-digit CNPJ (organizations). Both carry two
// trailing mod-11 check digits.
package taxid

import (
	"strings"

	"agro/pkg/apperr"
)

type Kind string

const (
	CPF  Kind = "CPF"
	CNPJ Kind = "CNPJ"
)

const (
	cpfLen  = 11
	cnpjLen = 14
)

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Validate normalizes raw to its digits and checks length and check digits.
// The returned string is the canonical stored form.
func Validate(raw string) (string, error) {
	digits := Normalize(raw)

	var w1, w2 []int
	switch len(digits) {
	case cpfLen:
		w1, w2 = descending(10, 9), descending(11, 10)
	case cnpjLen:
		w1, w2 = cnpjWeights1, cnpjWeights2
	default:
		return "", apperr.New(apperr.KindInvalidFormat, "tax_id",
			"must have 11 (CPF) or 14 (CNPJ) digits, got %d", len(digits))
	}

	if repeated(digits) {
		return "", apperr.New(apperr.KindInvalidChecksum, "tax_id", "repeated digits are not a valid %s", kindFor(len(digits)))
	}

	n := make([]int, len(digits))
	for i := range digits {
		n[i] = int(digits[i] - '0')
	}

	base := len(digits) - 2
	if checkDigit(n[:base], w1) != n[base] || checkDigit(n[:base+1], w2) != n[base+1] {
		return "", apperr.New(apperr.KindInvalidChecksum, "tax_id", "invalid %s check digits", kindFor(len(digits)))
	}
	return digits, nil
}

// Normalize strips every non-digit rune.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// KindOf reports whether a normalized id is a CPF or CNPJ by length.
func KindOf(normalized string) (Kind, bool) {
	switch len(normalized) {
	case cpfLen:
		return CPF, true
	case cnpjLen:
		return CNPJ, true
	}
	return "", false
}

// Format renders a normalized id with the usual punctuation
// (000.000.000-00 or 00.000.000/0000-00). Other inputs come back unchanged.
func Format(normalized string) string {
	d := normalized
	switch len(d) {
	case cpfLen:
		return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
	case cnpjLen:
		return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
	}
	return normalized
}

func checkDigit(digits, weights []int) int {
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

// descending returns n weights counting down from start.
func descending(start, n int) []int {
	w := make([]int, n)
	for i := range w {
		w[i] = start - i
	}
	return w
}

func repeated(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

func kindFor(n int) Kind {
	if n == cnpjLen {
		return CNPJ
	}
	return CPF
}
