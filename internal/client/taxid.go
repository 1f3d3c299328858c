package client

import "strings"

// TaxIDDigits is the number of digits in a CNPJ.
const TaxIDDigits = 14

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatTaxID masks a partially typed identifier into 00.000.000/0000-00,
// inserting each separator once enough digits are present. Anything past the
// fourteenth digit is dropped.
func FormatTaxID(raw string) string {
	digits := Digits(raw)
	if len(digits) > TaxIDDigits {
		digits = digits[:TaxIDDigits]
	}

	var b strings.Builder
	for i := 0; i < len(digits); i++ {
		switch i {
		case 2, 5:
			b.WriteByte('.')
		case 8:
			b.WriteByte('/')
		case 12:
			b.WriteByte('-')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

// DisplayTaxID renders a stored identifier. Complete identifiers are shown in
// canonical form; anything else is shown as stored.
func DisplayTaxID(stored string) string {
	if len(Digits(stored)) != TaxIDDigits {
		return stored
	}
	return FormatTaxID(stored)
}
