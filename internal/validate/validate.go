// Package validate implements the French business-number checks used on
// client and company records: SIREN/SIRET (Luhn) and IBAN (mod-97).
package validate

import "strings"

// Siren reports whether s is a valid 9-digit SIREN number.
func Siren(s string) bool {
	return luhn(s, 9)
}

// Siret reports whether s is a valid 14-digit SIRET number.
func Siret(s string) bool {
	return luhn(s, 14)
}

func luhn(s string, length int) bool {
	if len(s) != length {
		return false
	}

	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}

	return sum%10 == 0
}

// IBAN reports whether s passes the ISO 13616 mod-97 check. Spaces are
// tolerated, case is not significant.
func IBAN(s string) bool {
	s = strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	if len(s) < 15 || len(s) > 34 {
		return false
	}

	// Move the country code and check digits to the end.
	rearranged := s[4:] + s[:4]

	remainder := 0
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		switch {
		case c >= '0' && c <= '9':
			remainder = (remainder*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			n := int(c-'A') + 10
			remainder = (remainder*100 + n) % 97
		default:
			return false
		}
	}

	return remainder == 1
}
