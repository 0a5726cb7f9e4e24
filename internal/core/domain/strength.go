package domain

import "unicode"

// Strength is a coarse, cosmetic rating of a password. It is not a policy rule.
type Strength string

// Strength ratings.
const (
	StrengthWeak     Strength = "Weak"
	StrengthModerate Strength = "Moderate"
	StrengthStrong   Strength = "Strong"
)

// String returns the rating label.
func (s Strength) String() string {
	return string(s)
}

// PasswordStrength scores a password: one point each for length >= 8,
// length >= 12, a letter, a digit, a non-alphanumeric character, and an
// upper-case first or last character.
func PasswordStrength(password string) Strength {
	score := 0
	if len(password) >= 8 {
		score++
	}
	if len(password) >= 12 {
		score++
	}

	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			hasSpecial = true
		}
	}
	if hasLetter {
		score++
	}
	if hasDigit {
		score++
	}
	if hasSpecial {
		score++
	}

	if password != "" {
		runes := []rune(password)
		if unicode.IsUpper(runes[0]) || unicode.IsUpper(runes[len(runes)-1]) {
			score++
		}
	}

	switch {
	case score <= 2:
		return StrengthWeak
	case score <= 4:
		return StrengthModerate
	default:
		return StrengthStrong
	}
}
