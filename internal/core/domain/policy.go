package domain

import (
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the minimum number of characters in a valid password.
const MinPasswordLength = 8

// SpecialCharacters is the set of characters that satisfy RuleSpecial.
const SpecialCharacters = "<>@!"

// PolicyRule identifies a single password composition rule.
type PolicyRule string

// Password composition rules. All are required.
const (
	RuleMinLength PolicyRule = "min_length"
	RuleLetter    PolicyRule = "letter"
	RuleDigit     PolicyRule = "digit"
	RuleSpecial   PolicyRule = "special"
)

// PolicyRules lists every rule in evaluation order.
func PolicyRules() []PolicyRule {
	return []PolicyRule{RuleMinLength, RuleLetter, RuleDigit, RuleSpecial}
}

// String returns the rule identifier.
func (r PolicyRule) String() string {
	return string(r)
}

// Description returns the user-facing requirement for the rule.
func (r PolicyRule) Description() string {
	switch r {
	case RuleMinLength:
		return "Password must contain at least 8 characters"
	case RuleLetter:
		return "Password must contain a letter"
	case RuleDigit:
		return "Password must contain a digit"
	case RuleSpecial:
		return "Password must contain one of these special characters: <, >, @, !"
	default:
		return unknownDescription
	}
}

// PolicyResult is the outcome of evaluating a candidate password.
type PolicyResult struct {
	// Failed holds the violated rules in evaluation order. Empty when valid.
	Failed []PolicyRule
}

// Valid returns true if no rule failed.
func (r PolicyResult) Valid() bool {
	return len(r.Failed) == 0
}

// Has returns true if rule is among the failed rules.
func (r PolicyResult) Has(rule PolicyRule) bool {
	for _, f := range r.Failed {
		if f == rule {
			return true
		}
	}
	return false
}

// Err returns a *PolicyViolation for an invalid result, or nil.
func (r PolicyResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &PolicyViolation{Rules: r.Failed}
}

// ValidatePassword evaluates candidate against every rule in a single pass.
// All violated rules are reported, never just the first.
func ValidatePassword(candidate string) PolicyResult {
	var hasLetter, hasDigit, hasSpecial bool
	for i := 0; i < len(candidate); i++ {
		c := candidate[i]
		switch {
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			hasLetter = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case strings.IndexByte(SpecialCharacters, c) >= 0:
			hasSpecial = true
		}
	}

	var result PolicyResult
	if utf8.RuneCountInString(candidate) < MinPasswordLength {
		result.Failed = append(result.Failed, RuleMinLength)
	}
	if !hasLetter {
		result.Failed = append(result.Failed, RuleLetter)
	}
	if !hasDigit {
		result.Failed = append(result.Failed, RuleDigit)
	}
	if !hasSpecial {
		result.Failed = append(result.Failed, RuleSpecial)
	}
	return result
}

// PolicyViolation is returned when a password fails composition rules.
type PolicyViolation struct {
	Rules []PolicyRule
}

// Error lists the failed rule identifiers.
func (e *PolicyViolation) Error() string {
	names := make([]string, len(e.Rules))
	for i, r := range e.Rules {
		names[i] = r.String()
	}
	return ErrPolicyViolation.Error() + ": " + strings.Join(names, ", ")
}

// Is makes errors.Is(err, ErrPolicyViolation) hold for any *PolicyViolation.
func (e *PolicyViolation) Is(target error) bool {
	return target == ErrPolicyViolation
}
