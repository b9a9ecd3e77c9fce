// internal/screenplay/textutil.go
package screenplay

import (
	"strings"
	"unicode"
)

// collapseSpaces trims a string and folds internal whitespace runs into
// single spaces.
func collapseSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// upperKey normalizes a name for case-insensitive keying: trim, collapse
// whitespace, uppercase.
func upperKey(s string) string {
	return strings.ToUpper(collapseSpaces(s))
}

// hasVowel reports whether the string carries at least one vowel, accented
// vowels included. Names without any vowel are almost never real names.
func hasVowel(s string) bool {
	return strings.ContainsAny(strings.ToLower(s), "aeiouáéíóúàèìòùâêîôûäëïöü")
}

// isUpperCueShaped reports whether a line looks like a character cue:
// uppercase letters, spaces, and light punctuation only. Digits are allowed
// for names like "ROBOT 2" but an all-digit token is not cue shaped.
func isUpperCueShaped(s string) bool {
	hasLetter := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasLetter = true
		case unicode.IsDigit(r):
		case r == ' ' || r == '.' || r == '\'' || r == '’' || r == '-' || r == '&' || r == '#':
		case unicode.IsLetter(r):
			// Any lowercase letter disqualifies the line.
			return false
		default:
			return false
		}
	}
	return hasLetter
}

// isAllCapsLine reports whether every letter in the line is uppercase.
func isAllCapsLine(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// countWords counts whitespace-separated tokens.
func countWords(s string) int {
	return len(strings.Fields(s))
}

// nonEmptyLines splits text into trimmed, non-empty lines.
func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(strings.TrimSuffix(line, "\r"), " \t")
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// NormalizeTitleKey reduces a title to its matching form: a trailing -YYYY
// year suffix is dropped, non-word characters removed, the rest lowercased.
// Two titles refer to the same script when their keys are equal.
func NormalizeTitleKey(title string) string {
	s := strings.TrimSpace(title)
	if len(s) >= 5 && s[len(s)-5] == '-' {
		allDigits := true
		for _, r := range s[len(s)-4:] {
			if r < '0' || r > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			s = s[:len(s)-5]
		}
	}

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			// Separators and punctuation all act as word breaks, so
			// hyphenated and spaced forms produce the same key.
			b.WriteRune(' ')
		}
	}
	return collapseSpaces(b.String())
}
