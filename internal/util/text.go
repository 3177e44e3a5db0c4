package util

import "strings"

func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

// CanonicalName normalizes a variable name for merging: upper-cased with
// collapsed internal whitespace. Two mentions of the same variable across
// documents map to the same canonical form.
func CanonicalName(value string) string {
	fields := strings.Fields(value)
	return strings.ToUpper(strings.Join(fields, " "))
}

// MeaningfulChars counts the non-whitespace runes in value. Used to decide
// whether an extraction produced enough text to be worth indexing.
func MeaningfulChars(value string) int {
	count := 0
	for _, r := range value {
		if !strings.ContainsRune(" \t\r\n\f\v", r) {
			count++
		}
	}
	return count
}
