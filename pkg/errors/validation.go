package errors

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// MaxTextLength bounds free-text member attributes and labels.
const MaxTextLength = 256

// ValidateText checks a free-text attribute such as a name part or a
// relationship label. Empty values are allowed.
//
// The rules are conservative:
//   - valid UTF-8
//   - no control characters (which also rules out null bytes)
//   - at most MaxTextLength characters
func ValidateText(field, value string) error {
	if !utf8.ValidString(value) {
		return New(ErrCodeInvalidInput, "%s is not valid UTF-8", field)
	}
	if n := utf8.RuneCountInString(value); n > MaxTextLength {
		return New(ErrCodeInvalidInput, "%s too long (%d characters, max %d)", field, n, MaxTextLength)
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains control characters", field)
		}
	}
	return nil
}

// dateRegex accepts a year, year-month or full ISO date.
var dateRegex = regexp.MustCompile(`^\d{4}(-(0[1-9]|1[0-2])(-(0[1-9]|[12]\d|3[01]))?)?$`)

// ValidateDate checks a birth or death date. Partial dates ("1901",
// "1901-04") are accepted since genealogical records are often
// incomplete. Empty values are allowed.
func ValidateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if !dateRegex.MatchString(value) {
		return New(ErrCodeInvalidInput, "%s %q is not a YYYY, YYYY-MM or YYYY-MM-DD date", field, value)
	}
	return nil
}
