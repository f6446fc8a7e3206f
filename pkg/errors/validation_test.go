package errors

import (
	"strings"
	"testing"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "Ada", false},
		{"unicode", "Zoë Łukasiewicz", false},
		{"apostrophe", "O'Brien", false},
		{"max length", strings.Repeat("a", MaxTextLength), false},
		{"too long", strings.Repeat("a", MaxTextLength+1), true},
		{"newline", "Ada\nLovelace", true},
		{"null byte", "Ada\x00", true},
		{"invalid utf8", "\xff\xfe", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText("first_name", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %q, want %q", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"", false},
		{"1815", false},
		{"1815-12", false},
		{"1815-12-10", false},
		{"1815-13", true},
		{"1815-12-32", true},
		{"12/10/1815", true},
		{"c. 1815", true},
		{"18150", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if err := ValidateDate("birth_date", tt.value); (err != nil) != tt.wantErr {
				t.Errorf("ValidateDate(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}
