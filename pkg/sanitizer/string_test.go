package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"leading and trailing", "  great tour  ", "great tour"},
		{"internal runs collapsed", "great   tour\t\tguide", "great tour guide"},
		{"already clean", "great tour", "great tour"},
		{"newlines collapsed", "line one\nline two", "line one line two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizePromoCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"summer20", "SUMMER20"},
		{"  Summer20 ", "SUMMER20"},
		{"BDAY-2024", "BDAY-2024"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizePromoCode(tt.input); got != tt.expected {
			t.Errorf("NormalizePromoCode(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
