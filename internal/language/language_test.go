package language

import (
	"errors"
	"sort"
	"testing"

	"recut/internal/services"
)

func TestISO6392(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "eng"},
		{"EN", "eng"},
		{" de ", "deu"},
		{"fr", "fra"},
		{"nl", "nld"},
		{"zh", "zho"},
		{"cs", "ces"},
		{"el", "ell"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ISO6392(tt.input)
			if err != nil {
				t.Fatalf("ISO6392(%q) returned error: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ISO6392(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestISO6392RejectsUnknownCodes(t *testing.T) {
	for _, code := range []string{"", "xx", "eng", "english", "q"} {
		t.Run(code, func(t *testing.T) {
			_, err := ISO6392(code)
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected configuration error for %q, got %v", code, err)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	if !Supported("ja") {
		t.Fatal("expected ja to be supported")
	}
	if Supported("xx") {
		t.Fatal("expected xx to be unsupported")
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		tag      string
		code     string
		expected bool
	}{
		{"eng", "en", true},
		{"ENG", "en", true},
		{"fra", "fr", true},
		{"fre", "fr", true},
		{"ger", "de", true},
		{"deu", "de", true},
		{"spa", "en", false},
		{"", "en", false},
		{"eng", "xx", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.tag, tt.code); got != tt.expected {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.tag, tt.code, got, tt.expected)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"eng", "English"},
		{"fre", "French"},
		{"fra", "French"},
		{"zho", "Chinese"},
		{"chi", "Chinese"},
		{"", "Unknown"},
		{"xyz", "XYZ"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCodes(t *testing.T) {
	codes := Codes()
	if len(codes) != len(languages) {
		t.Fatalf("expected %d codes, got %d", len(languages), len(codes))
	}
	if !sort.StringsAreSorted(codes) {
		t.Fatalf("codes are not sorted: %v", codes)
	}
}
