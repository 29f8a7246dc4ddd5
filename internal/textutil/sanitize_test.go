package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean name", "Nova", "Nova"},
		{"slash becomes dash", "AC/DC Live", "AC-DC Live"},
		{"colon becomes dash", "Frontline: The Choice", "Frontline- The Choice"},
		{"question mark removed", "Who Shot Mr. Burns?", "Who Shot Mr. Burns"},
		{"angle brackets removed", "<pilot>", "pilot"},
		{"trims whitespace", "  Nature  ", "Nature"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		repl  string
		want  string
	}{
		{"keeps slashes", "Nova/Nova - The Planets", "-", "Nova/Nova - The Planets"},
		{"replaces control characters", "Nova\tPlanets", "_", "Nova_Planets"},
		{"replaces newline", "Nova\nPlanets", "-", "Nova-Planets"},
		{"empty replacement drops", "Nova\x01Planets", "", "NovaPlanets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizePath(tt.input, tt.repl); got != tt.want {
				t.Errorf("SanitizePath(%q, %q) = %q, want %q", tt.input, tt.repl, got, tt.want)
			}
		})
	}
}

func TestFoldASCII(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain ascii untouched", "The Planets", "The Planets"},
		{"accents folded", "Café Münchner Molière", "Cafe Munchner Moliere"},
		{"unfoldable runes dropped", "Nova 映画", "Nova "},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FoldASCII(tt.input); got != tt.want {
				t.Errorf("FoldASCII(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Nova", "nova"},
		{"keeps digits and separators", "1021_20260815", "1021_20260815"},
		{"replaces spaces", "two words", "two_words"},
		{"trims separator runs", "--edge--", "edge"},
		{"empty falls back", "", "unknown"},
		{"all invalid falls back", "!!!", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeToken(tt.input); got != tt.want {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
