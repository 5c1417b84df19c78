package language

import (
	"reflect"
	"testing"
)

func TestSupportedOrder(t *testing.T) {
	want := []string{"en", "es", "fr", "de", "pt", "ja", "ko", "zh", "ar"}
	if got := Supported(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Supported() = %v, want %v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"en-US", "en"},
		{"zh-Hans", "zh"},
		{"pt-BR", "pt"},
		{" ja ", "ja"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize(%q) error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "  ", "not a tag!"} {
		if _, err := Normalize(input); err == nil {
			t.Errorf("Normalize(%q) expected error", input)
		}
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("ar") || !IsSupported("de-AT") {
		t.Fatal("expected ar and de-AT to be supported")
	}
	if IsSupported("it") || IsSupported("") {
		t.Fatal("expected it and empty to be unsupported")
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("ko"); got != "Korean" {
		t.Errorf("DisplayName(ko) = %q", got)
	}
	if got := DisplayName("it"); got != "IT" {
		t.Errorf("DisplayName(it) = %q", got)
	}
	if got := DisplayName(""); got != "Unknown" {
		t.Errorf("DisplayName(\"\") = %q", got)
	}
	if got := DisplayName("es-MX"); got != "Spanish" {
		t.Errorf("DisplayName(es-MX) = %q", got)
	}
}

func TestNormalizeList(t *testing.T) {
	got, err := NormalizeList([]string{"en", "en-GB", "ES", "ja"})
	if err != nil {
		t.Fatalf("NormalizeList error: %v", err)
	}
	want := []string{"en", "es", "ja"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeList = %v, want %v", got, want)
	}
	if _, err := NormalizeList([]string{"en", "!!"}); err == nil {
		t.Fatal("expected error for unparseable entry")
	}
}
