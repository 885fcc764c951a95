package util

import (
	"strings"
	"testing"
)

func TestGenerateDigitalID(t *testing.T) {
	t.Parallel()

	id, err := GenerateDigitalID()
	if err != nil {
		t.Fatalf("GenerateDigitalID() returned error: %v", err)
	}

	if !IsValidDigitalID(id) {
		t.Fatalf("GenerateDigitalID() = %q, not a valid digital ID", id)
	}

	if strings.ContainsAny(id, "ILOU") {
		t.Fatalf("GenerateDigitalID() = %q, contains ambiguous characters", id)
	}
}

func TestGenerateDigitalID_NoImmediateCollision(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		id, err := GenerateDigitalID()
		if err != nil {
			t.Fatalf("GenerateDigitalID() returned error: %v", err)
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("GenerateDigitalID() repeated %q within 1000 draws", id)
		}
		seen[id] = struct{}{}
	}
}

func TestNormalizeDigitalID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercase input", input: "ab3d-ef4h-jk5m", expected: "AB3D-EF4H-JK5M"},
		{name: "confusable letters", input: "ABIO-LUCD-EFGH", expected: "AB10-1VCD-EFGH"},
		{name: "surrounding whitespace", input: "  AB3D-EF4H-JK5M ", expected: "AB3D-EF4H-JK5M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeDigitalID(tt.input); got != tt.expected {
				t.Fatalf("NormalizeDigitalID(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsValidDigitalID(t *testing.T) {
	t.Parallel()

	valid := []string{"AB3D-EF4H-JK5M", "0000-0000-0000", "ZZZZ-9999-AAAA"}
	for _, id := range valid {
		if !IsValidDigitalID(id) {
			t.Fatalf("IsValidDigitalID(%q) = false, want true", id)
		}
	}

	invalid := []string{
		"",
		"AB3D-EF4H",          // too few groups
		"AB3DEF4HJK5M",       // missing hyphens
		"AB3D-EF4H-JK5",      // short group
		"ab3d-ef4h-jk5m",     // lowercase not canonical
		"ABID-EF4H-JK5M",     // ambiguous letter
		"AB3D-EF4H-JK5M-XX",  // too many groups
	}
	for _, id := range invalid {
		if IsValidDigitalID(id) {
			t.Fatalf("IsValidDigitalID(%q) = true, want false", id)
		}
	}
}
