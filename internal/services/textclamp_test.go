package services

import (
	"strings"
	"testing"
)

func TestClampRunes(t *testing.T) {
	if got := ClampRunes("héllo", 2); got != "hé" {
		t.Fatalf("got %q", got)
	}
	if got := ClampRunes("abc", 0); got != "abc" {
		t.Fatalf("max 0 disables the clamp, got %q", got)
	}
}

func TestClampParagraphs(t *testing.T) {
	text := "alpha\n\nbravo\n\ncharlie"
	if got := ClampParagraphs(text, 100); got != text {
		t.Fatalf("short text changed: %q", got)
	}
	if got := ClampParagraphs(text, 12); got != "alpha\n\nbravo" {
		t.Fatalf("got %q", got)
	}
	long := strings.Repeat("x", 30)
	if got := ClampParagraphs(long+"\n\nrest", 10); got != strings.Repeat("x", 10) {
		t.Fatalf("hard cut expected, got %q", got)
	}
}

func TestCleanText(t *testing.T) {
	in := "\n\n  Jane   Doe \n\n\n\n Engineer\t\tat ACME\r\n\n"
	if got := CleanText(in); got != "Jane Doe\n\nEngineer at ACME" {
		t.Fatalf("got %q", got)
	}
}
