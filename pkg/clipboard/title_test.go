package clipboard

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDeriveTitle(t *testing.T) {
	t.Run("Short text", func(t *testing.T) {
		if got := DeriveTitle("hello world"); got != "hello world" {
			t.Errorf("Expected passthrough, got %q", got)
		}
	})

	t.Run("Multiline takes first line", func(t *testing.T) {
		got := DeriveTitle("Meeting notes\nattendees: alice, bob\nagenda")
		if got != "Meeting notes" {
			t.Errorf("Expected first line, got %q", got)
		}
	})

	t.Run("URL kept whole", func(t *testing.T) {
		url := "https://example.com/some/long/path"
		if got := DeriveTitle(url); got != url {
			t.Errorf("Expected URL passthrough, got %q", got)
		}
	})

	t.Run("Truncation with ellipsis", func(t *testing.T) {
		long := strings.Repeat("a", 300)
		got := DeriveTitle(long)

		if !strings.HasSuffix(got, ellipsis) {
			t.Error("Expected ellipsis suffix")
		}
		if utf8.RuneCountInString(got) != MaxTitleLength+1 {
			t.Errorf("Expected %d runes, got %d", MaxTitleLength+1, utf8.RuneCountInString(got))
		}
	})

	t.Run("Rune-safe truncation", func(t *testing.T) {
		long := strings.Repeat("中", 300)
		got := DeriveTitle(long)

		if !utf8.ValidString(got) {
			t.Error("Truncation produced invalid UTF-8")
		}
		if utf8.RuneCountInString(got) != MaxTitleLength+1 {
			t.Errorf("Expected %d runes, got %d", MaxTitleLength+1, utf8.RuneCountInString(got))
		}
	})

	t.Run("Leading whitespace trimmed", func(t *testing.T) {
		if got := DeriveTitle("  \n  first line\nsecond"); got != "first line" {
			t.Errorf("Expected trimmed first line, got %q", got)
		}
	})
}
