package message

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestValidateLongRunIsTruncated(t *testing.T) {
	got := Validate(strings.Repeat("a", 1000))
	if n := utf8.RuneCountInString(got); n != MaxCharactersPerLine*MaxLines {
		t.Errorf("length = %d, want %d", n, MaxCharactersPerLine*MaxLines)
	}
	if strings.Contains(got, "\n\n") {
		t.Error("output contains a newline run")
	}
}

func TestValidateStripsEmoji(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello 😀 world", "Hello  world"},
		{"Family 👨‍👩‍👧 trip", "Family  trip"},
		{"Flags 🇬🇧🇫🇷!", "Flags !"},
		{"Thumbs 👍🏽", "Thumbs "},
		{"Keycap 1️⃣ done", "Keycap  done"},
		{"Love ❤️", "Love "},
		{"Café déjà vu", "Café déjà vu"},
		{"Numbers 123 stay", "Numbers 123 stay"},
	}
	for _, tt := range tests {
		if got := Validate(tt.in); got != tt.want {
			t.Errorf("Validate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateStripsReplacementCharacters(t *testing.T) {
	got := Validate("bad \uFFFD byte and ï¿½ mojibake")
	if want := "bad  byte and  mojibake"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestValidateCollapsesLineBreaks(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a\n\nb", "a\nb"},
		{"a\n\n\n\nb", "a\nb"},
		{"a\r\n\r\nb", "a\nb"},
		{"a\r\r\nb", "a\nb"},
		{"a\nb\nc", "a\nb\nc"},
		{"a\n😀\nb", "a\nb"},
	}
	for _, tt := range tests {
		if got := Validate(tt.in); got != tt.want {
			t.Errorf("Validate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateNewlinesCountAsLines(t *testing.T) {
	in := strings.Repeat("x\n", 20)
	got := Validate(in)
	if TotalLines(got) > MaxLines {
		t.Errorf("TotalLines(%q) = %v, over budget", got, TotalLines(got))
	}
	if !strings.HasPrefix(in, got) {
		t.Errorf("truncation must only drop trailing characters, got %q", got)
	}
}

func TestValidateIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"short",
		strings.Repeat("a", 1000),
		strings.Repeat("word 🎉\n\n", 60),
		strings.Repeat("ü", 300) + "\n\n\n" + strings.Repeat("ß", 10),
		"\r\n\r\n\r\n",
		strings.Repeat("\n", 40),
	}
	for _, in := range inputs {
		once := Validate(in)
		twice := Validate(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\n once  %q\n twice %q", in, once, twice)
		}
		if TotalLines(once) > MaxLines {
			t.Errorf("TotalLines(%q) = %v, want <= %d", once, TotalLines(once), MaxLines)
		}
	}
}

func TestTotalLines(t *testing.T) {
	if got := TotalLines(strings.Repeat("a", 36)); got != 2 {
		t.Errorf("TotalLines(36 chars) = %v, want 2", got)
	}
	if got := TotalLines("ab\ncd"); got != 4.0/18+1 {
		t.Errorf("TotalLines = %v", got)
	}
}
