// Package message fits a free-text card message into the space available on
// the back of a card.
package message

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

const (
	// MaxCharactersPerLine is the estimated number of characters that fit on one line.
	MaxCharactersPerLine = 18
	// MaxLines is the estimated number of lines that fit on the card.
	MaxLines = 14
)

// mojibake is U+FFFD after a UTF-8 round trip through Latin-1.
const mojibake = "ï¿½"

var lineBreakRun = regexp.MustCompile(`(\r\n|\r|\n){2,}`)

// Validate strips emoji and replacement characters, folds repeated line
// breaks into one and trims trailing characters until the message fits within
// MaxLines. Validate is idempotent.
func Validate(text string) string {
	text = strings.ReplaceAll(text, mojibake, "")
	text = stripEmoji(text)
	text = strings.Map(func(r rune) rune {
		if r == unicode.ReplacementChar {
			return -1
		}
		return r
	}, text)
	text = lineBreakRun.ReplaceAllString(text, "\n")
	return truncate(text)
}

// TotalLines estimates how many printed lines text occupies: every
// MaxCharactersPerLine characters wrap once and every newline starts a line.
func TotalLines(text string) float64 {
	var chars, newlines int
	for _, r := range text {
		if r == '\n' {
			newlines++
		} else {
			chars++
		}
	}
	return lines(chars, newlines)
}

func lines(chars, newlines int) float64 {
	return float64(chars)/MaxCharactersPerLine + float64(newlines)
}

// truncate drops one trailing rune at a time until the text fits.
func truncate(text string) string {
	runes := []rune(text)
	var chars, newlines int
	for _, r := range runes {
		if r == '\n' {
			newlines++
		} else {
			chars++
		}
	}
	n := len(runes)
	for n > 0 && lines(chars, newlines) > MaxLines {
		n--
		if runes[n] == '\n' {
			newlines--
		} else {
			chars--
		}
	}
	if n == len(runes) {
		return text
	}
	return string(runes[:n])
}

func stripEmoji(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	state := -1
	rest := text
	var cluster string
	for len(rest) > 0 {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if isEmoji(cluster) {
			continue
		}
		b.WriteString(cluster)
	}
	return b.String()
}

// isEmoji reports whether a grapheme cluster renders as an emoji: it contains a
// pictographic code point, a regional indicator, an emoji presentation
// selector or a keycap.
func isEmoji(cluster string) bool {
	for _, r := range cluster {
		switch {
		case r == 0xFE0F, r == 0x20E3:
			return true
		case unicode.Is(pictographic, r):
			return true
		}
	}
	return false
}

// pictographic approximates the Extended_Pictographic property together with
// emoji modifiers, regional indicators and tag characters.
var pictographic = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x203C, Hi: 0x203C, Stride: 1},
		{Lo: 0x2049, Hi: 0x2049, Stride: 1},
		{Lo: 0x231A, Hi: 0x231B, Stride: 1},
		{Lo: 0x2328, Hi: 0x2328, Stride: 1},
		{Lo: 0x23CF, Hi: 0x23CF, Stride: 1},
		{Lo: 0x23E9, Hi: 0x23F3, Stride: 1},
		{Lo: 0x23F8, Hi: 0x23FA, Stride: 1},
		{Lo: 0x24C2, Hi: 0x24C2, Stride: 1},
		{Lo: 0x25AA, Hi: 0x25AB, Stride: 1},
		{Lo: 0x25B6, Hi: 0x25B6, Stride: 1},
		{Lo: 0x25C0, Hi: 0x25C0, Stride: 1},
		{Lo: 0x25FB, Hi: 0x25FE, Stride: 1},
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1},
		{Lo: 0x2934, Hi: 0x2935, Stride: 1},
		{Lo: 0x2B05, Hi: 0x2B07, Stride: 1},
		{Lo: 0x2B1B, Hi: 0x2B1C, Stride: 1},
		{Lo: 0x2B50, Hi: 0x2B50, Stride: 1},
		{Lo: 0x2B55, Hi: 0x2B55, Stride: 1},
		{Lo: 0x3030, Hi: 0x3030, Stride: 1},
		{Lo: 0x303D, Hi: 0x303D, Stride: 1},
		{Lo: 0x3297, Hi: 0x3297, Stride: 1},
		{Lo: 0x3299, Hi: 0x3299, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F000, Hi: 0x1FAFF, Stride: 1},
		{Lo: 0xE0020, Hi: 0xE007F, Stride: 1},
	},
}
