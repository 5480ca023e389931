package services

import (
	"strings"
	"unicode/utf8"
)

// ClampRunes cuts s to at most max runes.
func ClampRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// ClampParagraphs keeps whole paragraphs (split on blank lines) while the
// total stays within max runes. When even the first paragraph is too long it
// falls back to a hard rune cut.
func ClampParagraphs(text string, max int) string {
	text = strings.TrimSpace(text)
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}

	var b strings.Builder
	size := 0
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		n := utf8.RuneCountInString(para)
		sep := 0
		if b.Len() > 0 {
			sep = 2
		}
		if size+sep+n > max {
			break
		}
		if sep > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(para)
		size += sep + n
	}

	if b.Len() == 0 {
		return ClampRunes(text, max)
	}
	return b.String()
}

// CleanText trims every line and drops blank runs, keeping single blank lines
// as paragraph breaks.
func CleanText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var cleaned []string
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if len(cleaned) > 0 && !blank {
				cleaned = append(cleaned, "")
			}
			blank = true
			continue
		}
		cleaned = append(cleaned, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
