package utils

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// TruncateToLines wraps text to maxWidth and keeps at most maxLines lines,
// ending the last kept line with an ellipsis when text was cut.
func TruncateToLines(text string, maxLines, maxWidth int) string {
	lines := WrapText(text, maxWidth)
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}

	kept := lines[:maxLines]
	last := kept[maxLines-1]
	if runewidth.StringWidth(last)+len(ellipsis) > maxWidth {
		last = runewidth.Truncate(last, maxWidth-len(ellipsis), "")
	}
	kept[maxLines-1] = last + ellipsis

	return strings.Join(kept, "\n")
}

// WrapText wraps text at word boundaries so no line is wider than maxWidth
// (single words wider than maxWidth get a line of their own)
func WrapText(text string, maxWidth int) []string {
	var lines []string
	var line strings.Builder
	width := 0

	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		switch {
		case width == 0:
			line.WriteString(word)
			width = w
		case width+1+w <= maxWidth:
			line.WriteByte(' ')
			line.WriteString(word)
			width += 1 + w
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
			width = w
		}
	}

	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// TruncateWithWidth cuts text to maxWidth display cells, including the ellipsis
func TruncateWithWidth(text string, maxWidth int) string {
	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}
	return runewidth.Truncate(text, maxWidth, ellipsis)
}

// FormatReleaseDate renders an ISO date as "Jan 2, 2006"; unparseable or
// empty input yields fallback
func FormatReleaseDate(date, fallback string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return fallback
	}
	return t.Format("Jan 2, 2006")
}
