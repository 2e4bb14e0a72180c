package tui

import "github.com/mattn/go-runewidth"

// truncate fits s into maxWidth terminal cells, marking a cut with "…".
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// padRight truncates or pads s to exactly width cells.
func padRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(truncate(s, width), width)
}
