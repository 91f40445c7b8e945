package renderer

import (
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

// truncateToWidth caps s to width terminal cells, measuring display width
// rather than byte or rune count so wide runes don't overflow a cell,
// adapted from the teacher's table renderRow's end-truncation branch. A
// width <= 0 means no bound.
func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}
