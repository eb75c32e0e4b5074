package align

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultTabWidth is used when Options.TabWidth is not positive.
const DefaultTabWidth = 4

// displayWidth measures s in terminal cells, starting at column 0.
// Tabs advance to the next multiple of tabWidth.
func displayWidth(s string, tabWidth int) int {
	if !strings.Contains(s, "\t") {
		return runewidth.StringWidth(s)
	}
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	col := 0
	for {
		i := strings.IndexByte(s, '\t')
		if i < 0 {
			return col + runewidth.StringWidth(s)
		}
		col += runewidth.StringWidth(s[:i])
		col += tabWidth - col%tabWidth
		s = s[i+1:]
	}
}
