package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderShare renders the part of the board a column holds, like
// [███░░░░░]  3. An empty board renders an empty bar.
func RenderShare(count, total, width int) string {
	if width < 2 {
		width = 2
	}
	filled := 0
	if total > 0 {
		filled = min(max(count, 0)*width/total, width)
		if count > 0 && filled == 0 {
			filled = 1
		}
	}

	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %2d", StyleBlue.Render(bar), count)
}
