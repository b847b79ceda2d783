package app

import (
	"fmt"
	"image/color"
	"strings"

	"vitrine/ui"
)

// drawPanic replaces the page with the recovered panic and as much of its
// stack as fits.
func (a *App) drawPanic(c *ui.Canvas) {
	info := a.fatal
	c.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})

	lines := []string{
		"vitrine panic:",
		fmt.Sprintf("source: %s", info.Source),
		fmt.Sprintf("panic: %v", info.Value),
		"press Esc to quit",
	}
	if len(info.Stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(info.Stack), "\n") {
			if line != "" {
				lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
			}
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}

	fg := color.RGBA{A: 255}
	const lineHeight = 10
	cols := a.layout.w / max(ui.TextWidth(ui.Body, "0"), 1)
	if cols <= 0 {
		cols = 1
	}
	y := lineHeight
	for _, line := range lines {
		for len(line) > 0 {
			if y > a.layout.h {
				return
			}
			chunk, rest := takeRunes(line, cols)
			c.Text(ui.Body, 2, y, chunk, fg)
			y += lineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
}

func takeRunes(s string, n int) (head, tail string) {
	if n <= 0 {
		return "", s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}
