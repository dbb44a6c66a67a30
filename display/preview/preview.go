// Package preview renders matrix frames into the terminal using Unicode
// half-block characters, two pixel rows per text row, with 24-bit
// grayscale ANSI. It exists for development and diagnostics; the real
// output path is the display server socket.
package preview

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Align(lipgloss.Center)
)

// Frame renders a grayscale image as half-block rows. The upper half-block
// character carries the even pixel row in its foreground and the odd row
// in its background, halving the vertical footprint.
func Frame(img *image.Gray) string {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var b strings.Builder
	for y := 0; y < h; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			top := img.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y
			var bot uint8
			if y+1 < h {
				bot = img.GrayAt(bounds.Min.X+x, bounds.Min.Y+y+1).Y
			}
			fmt.Fprintf(&b, "\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm▀\033[0m",
				top, top, top, bot, bot, bot)
		}
	}
	return b.String()
}

// Panel frames one rendered bitmap with a border and a label underneath.
func Panel(img *image.Gray, label string) string {
	body := panelStyle.Render(Frame(img))
	caption := labelStyle.Width(lipgloss.Width(body)).Render(label)
	return lipgloss.JoinVertical(lipgloss.Left, body, caption)
}

// Panels lays the left and right panels side by side.
func Panels(left, right *image.Gray) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		Panel(left, "left"),
		" ",
		Panel(right, "right"),
	)
}
