//go:build !rp2040

package main

import (
	"fmt"
	imgcolor "image/color"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"envnode-go/services/display"
)

var (
	colorPanel  = color.New(color.FgHiCyan)
	colorBorder = color.New(color.FgHiBlack)
	colorLabel  = color.New(color.FgHiWhite, color.Bold)
	colorMuted  = color.New(color.FgHiBlack)
)

// console keeps the last committed OLED frame as text and echoes LED writes.
type console struct {
	mu    sync.Mutex
	out   io.Writer
	frame []string
	led   imgcolor.RGBA
}

func newConsole(out io.Writer) *console { return &console{out: out} }

// capture is the framebuffer's OnDisplay hook. Two pixel rows share one text
// row using half blocks.
func (c *console) capture(fb *display.Framebuffer) error {
	w, h := fb.Size()
	rows := make([]string, 0, (h+1)/2)
	var sb strings.Builder
	for y := int16(0); y < h; y += 2 {
		sb.Reset()
		for x := int16(0); x < w; x++ {
			top, bot := fb.Lit(x, y), fb.Lit(x, y+1)
			switch {
			case top && bot:
				sb.WriteString("█")
			case top:
				sb.WriteString("▀")
			case bot:
				sb.WriteString("▄")
			default:
				sb.WriteByte(' ')
			}
		}
		rows = append(rows, sb.String())
	}
	c.mu.Lock()
	c.frame = rows
	c.mu.Unlock()
	return nil
}

// onLED is the strip's OnWrite hook.
func (c *console) onLED(px []imgcolor.RGBA) {
	if len(px) == 0 {
		return
	}
	c.mu.Lock()
	c.led = px[0]
	c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", colorLabel.Sprint("LED"), swatch(px[0]))
}

// show prints the last frame inside a border, then the LED.
func (c *console) show() {
	c.mu.Lock()
	frame, led := c.frame, c.led
	c.mu.Unlock()

	if len(frame) == 0 {
		fmt.Fprintln(c.out, colorMuted.Sprint("(no frame yet)"))
	} else {
		edge := strings.Repeat("─", len([]rune(frame[0])))
		colorBorder.Fprintln(c.out, "┌"+edge+"┐")
		for _, row := range frame {
			fmt.Fprintln(c.out, colorBorder.Sprint("│")+colorPanel.Sprint(row)+colorBorder.Sprint("│"))
		}
		colorBorder.Fprintln(c.out, "└"+edge+"┘")
	}
	fmt.Fprintf(c.out, "%s %s\n", colorLabel.Sprint("LED"), swatch(led))
}

// swatch picks the closest of the eight bright terminal colors.
func swatch(c imgcolor.RGBA) string {
	if c.R|c.G|c.B == 0 {
		return colorMuted.Sprint("○") + " off"
	}
	m := max(c.R, c.G, c.B)
	idx := 0
	for i, v := range []uint8{c.R, c.G, c.B} {
		if int(v)*2 >= int(m) {
			idx |= 1 << i
		}
	}
	dot := color.New(color.FgHiBlack + color.Attribute(idx)).Sprint("●")
	return fmt.Sprintf("%s (%d,%d,%d)", dot, c.R, c.G, c.B)
}
