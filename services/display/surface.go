package display

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	on  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	off = color.RGBA{A: 0xFF}
)

// bufferClearer is implemented by ssd1306.Device.
type bufferClearer interface {
	ClearBuffer()
}

// FontSurface draws text with tinyfont onto any drivers.Displayer: the
// SSD1306 on the board, a Framebuffer on the host.
type FontSurface struct {
	d      drivers.Displayer
	font   *tinyfont.Font
	ascent int16
}

// NewFontSurface uses the 8pt proggy font, which fits four rows on 64 px.
func NewFontSurface(d drivers.Displayer) *FontSurface {
	return &FontSurface{d: d, font: &proggy.TinySZ8pt7b, ascent: 9}
}

func (s *FontSurface) Clear() {
	if c, ok := s.d.(bufferClearer); ok {
		c.ClearBuffer()
		return
	}
	w, h := s.d.Size()
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			s.d.SetPixel(x, y, off)
		}
	}
}

// DrawText converts the top-left y into tinyfont's baseline.
func (s *FontSurface) DrawText(x, y int16, text string) {
	tinyfont.WriteLine(s.d, s.font, x, y+s.ascent, text, on)
}

func (s *FontSurface) Flush() error { return s.d.Display() }

// Framebuffer is an in-memory monochrome drivers.Displayer.
type Framebuffer struct {
	w, h  int16
	px    []bool
	shown []bool

	// OnDisplay, if set, is called after each committed frame.
	OnDisplay func(fb *Framebuffer) error
}

func NewFramebuffer(w, h int16) *Framebuffer {
	return &Framebuffer{w: w, h: h, px: make([]bool, int(w)*int(h)), shown: make([]bool, int(w)*int(h))}
}

func (f *Framebuffer) Size() (int16, int16) { return f.w, f.h }

func (f *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	f.px[int(y)*int(f.w)+int(x)] = c.R|c.G|c.B != 0
}

func (f *Framebuffer) ClearBuffer() {
	for i := range f.px {
		f.px[i] = false
	}
}

// Display commits the drawing buffer to the visible frame.
func (f *Framebuffer) Display() error {
	copy(f.shown, f.px)
	if f.OnDisplay != nil {
		return f.OnDisplay(f)
	}
	return nil
}

// Lit reports whether the committed frame has pixel (x, y) on.
func (f *Framebuffer) Lit(x, y int16) bool {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return false
	}
	return f.shown[int(y)*int(f.w)+int(x)]
}

// LitIn counts lit pixels of the committed frame in rows [y0, y1).
func (f *Framebuffer) LitIn(y0, y1 int16) int {
	n := 0
	for y := y0; y < y1 && y < f.h; y++ {
		for x := int16(0); x < f.w; x++ {
			if f.Lit(x, y) {
				n++
			}
		}
	}
	return n
}
