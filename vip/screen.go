package vip

import (
	"image"
	"image/color"
)

// Display dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// Screen is the 64x32 monochrome CHIP-8 display.
type Screen struct {
	px  [Width * Height]bool
	ops int // total count of draw operations
}

// Clear blanks the display.
func (s *Screen) Clear() {
	s.px = [Width * Height]bool{}
	s.ops++
}

// Draw XOR-composites an 8-pixel-wide sprite at (x, y), one byte per
// row with the most significant bit leftmost, wrapping at the display
// edges. It reports whether any lit pixel was erased.
func (s *Screen) Draw(x, y byte, sprite []byte) bool {
	collided := false
	for row, bits := range sprite {
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			i := pxIndex(int(x)+col, int(y)+row)
			if s.px[i] {
				collided = true
			}
			s.px[i] = !s.px[i]
		}
	}
	s.ops++
	return collided
}

func pxIndex(x, y int) int {
	return y%Height*Width + x%Width
}

// Ops returns the count of draw operations applied so far. The GUI
// compares it against the count at its last repaint to skip copying an
// unchanged display.
func (s *Screen) Ops() int { return s.ops }

// Pixel reports whether the pixel at (x, y) is lit, wrapping
// coordinates at the display edges.
func (s *Screen) Pixel(x, y int) bool { return s.px[pxIndex(x, y)] }

// RGBA renders the display into a new 64x32 image using the given
// palette.
func (s *Screen) RGBA(on, off color.RGBA) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, Width, Height))
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			c := off
			if s.px[y*Width+x] {
				c = on
			}
			m.SetRGBA(x, y, c)
		}
	}
	return m
}
