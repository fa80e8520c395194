package chip8

import "strings"

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Framebuffer is the monochrome display, stored row-major.
type Framebuffer [DisplayWidth * DisplayHeight]bool

// Pixel returns whether the pixel at the given position is on.
// Coordinates outside the display return false.
func (f Framebuffer) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	return f[y*DisplayWidth+x]
}

// Lit returns the number of pixels that are on.
func (f Framebuffer) Lit() int {
	var count int
	for _, on := range f {
		if on {
			count++
		}
	}
	return count
}

// String returns a text dump of the framebuffer, one line per row
// with '#' for pixels that are on and '.' for pixels that are off.
func (f Framebuffer) String() string {
	var sb strings.Builder
	sb.Grow((DisplayWidth + 1) * DisplayHeight)
	for y := 0; y < DisplayHeight; y++ {
		for x := 0; x < DisplayWidth; x++ {
			if f[y*DisplayWidth+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (f *Framebuffer) clear() {
	*f = Framebuffer{}
}

// drawSprite XORs the sprite rows onto the framebuffer with the origin at
// the given position. Every pixel wraps around the display edges on its own.
// It returns whether any pixel was switched from on to off.
func (f *Framebuffer) drawSprite(x, y int, rows []byte) bool {
	x %= DisplayWidth
	y %= DisplayHeight

	var collision bool
	for row, data := range rows {
		py := (y + row) % DisplayHeight
		for col := 0; col < 8; col++ {
			if data&(0x80>>col) == 0 {
				continue
			}
			px := (x + col) % DisplayWidth
			index := py*DisplayWidth + px
			collision = collision || f[index]
			f[index] = !f[index]
		}
	}
	return collision
}
