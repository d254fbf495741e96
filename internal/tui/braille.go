package tui

// cellKind orders what a braille cell shows; higher kinds win the color.
type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellLimb
	cellOutline
	cellVisited
	cellHover
	// label text, never drawn into the braille buffer
	cellLabel
	cellLabelVisited
)

type brailleBuf struct {
	w, h int          // in cells
	m    [][]uint8    // per-cell 8-bit mask
	kind [][]cellKind // strongest kind drawn into the cell
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	k := make([][]cellKind, h)
	for i := range m {
		m[i] = make([]uint8, w)
		k[i] = make([]cellKind, w)
	}
	return &brailleBuf{w: w, h: h, m: m, kind: k}
}

// brailleBits maps a micro position inside a cell (2 wide, 4 tall) to its dot.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, k cellKind) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleBits[mx%2][my%4]
	if k > b.kind[cy][cx] {
		b.kind[cy][cx] = k
	}
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, k cellKind) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, k)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// glyph returns the braille rune of a cell, or ' ' when empty.
func (b *brailleBuf) glyph(x, y int) rune {
	mask := b.m[y][x]
	if mask == 0 {
		return ' '
	}
	return rune(0x2800 + int(mask))
}
