// Package viz renders a flock to the terminal using a braille-dot canvas
// and a rotatable 3D camera.
package viz

import "strings"

// Braille cells pack 2x4 dots, so a WxH character canvas addresses
// (2W)x(4H) sub-pixels. Dot bits within the 0x2800 block:
//
//	1  8
//	2  10
//	4  20
//	40 80
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// Canvas is a character grid addressed in sub-pixel coordinates.
type Canvas struct {
	cols, rows int
	cells      []rune // flat, row-major
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{cols: cols, rows: rows, cells: make([]rune, cols*rows)}
	c.Clear()
	return c
}

// PixelWidth returns the horizontal sub-pixel resolution.
func (c *Canvas) PixelWidth() int { return c.cols * 2 }

// PixelHeight returns the vertical sub-pixel resolution.
func (c *Canvas) PixelHeight() int { return c.rows * 4 }

// Set lights the sub-pixel at (x, y). Out-of-range coordinates are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.cols || row >= c.rows {
		return
	}
	c.cells[row*c.cols+col] |= dotBits[y%4][x%2]
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = brailleBase
	}
}

// Line draws a straight line between two sub-pixel points (Bresenham).
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.rows * (c.cols + 1))
	for row := 0; row < c.rows; row++ {
		b.WriteString(string(c.cells[row*c.cols : (row+1)*c.cols]))
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
