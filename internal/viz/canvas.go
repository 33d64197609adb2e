package viz

import (
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a character grid addressed in sub-pixels: (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
	return c
}

func (c *Canvas) PixelWidth() int  { return c.Width * 2 }
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
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

// DashedRow sets every other pair of pixels along row y.
func (c *Canvas) DashedRow(y int) {
	for x := 0; x < c.PixelWidth(); x++ {
		if (x/2)%2 == 0 {
			c.Set(x, y)
		}
	}
}

func (c *Canvas) Column(x int) {
	for y := 0; y < c.PixelHeight(); y++ {
		c.Set(x, y)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// viewport maps data coordinates onto a canvas.
type viewport struct {
	minX, maxX, minY, maxY float64
	w, h                   int
}

func (v viewport) px(x float64) int {
	if v.maxX == v.minX {
		return 0
	}
	return clampPixel((x-v.minX)/(v.maxX-v.minX), v.w)
}

func (v viewport) py(y float64) int {
	if v.maxY == v.minY {
		return v.h / 2
	}
	return v.h - 1 - clampPixel((y-v.minY)/(v.maxY-v.minY), v.h)
}

// clampPixel scales a fraction onto [0, n-1]; NaN maps to 0.
func clampPixel(frac float64, n int) int {
	if !(frac > 0) {
		return 0
	}
	if frac >= 1 {
		return n - 1
	}
	return int(frac * float64(n-1))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
