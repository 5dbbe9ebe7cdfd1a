package viz

import (
	"math"
	"strings"

	"github.com/Linux0Hat/physicium/internal/view"
)

const blank rune = 0x2800

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells. Each cell holds 2x4 sub-pixels, so a
// Canvas of Width x Height cells is addressed in pixels of
// (2*Width) x (4*Height). Canvas implements view.Sink.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

var _ view.Sink = (*Canvas)(nil)

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// PixelSize returns the canvas size in sub-pixels, the size to give a
// view.Viewport rendering onto it.
func (c *Canvas) PixelSize() (w, h int) {
	return c.Width * 2, c.Height * 4
}

// Set lights the sub-pixel (x, y). Cells holding text are left alone.
func (c *Canvas) Set(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok || !isBraille(c.Grid[row][col]) {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

// IsSet reports whether the sub-pixel (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	row, col, ok := c.cell(x, y)
	if !ok || !isBraille(c.Grid[row][col]) {
		return false
	}
	return c.Grid[row][col]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawCircle fills a disc. Discs smaller than a sub-pixel still light the
// pixel under their center.
func (c *Canvas) DrawCircle(center view.Point, radius float64) {
	if !finite(center) || math.IsNaN(radius) || radius < 0 {
		return
	}
	cx, cy := center.X, center.Y

	// clip to the canvas before scanning, huge radii are common when zoomed in
	pw, ph := c.PixelSize()
	x0 := int(math.Max(math.Floor(cx-radius), 0))
	y0 := int(math.Max(math.Floor(cy-radius), 0))
	x1 := int(math.Min(math.Ceil(cx+radius), float64(pw-1)))
	y1 := int(math.Min(math.Ceil(cy+radius), float64(ph-1)))

	r2 := radius * radius
	for y := y0; y <= y1; y++ {
		dy := float64(y) + 0.5 - cy
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				c.Set(x, y)
			}
		}
	}
	if cx >= 0 && cy >= 0 && cx < float64(pw) && cy < float64(ph) {
		c.Set(int(cx), int(cy))
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(p0, p1 view.Point) {
	if !finite(p0) || !finite(p1) {
		return
	}
	pw, ph := c.PixelSize()
	p0, p1, ok := clipLine(p0, p1, float64(pw), float64(ph))
	if !ok {
		return
	}
	x0, y0 := int(math.Floor(p0.X)), int(math.Floor(p0.Y))
	x1, y1 := int(math.Floor(p1.X)), int(math.Floor(p1.Y))

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

// DrawText writes s into the cells starting at the cell containing pos.
// Text overwrites dots and is clipped at the right edge.
func (c *Canvas) DrawText(pos view.Point, s string) {
	if !finite(pos) {
		return
	}
	row, col, ok := c.cell(int(math.Floor(pos.X)), int(math.Floor(pos.Y)))
	if !ok {
		return
	}
	for _, r := range s {
		if col >= c.Width {
			return
		}
		c.Grid[row][col] = r
		col++
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// clipLine clips the segment to [0,w)x[0,h) (Liang-Barsky).
func clipLine(p0, p1 view.Point, w, h float64) (view.Point, view.Point, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := p1.X-p0.X, p1.Y-p0.Y
	edges := [4][2]float64{
		{-dx, p0.X},
		{dx, w - 1 - p0.X},
		{-dy, p0.Y},
		{dy, h - 1 - p0.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return p0, p1, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return p0, p1, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return p0, p1, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return view.Point{X: p0.X + t0*dx, Y: p0.Y + t0*dy},
		view.Point{X: p0.X + t1*dx, Y: p0.Y + t1*dy}, true
}

func isBraille(r rune) bool {
	return r >= blank && r <= blank+0xff
}

func finite(p view.Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
