package tui

import (
	"math"
	"strings"
)

type canvas struct {
	w, h  int
	cells [][]rune
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
	}
	c.clear()
	return c
}

func (c *canvas) clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = ' '
		}
	}
}

func (c *canvas) set(x, y int, r rune) {
	if x >= 0 && x < c.w && y >= 0 && y < c.h {
		c.cells[y][x] = r
	}
}

// line draws with Bresenham's algorithm.
func (c *canvas) line(x1, y1, x2, y2 int, r rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		c.set(x1, y1, r)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (c *canvas) String() string {
	rows := make([]string, len(c.cells))
	for i, row := range c.cells {
		rows[i] = string(row)
	}
	return strings.Join(rows, "\n")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// scene draws a state on a canvas. lookup resolves a state name to its
// value and reports whether the system has it.
type scene func(c *canvas, lookup func(name string) (float64, bool))

// scenes are keyed by the state names they need; the first scene whose
// names are all present wins.
var scenes = []struct {
	needs []string
	draw  scene
}{
	{[]string{"theta1", "theta2"}, drawDoublePendulum},
	{[]string{"x", "theta"}, drawCartpole},
	{[]string{"theta"}, drawPendulum},
	{[]string{"x", "v"}, drawSpring},
}

func pickScene(names []string) scene {
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}
outer:
	for _, s := range scenes {
		for _, n := range s.needs {
			if !have[n] {
				continue outer
			}
		}
		return s.draw
	}
	return nil
}

func get(lookup func(string) (float64, bool), name string) float64 {
	v, _ := lookup(name)
	return v
}

func drawPendulum(c *canvas, lookup func(string) (float64, bool)) {
	theta := get(lookup, "theta")
	px, py := c.w/2, 1
	length := float64(c.h) * 0.7
	bx := px + int(2*length*math.Sin(theta))
	by := py + int(length*math.Cos(theta))
	c.set(px, py, '+')
	c.line(px, py, bx, by, '·')
	c.set(bx, by, '●')
}

func drawDoublePendulum(c *canvas, lookup func(string) (float64, bool)) {
	t1, t2 := get(lookup, "theta1"), get(lookup, "theta2")
	px, py := c.w/2, c.h/2
	length := float64(c.h) * 0.22
	b1x := px + int(2*length*math.Sin(t1))
	b1y := py + int(length*math.Cos(t1))
	b2x := b1x + int(2*length*math.Sin(t2))
	b2y := b1y + int(length*math.Cos(t2))
	c.set(px, py, '+')
	c.line(px, py, b1x, b1y, '·')
	c.set(b1x, b1y, 'o')
	c.line(b1x, b1y, b2x, b2y, '·')
	c.set(b2x, b2y, '●')
}

func drawCartpole(c *canvas, lookup func(string) (float64, bool)) {
	pos, theta := get(lookup, "x"), get(lookup, "theta")
	gy := c.h - 2
	cx := c.w/2 + int(pos*8)
	for i := 2; i < c.w-2; i++ {
		c.set(i, gy+1, '=')
	}
	for dx := -3; dx <= 3; dx++ {
		c.set(cx+dx, gy, '#')
	}
	plen := float64(c.h) * 0.6
	px := cx + int(2*plen*math.Sin(theta))
	py := gy - int(plen*math.Cos(theta))
	c.line(cx, gy-1, px, py, '|')
	c.set(px, py, 'o')
}

func drawSpring(c *canvas, lookup func(string) (float64, bool)) {
	pos := get(lookup, "x")
	cy := c.h / 2
	for y := cy - 2; y <= cy+2; y++ {
		c.set(2, y, '#')
	}
	mx := c.w/2 + int(pos*8)
	for i := 3; i < mx-2; i += 2 {
		c.set(i, cy, '~')
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c.set(mx+dx, cy+dy, '#')
		}
	}
}
