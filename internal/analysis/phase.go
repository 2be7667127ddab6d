package analysis

import (
	"math"
	"strings"
)

type Point struct{ X, Y float64 }

// Portrait pairs two recorded series into phase-plane points.
func Portrait(xs, ys []float64) []Point {
	n := min(len(xs), len(ys))
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		pts[i] = Point{xs[i], ys[i]}
	}
	return pts
}

// Poincare records (xs, ys) where cross rises through threshold, linearly
// interpolated between the samples on either side of the crossing.
func Poincare(cross, xs, ys []float64, threshold float64) []Point {
	n := min(len(cross), len(xs), len(ys))
	var pts []Point
	for i := 1; i < n; i++ {
		prev, curr := cross[i-1], cross[i]
		if !(prev < threshold && curr >= threshold) {
			continue
		}
		frac := (threshold - prev) / (curr - prev)
		pts = append(pts, Point{
			X: xs[i-1] + frac*(xs[i]-xs[i-1]),
			Y: ys[i-1] + frac*(ys[i]-ys[i-1]),
		})
	}
	return pts
}

// RenderASCII scatters points on a width×height grid with 10% padding and
// draws the axes where they are in view.
func RenderASCII(points []Point, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	b := bounds(points)
	col := func(x float64) int { return int((x - b.minX) / (b.maxX - b.minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-b.minY)/(b.maxY-b.minY)*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	if b.minX <= 0 && b.maxX >= 0 {
		c := col(0)
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if b.minY <= 0 && b.maxY >= 0 {
		r := row(0)
		for c := range grid[r] {
			if grid[r][c] == '│' {
				grid[r][c] = '┼'
			} else {
				grid[r][c] = '─'
			}
		}
	}
	for _, p := range points {
		grid[row(p.Y)][col(p.X)] = '•'
	}

	var sb strings.Builder
	for _, r := range grid {
		sb.WriteString(string(r))
		sb.WriteRune('\n')
	}
	return sb.String()
}

type box struct{ minX, maxX, minY, maxY float64 }

// bounds is the bounding box of points grown by 10% on every side. A
// degenerate extent is widened to one unit first.
func bounds(points []Point) box {
	b := box{points[0].X, points[0].X, points[0].Y, points[0].Y}
	for _, p := range points {
		b.minX, b.maxX = math.Min(b.minX, p.X), math.Max(b.maxX, p.X)
		b.minY, b.maxY = math.Min(b.minY, p.Y), math.Max(b.maxY, p.Y)
	}
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b
}
