package analysis

import (
	"bufio"
	"fmt"
	"io"
)

// WriteSVG draws points as a single polyline in a width×height SVG document.
func WriteSVG(w io.Writer, points []Point, width, height int, stroke string) error {
	if len(points) < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", ErrBadArgument, len(points))
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrBadArgument, width, height)
	}
	b := bounds(points)
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`, width, height, width, height, stroke)

	for i, p := range points {
		x := (p.X - b.minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-b.minY)/rangeY*float64(height)
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(bw, "%s%.1f,%.1f ", cmd, x, y)
	}
	fmt.Fprint(bw, "\"/>\n</svg>\n")
	return bw.Flush()
}
