package compose

import (
	"image"
	"image/color"
	"math"
)

// thickPoint stamps a square brush of the given width centred on (x, y).
// Pixels outside dst are clipped.
func thickPoint(dst *image.RGBA, x, y, width int, col color.Color) {
	r := width / 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(dst.Bounds()) {
				dst.Set(px, py, col)
			}
		}
	}
}

// line draws a Bresenham line with a square brush.
func line(dst *image.RGBA, x0, y0, x1, y1 int, col color.Color, width int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
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
		thickPoint(dst, x0, y0, width, col)
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

// rectOutline draws the four edges of rect.
func rectOutline(dst *image.RGBA, rect image.Rectangle, col color.Color, width int) {
	line(dst, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, width)
	line(dst, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, width)
	line(dst, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, width)
	line(dst, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, width)
}

// ellipseOutline approximates an axis-aligned ellipse centred on (cx, cy)
// by walking short line segments around its circumference.
func ellipseOutline(dst *image.RGBA, cx, cy, rx, ry int, col color.Color, width int) {
	steps := int(math.Ceil(2 * math.Pi * math.Sqrt(float64(rx*rx+ry*ry))))
	if steps < 8 {
		steps = 8
	}
	var prevX, prevY int
	for i := 0; i <= steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(math.Cos(angle)*float64(rx))
		y := cy + int(math.Sin(angle)*float64(ry))
		if i > 0 {
			line(dst, prevX, prevY, x, y, col, width)
		} else {
			thickPoint(dst, x, y, width, col)
		}
		prevX, prevY = x, y
	}
}

// arrow draws a line with a two-flight arrowhead at (x1, y1). Head size
// scales with the stroke width.
func arrow(dst *image.RGBA, x0, y0, x1, y1 int, col color.Color, width int) {
	line(dst, x0, y0, x1, y1, col, width)
	angle := math.Atan2(float64(y1-y0), float64(x1-x0))
	size := float64(6 + width*2)
	for _, a := range []float64{angle + math.Pi/6, angle - math.Pi/6} {
		hx := x1 - int(math.Cos(a)*size)
		hy := y1 - int(math.Sin(a)*size)
		line(dst, x1, y1, hx, hy, col, width)
	}
}

// dashedLine draws an axis-aligned line alternating between two colors so
// the selection marquee stays visible on any background.
func dashedLine(dst *image.RGBA, x0, y0, x1, y1, dash, width int, c1, c2 color.Color) {
	horiz := y0 == y1
	length := x1 - x0
	if !horiz {
		length = y1 - y0
	}
	if length < 0 {
		length = -length
	}
	put := func(i int, col color.Color) {
		for t := 0; t < width; t++ {
			var px, py int
			if horiz {
				px, py = x0+i, y0+t
				if x0 > x1 {
					px = x0 - i
				}
			} else {
				px, py = x0+t, y0+i
				if y0 > y1 {
					py = y0 - i
				}
			}
			if image.Pt(px, py).In(dst.Bounds()) {
				dst.Set(px, py, col)
			}
		}
	}
	for i := 0; i <= length; i++ {
		if (i/dash)%2 == 0 {
			put(i, c1)
		} else {
			put(i, c2)
		}
	}
}

// dashedRect draws a dashed marquee around rect.
func dashedRect(dst *image.RGBA, rect image.Rectangle, dash, width int, c1, c2 color.Color) {
	dashedLine(dst, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y, dash, width, c1, c2)
	dashedLine(dst, rect.Max.X, rect.Min.Y, rect.Max.X, rect.Max.Y, dash, width, c1, c2)
	dashedLine(dst, rect.Max.X, rect.Max.Y, rect.Min.X, rect.Max.Y, dash, width, c1, c2)
	dashedLine(dst, rect.Min.X, rect.Max.Y, rect.Min.X, rect.Min.Y, dash, width, c1, c2)
}
