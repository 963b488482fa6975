package compose

import "image"

// smoothSubdivisions is the number of interpolated segments rendered per
// input segment when a stroke's smoothing flag is set.
const smoothSubdivisions = 8

// smoothPath resamples a raw stroke path with centripetal-style Catmull-Rom
// interpolation. The input points are never modified; smoothing is purely a
// render-time transform so strokes can be re-rendered with different
// settings without data loss.
func smoothPath(pts []image.Point) []image.Point {
	if len(pts) < 3 {
		out := make([]image.Point, len(pts))
		copy(out, pts)
		return out
	}
	out := make([]image.Point, 0, (len(pts)-1)*smoothSubdivisions+1)
	out = append(out, pts[0])
	for i := 0; i < len(pts)-1; i++ {
		p0 := pts[clampIdx(i-1, len(pts))]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[clampIdx(i+2, len(pts))]
		for s := 1; s <= smoothSubdivisions; s++ {
			t := float64(s) / float64(smoothSubdivisions)
			out = append(out, catmullRom(p0, p1, p2, p3, t))
		}
	}
	return out
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// catmullRom evaluates the uniform Catmull-Rom spline segment between p1
// and p2 at parameter t in [0, 1].
func catmullRom(p0, p1, p2, p3 image.Point, t float64) image.Point {
	t2 := t * t
	t3 := t2 * t
	eval := func(a, b, c, d float64) float64 {
		return 0.5 * ((2 * b) +
			(-a+c)*t +
			(2*a-5*b+4*c-d)*t2 +
			(-a+3*b-3*c+d)*t3)
	}
	x := eval(float64(p0.X), float64(p1.X), float64(p2.X), float64(p3.X))
	y := eval(float64(p0.Y), float64(p1.Y), float64(p2.Y), float64(p3.Y))
	return image.Pt(int(x+0.5), int(y+0.5))
}
