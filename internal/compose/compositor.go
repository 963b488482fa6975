// Package compose flattens a session's canvas and annotations into raster
// images: a cached live preview including the in-progress draft, and a
// final export excluding it and applying the crop region.
package compose

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/scrann/internal/engine"
)

var (
	marqueeLight = color.RGBA{255, 255, 255, 255}
	marqueeDark  = color.RGBA{0, 0, 0, 255}
	dimOverlay   = color.RGBA{0, 0, 0, 110}
)

// ExportOptions tunes Final's output.
type ExportOptions struct {
	// Shadow, when non-nil, composites a drop shadow under the cropped
	// result.
	Shadow *ShadowOptions
}

// Compositor renders a session. It caches the preview between mutations
// using the session's generation counter, so repeated paints of an
// unchanged model are cheap.
type Compositor struct {
	session  *engine.Session
	cache    *image.RGBA
	cacheGen uint64
}

// New returns a compositor bound to the session.
func New(s *engine.Session) *Compositor {
	return &Compositor{session: s}
}

// Preview renders the canvas with all committed annotations and the draft,
// if any, in z-order. The crop region renders as a dashed marquee and the
// exterior dims while the crop gesture runs; the image is never actually
// cropped here. The returned image is owned by the compositor and valid
// until the next mutation.
func (c *Compositor) Preview() *image.RGBA {
	gen := c.session.Generation()
	if c.cache != nil && c.cacheGen == gen {
		return c.cache
	}
	dst := cloneCanvas(c.session.Canvas())
	for _, a := range c.session.Annotations() {
		renderAnnotation(dst, a)
	}
	if d := c.session.Draft(); d != nil {
		if cr, ok := d.(*engine.CropRegion); ok {
			dimOutside(dst, cr.Rect.Canon())
		}
		renderAnnotation(dst, d)
	}
	c.cache = dst
	c.cacheGen = gen
	return dst
}

// Final renders the committed annotations only, applies the active crop
// region and the optional drop shadow. The result is always a fresh image;
// the live model is never altered.
func (c *Compositor) Final(opts ExportOptions) *image.RGBA {
	dst := cloneCanvas(c.session.Canvas())
	for _, a := range c.session.Annotations() {
		if a.Kind() == engine.KindCrop {
			// Applied below as a crop, never rasterized.
			continue
		}
		renderAnnotation(dst, a)
	}
	if rect, ok := c.session.Crop(); ok {
		dst = cropImage(dst, rect)
	}
	if opts.Shadow != nil {
		dst = applyShadow(dst, *opts.Shadow)
	}
	return dst
}

func cloneCanvas(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// cropImage copies rect out of img. Areas of rect outside img stay
// transparent.
func cropImage(img *image.RGBA, rect image.Rectangle) *image.RGBA {
	rect = rect.Canon()
	if rect.Empty() {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	src := rect.Intersect(img.Bounds())
	if !src.Empty() {
		draw.Draw(out, src.Sub(rect.Min), img, src.Min, draw.Src)
	}
	return out
}

func renderAnnotation(dst *image.RGBA, a engine.Annotation) {
	switch v := a.(type) {
	case *engine.Stroke:
		renderStroke(dst, v)
	case *engine.Shape:
		renderShape(dst, v)
	case *engine.TextBlock:
		if v.Text != "" {
			drawText(dst, v.Anchor, v.Text, v.Size, image.NewUniform(v.Color))
		}
	case *engine.CropRegion:
		dashedRect(dst, v.Rect.Canon(), 4, 2, marqueeLight, marqueeDark)
	}
}

// renderStroke draws a connected path through the stroke's points. When the
// smoothing flag is set the path is resampled through a spline first; the
// stored points stay untouched.
func renderStroke(dst *image.RGBA, s *engine.Stroke) {
	pts := s.Points
	if s.Style.Smooth {
		pts = smoothPath(pts)
	}
	if len(pts) == 1 {
		thickPoint(dst, pts[0].X, pts[0].Y, s.Style.Width, s.Style.Color)
		return
	}
	for i := 1; i < len(pts); i++ {
		line(dst, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, s.Style.Color, s.Style.Width)
	}
}

func renderShape(dst *image.RGBA, s *engine.Shape) {
	col, w := s.Style.Color, s.Style.Width
	switch s.Shape {
	case engine.ShapeRect:
		rectOutline(dst, s.Bounds(), col, w)
	case engine.ShapeEllipse:
		b := s.Bounds()
		cx := (b.Min.X + b.Max.X) / 2
		cy := (b.Min.Y + b.Max.Y) / 2
		ellipseOutline(dst, cx, cy, b.Dx()/2, b.Dy()/2, col, w)
	case engine.ShapeLine:
		line(dst, s.Start.X, s.Start.Y, s.End.X, s.End.Y, col, w)
	case engine.ShapeArrow:
		arrow(dst, s.Start.X, s.Start.Y, s.End.X, s.End.Y, col, w)
	}
}

// dimOutside darkens everything outside rect so the pending crop region
// stands out while the gesture runs.
func dimOutside(dst *image.RGBA, rect image.Rectangle) {
	b := dst.Bounds()
	rect = rect.Intersect(b)
	overlay := image.NewUniform(dimOverlay)
	regions := []image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, b.Max.X, rect.Min.Y),
		image.Rect(b.Min.X, rect.Max.Y, b.Max.X, b.Max.Y),
		image.Rect(b.Min.X, rect.Min.Y, rect.Min.X, rect.Max.Y),
		image.Rect(rect.Max.X, rect.Min.Y, b.Max.X, rect.Max.Y),
	}
	for _, r := range regions {
		if !r.Empty() {
			draw.Draw(dst, r, overlay, image.Point{}, draw.Over)
		}
	}
}
