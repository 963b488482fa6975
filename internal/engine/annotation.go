package engine

import (
	"image"
	"image/color"
)

// ID identifies an annotation within a session. IDs are allocated by the
// session, increase monotonically and are never reused.
type ID uint64

// Kind discriminates the annotation variants.
type Kind int

const (
	KindStroke Kind = iota
	KindShape
	KindText
	KindCrop
)

func (k Kind) String() string {
	switch k {
	case KindStroke:
		return "stroke"
	case KindShape:
		return "shape"
	case KindText:
		return "text"
	case KindCrop:
		return "crop"
	default:
		return "unknown"
	}
}

// ShapeKind selects the geometry drawn by a Shape annotation.
type ShapeKind int

const (
	ShapeRect ShapeKind = iota
	ShapeEllipse
	ShapeLine
	ShapeArrow
)

// Style carries the drawing attributes shared by stroke and shape
// annotations.
type Style struct {
	Color  color.RGBA
	Width  int
	Smooth bool
}

// Annotation is one vector edit layered on top of the canvas. Annotations
// render in insertion order; the slice position inside the session is the
// z-order.
type Annotation interface {
	ID() ID
	Kind() Kind
	// Clone returns a deep copy so history snapshots stay independent of
	// later mutation of the draft.
	Clone() Annotation
}

// Stroke is a freehand pen path through its ordered raw input points.
// Smoothing is applied at render time only; Points always holds what the
// pointer delivered.
type Stroke struct {
	id     ID
	Points []image.Point
	Style  Style
}

func (s *Stroke) ID() ID     { return s.id }
func (s *Stroke) Kind() Kind { return KindStroke }

func (s *Stroke) Clone() Annotation {
	pts := make([]image.Point, len(s.Points))
	copy(pts, s.Points)
	return &Stroke{id: s.id, Points: pts, Style: s.Style}
}

// Shape is a two-point geometric annotation (rectangle, ellipse, line or
// arrow) spanned between Start and End.
type Shape struct {
	id    ID
	Shape ShapeKind
	Start image.Point
	End   image.Point
	Style Style
}

func (s *Shape) ID() ID     { return s.id }
func (s *Shape) Kind() Kind { return KindShape }

func (s *Shape) Clone() Annotation {
	dup := *s
	return &dup
}

// Bounds returns the normalized rectangle spanned by the shape.
func (s *Shape) Bounds() image.Rectangle {
	return image.Rect(s.Start.X, s.Start.Y, s.End.X, s.End.Y).Canon()
}

// TextBlock anchors a string at a point on the canvas. Size is the font
// size in pixels.
type TextBlock struct {
	id     ID
	Anchor image.Point
	Text   string
	Size   float64
	Color  color.RGBA
}

func (t *TextBlock) ID() ID     { return t.id }
func (t *TextBlock) Kind() Kind { return KindText }

func (t *TextBlock) Clone() Annotation {
	dup := *t
	return &dup
}

// CropRegion marks the rectangle the exporter crops the final raster to.
// At most one is active per session; committing a new one replaces the
// previous region. The crop is applied only at export time, never to the
// live model.
type CropRegion struct {
	id   ID
	Rect image.Rectangle
}

func (c *CropRegion) ID() ID     { return c.id }
func (c *CropRegion) Kind() Kind { return KindCrop }

func (c *CropRegion) Clone() Annotation {
	dup := *c
	return &dup
}
