package engine

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/google/uuid"
)

// Session owns one immutable canvas and the ordered set of committed
// annotations layered on it, plus the single in-progress draft if a gesture
// is running. All mutation happens on the input event goroutine; the
// session is not safe for concurrent mutation.
type Session struct {
	uid    uuid.UUID
	canvas *image.RGBA

	set    []Annotation
	draft  Annotation
	nextID ID

	// generation increments on every visible mutation so the compositor can
	// invalidate its cached preview.
	generation uint64
}

// NewSession copies src into a fresh RGBA canvas and returns a session with
// an empty annotation set. The canvas never changes afterwards.
func NewSession(src image.Image) *Session {
	canvas := image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(canvas, canvas.Bounds(), src, src.Bounds().Min, draw.Src)
	return &Session{
		uid:    uuid.New(),
		canvas: canvas,
		nextID: 1,
	}
}

// UID returns the unique identity of this session, used for default output
// file names.
func (s *Session) UID() uuid.UUID { return s.uid }

// Canvas returns the base raster. Callers must treat it as read-only.
func (s *Session) Canvas() *image.RGBA { return s.canvas }

// Bounds returns the canvas rectangle in canvas coordinates.
func (s *Session) Bounds() image.Rectangle { return s.canvas.Bounds() }

// Generation reports the mutation counter. Any change to the committed set
// or the draft bumps it.
func (s *Session) Generation() uint64 { return s.generation }

func (s *Session) allocID() ID {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Session) beginErr(op string) error {
	if s.draft != nil {
		return &InvalidStateError{Op: op, Reason: "another annotation is already in progress"}
	}
	return nil
}

// BeginStroke starts a freehand pen draft at p.
func (s *Session) BeginStroke(p image.Point, style Style) (ID, error) {
	if err := s.beginErr("begin stroke"); err != nil {
		return 0, err
	}
	s.draft = &Stroke{id: s.allocID(), Points: []image.Point{p}, Style: style}
	s.generation++
	return s.draft.ID(), nil
}

// BeginShape starts a two-point shape draft with both corners at p.
func (s *Session) BeginShape(kind ShapeKind, p image.Point, style Style) (ID, error) {
	if err := s.beginErr("begin shape"); err != nil {
		return 0, err
	}
	s.draft = &Shape{id: s.allocID(), Shape: kind, Start: p, End: p, Style: style}
	s.generation++
	return s.draft.ID(), nil
}

// BeginText starts an empty text draft anchored at p.
func (s *Session) BeginText(p image.Point, size float64, col color.RGBA) (ID, error) {
	if err := s.beginErr("begin text"); err != nil {
		return 0, err
	}
	s.draft = &TextBlock{id: s.allocID(), Anchor: p, Size: size, Color: col}
	s.generation++
	return s.draft.ID(), nil
}

// BeginCrop starts a crop-region draft with an empty rectangle at p.
func (s *Session) BeginCrop(p image.Point) (ID, error) {
	if err := s.beginErr("begin crop"); err != nil {
		return 0, err
	}
	s.draft = &CropRegion{id: s.allocID(), Rect: image.Rectangle{Min: p, Max: p}}
	s.generation++
	return s.draft.ID(), nil
}

// Extend grows the draft geometry to include p: strokes append a path
// point, shapes and crop regions move their second corner. Text drafts do
// not take points.
func (s *Session) Extend(p image.Point) error {
	switch d := s.draft.(type) {
	case nil:
		return &InvalidStateError{Op: "extend", Reason: "no annotation in progress"}
	case *Stroke:
		d.Points = append(d.Points, p)
	case *Shape:
		d.End = p
	case *CropRegion:
		d.Rect.Max = p
	default:
		return &InvalidStateError{Op: "extend", Reason: "draft does not take points"}
	}
	s.generation++
	return nil
}

// SetDraftAnchor moves an in-progress text annotation to a new baseline
// position.
func (s *Session) SetDraftAnchor(p image.Point) error {
	t, ok := s.draft.(*TextBlock)
	if !ok {
		return &InvalidStateError{Op: "set anchor", Reason: "no text annotation in progress"}
	}
	t.Anchor = p
	s.generation++
	return nil
}

// SetDraftText replaces the content of an in-progress text annotation.
func (s *Session) SetDraftText(text string) error {
	t, ok := s.draft.(*TextBlock)
	if !ok {
		return &InvalidStateError{Op: "set text", Reason: "no text annotation in progress"}
	}
	t.Text = text
	s.generation++
	return nil
}

// Draft returns the in-progress annotation, or nil when no gesture is
// running. The returned value is live; it must not be retained across a
// commit.
func (s *Session) Draft() Annotation { return s.draft }

// Commit freezes the draft and appends it to the annotation set at the top
// of the z-order. Committing a crop region replaces any previous one, so at
// most one is ever active. The commit is atomic: on error nothing changes.
func (s *Session) Commit() (ID, error) {
	if s.draft == nil {
		return 0, &InvalidStateError{Op: "commit", Reason: "no annotation in progress"}
	}
	a := s.draft
	if c, ok := a.(*CropRegion); ok {
		c.Rect = c.Rect.Canon()
		s.dropCrop()
	}
	s.set = append(s.set, a)
	s.draft = nil
	s.generation++
	return a.ID(), nil
}

// Discard drops the draft without committing it. It is safe to call with no
// gesture in progress.
func (s *Session) Discard() {
	if s.draft == nil {
		return
	}
	s.draft = nil
	s.generation++
}

// Remove deletes a committed annotation by id.
func (s *Session) Remove(id ID) error {
	for i, a := range s.set {
		if a.ID() == id {
			s.set = append(s.set[:i], s.set[i+1:]...)
			s.generation++
			return nil
		}
	}
	return &NotFoundError{ID: id}
}

// dropCrop removes the active crop region, if any.
func (s *Session) dropCrop() {
	for i, a := range s.set {
		if a.Kind() == KindCrop {
			s.set = append(s.set[:i], s.set[i+1:]...)
			return
		}
	}
}

// Annotations returns the committed set in z-order. The slice is a copy;
// the elements are frozen and shared.
func (s *Session) Annotations() []Annotation {
	out := make([]Annotation, len(s.set))
	copy(out, s.set)
	return out
}

// Len reports the number of committed annotations.
func (s *Session) Len() int { return len(s.set) }

// Crop returns the active crop region rectangle, if one is committed.
func (s *Session) Crop() (image.Rectangle, bool) {
	for _, a := range s.set {
		if c, ok := a.(*CropRegion); ok {
			return c.Rect, true
		}
	}
	return image.Rectangle{}, false
}

// Snapshot deep-copies the committed set for the history log. The draft is
// deliberately excluded: uncommitted work is not undoable state.
func (s *Session) Snapshot() []Annotation {
	out := make([]Annotation, len(s.set))
	for i, a := range s.set {
		out[i] = a.Clone()
	}
	return out
}

// Restore replaces the committed set with a deep copy of snap. The id
// allocator is untouched so ids are never reused, and any draft survives
// untouched.
func (s *Session) Restore(snap []Annotation) {
	s.set = make([]Annotation, len(snap))
	for i, a := range snap {
		s.set[i] = a.Clone()
	}
	s.generation++
}
