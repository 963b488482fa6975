package history

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/example/scrann/internal/engine"
)

// commitStroke commits one single-segment stroke and returns the snapshots
// around the edit.
func commitStroke(t *testing.T, s *engine.Session, from, to image.Point) (before, after []engine.Annotation) {
	t.Helper()
	before = s.Snapshot()
	if _, err := s.BeginStroke(from, engine.Style{Color: color.RGBA{A: 255}, Width: 1}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.Extend(to); err != nil {
		t.Fatalf("extend: %v", err)
	}
	if _, err := s.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return before, s.Snapshot()
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := engine.NewSession(image.NewRGBA(image.Rect(0, 0, 100, 100)))
	l := New(DefaultDepth)
	before, after := commitStroke(t, s, image.Pt(0, 0), image.Pt(9, 9))
	l.Record(before, after)

	snap, err := l.Undo()
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	s.Restore(snap)
	if s.Len() != 0 {
		t.Fatalf("undo left %d annotations", s.Len())
	}

	snap, err = l.Redo()
	if err != nil {
		t.Fatalf("redo: %v", err)
	}
	s.Restore(snap)
	if s.Len() != 1 {
		t.Fatalf("redo restored %d annotations, want 1", s.Len())
	}
	got, want := s.Annotations()[0], after[0]
	if got.ID() != want.ID() {
		t.Fatalf("redo restored id %d, want %d", got.ID(), want.ID())
	}
	gs, ok := got.(*engine.Stroke)
	ws := want.(*engine.Stroke)
	if !ok || len(gs.Points) != len(ws.Points) {
		t.Fatalf("redo changed stroke structure: %#v", got)
	}
	for i := range ws.Points {
		if gs.Points[i] != ws.Points[i] {
			t.Fatalf("point %d = %v, want %v", i, gs.Points[i], ws.Points[i])
		}
	}
}

func TestUndoThenRedoTwoStrokes(t *testing.T) {
	s := engine.NewSession(image.NewRGBA(image.Rect(0, 0, 100, 100)))
	l := New(DefaultDepth)
	b1, a1 := commitStroke(t, s, image.Pt(0, 0), image.Pt(5, 5))
	l.Record(b1, a1)
	b2, a2 := commitStroke(t, s, image.Pt(10, 10), image.Pt(20, 20))
	l.Record(b2, a2)

	snap, err := l.Undo()
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	s.Restore(snap)
	if s.Len() != 1 {
		t.Fatalf("after one undo want 1 stroke, got %d", s.Len())
	}
	snap, err = l.Redo()
	if err != nil {
		t.Fatalf("redo: %v", err)
	}
	s.Restore(snap)
	if s.Len() != 2 {
		t.Fatalf("after redo want 2 strokes, got %d", s.Len())
	}
}

func TestEmptyStacksAreBenign(t *testing.T) {
	l := New(3)
	if _, err := l.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
	if _, err := l.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestDepthBoundEvictsOldest(t *testing.T) {
	s := engine.NewSession(image.NewRGBA(image.Rect(0, 0, 100, 100)))
	const depth = 3
	l := New(depth)
	for i := 0; i < depth+2; i++ {
		b, a := commitStroke(t, s, image.Pt(i, 0), image.Pt(i, 9))
		l.Record(b, a)
	}
	if l.UndoDepth() != depth {
		t.Fatalf("undo depth %d, want %d", l.UndoDepth(), depth)
	}
	// Unwind everything; the deepest reachable state is after the two
	// evicted edits, i.e. two strokes remain.
	var snap []engine.Annotation
	for {
		got, err := l.Undo()
		if errors.Is(err, ErrNothingToUndo) {
			break
		}
		if err != nil {
			t.Fatalf("undo: %v", err)
		}
		snap = got
	}
	s.Restore(snap)
	if s.Len() != 2 {
		t.Fatalf("deepest undo state has %d strokes, want 2", s.Len())
	}
}

func TestNewEditDiscardsRedoBranch(t *testing.T) {
	s := engine.NewSession(image.NewRGBA(image.Rect(0, 0, 100, 100)))
	l := New(DefaultDepth)
	b1, a1 := commitStroke(t, s, image.Pt(0, 0), image.Pt(5, 5))
	l.Record(b1, a1)
	if _, err := l.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	b2, a2 := commitStroke(t, s, image.Pt(1, 1), image.Pt(6, 6))
	l.Record(b2, a2)
	if _, err := l.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("redo after new edit should be empty, got %v", err)
	}
}
