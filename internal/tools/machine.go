// Package tools turns the pointer/keyboard event stream into annotation
// model edits. One tool is active at a time and at most one gesture is in
// progress; the machine owns all transitions between them.
package tools

import (
	"errors"
	"image"
	"log"

	"github.com/example/scrann/internal/engine"
	"github.com/example/scrann/internal/history"
)

// Kind selects the active tool.
type Kind int

const (
	Pen Kind = iota
	Rect
	Ellipse
	Line
	Arrow
	Text
	Crop
)

func (k Kind) String() string {
	switch k {
	case Pen:
		return "pen"
	case Rect:
		return "rect"
	case Ellipse:
		return "ellipse"
	case Line:
		return "line"
	case Arrow:
		return "arrow"
	case Text:
		return "text"
	case Crop:
		return "crop"
	default:
		return "unknown"
	}
}

// State is the machine's position in the gesture lifecycle.
type State int

const (
	// Idle: no tool selected yet.
	Idle State = iota
	// Active: a tool is selected and waiting for a pointer-down.
	Active
	// Gesture: a pointer-down landed inside the canvas and a draft
	// annotation is in progress.
	Gesture
	// TextEntry: the text tool placed an anchor and is collecting runes
	// until Enter commits or Escape cancels.
	TextEntry
)

// minPenDistanceSq bounds stroke density: a pen move closer than this
// (squared distance, in canvas pixels) to the last recorded point is not
// appended, which also avoids degenerate zero-length segments.
const minPenDistanceSq = 4

// Machine drives a session and its history log from input events. It is
// single-threaded; calls must come from one goroutine.
type Machine struct {
	session *engine.Session
	log     *history.Log

	tool  Kind
	state State
	style engine.Style
	// textSize is the font size used by the text tool, in pixels.
	textSize float64
	lastPen  image.Point
}

// NewMachine wires a machine to the session and history log it mutates.
func NewMachine(s *engine.Session, l *history.Log, style engine.Style) *Machine {
	return &Machine{
		session:  s,
		log:      l,
		state:    Idle,
		style:    style,
		textSize: 16,
	}
}

// Tool returns the currently selected tool.
func (m *Machine) Tool() Kind { return m.tool }

// State returns the machine's current lifecycle state.
func (m *Machine) State() State { return m.state }

// Style returns the drawing style applied to new annotations.
func (m *Machine) Style() engine.Style { return m.style }

// SetStyle updates the style for subsequent gestures; the draft, if any,
// keeps its style.
func (m *Machine) SetStyle(st engine.Style) { m.style = st }

// SetTextSize sets the font size used by the text tool.
func (m *Machine) SetTextSize(size float64) {
	if size > 0 {
		m.textSize = size
	}
}

// SelectTool activates a tool. Switching while a gesture is in progress
// discards the draft first, so tool switches are always legal.
func (m *Machine) SelectTool(k Kind) {
	if m.state == Gesture || m.state == TextEntry {
		m.session.Discard()
	}
	m.tool = k
	m.state = Active
}

// Cancel aborts any in-progress gesture and returns to the active-tool
// state. Safe in every state.
func (m *Machine) Cancel() {
	if m.state == Gesture || m.state == TextEntry {
		m.session.Discard()
	}
	if m.state != Idle {
		m.state = Active
	}
}

// PointerDown starts a gesture when a tool is active and p is inside the
// canvas. Pointer input outside the canvas, or a second press while a
// gesture runs, is ignored.
func (m *Machine) PointerDown(p image.Point) {
	if m.state != Active && m.state != TextEntry {
		return
	}
	if !p.In(m.session.Bounds()) {
		return
	}
	if m.state == TextEntry {
		// Relocate the pending anchor instead of starting a new draft.
		if err := m.session.SetDraftAnchor(p); err != nil {
			log.Printf("tools: move anchor: %v", err)
		}
		return
	}
	var err error
	switch m.tool {
	case Pen:
		_, err = m.session.BeginStroke(p, m.style)
		m.lastPen = p
	case Rect:
		_, err = m.session.BeginShape(engine.ShapeRect, p, m.style)
	case Ellipse:
		_, err = m.session.BeginShape(engine.ShapeEllipse, p, m.style)
	case Line:
		_, err = m.session.BeginShape(engine.ShapeLine, p, m.style)
	case Arrow:
		_, err = m.session.BeginShape(engine.ShapeArrow, p, m.style)
	case Text:
		_, err = m.session.BeginText(p, m.textSize, m.style.Color)
	case Crop:
		_, err = m.session.BeginCrop(p)
	}
	if err != nil {
		// Model refused the edit; stay put rather than corrupt the session.
		log.Printf("tools: begin %s: %v", m.tool, err)
		return
	}
	m.state = Gesture
}

// PointerMove extends the running gesture. Pen moves below the minimum
// distance threshold are dropped; all other tools track the pointer
// directly. Ignored outside a gesture.
func (m *Machine) PointerMove(p image.Point) {
	if m.state != Gesture {
		return
	}
	if m.tool == Pen {
		d := p.Sub(m.lastPen)
		if d.X*d.X+d.Y*d.Y < minPenDistanceSq {
			return
		}
		m.lastPen = p
	}
	if err := m.session.Extend(p); err != nil {
		log.Printf("tools: extend: %v", err)
	}
}

// PointerUp ends the gesture. Degenerate results (a single-point stroke, a
// zero-size shape or crop) are discarded instead of committed; everything
// else is committed atomically and recorded in the history log. The text
// tool transitions to rune entry instead of committing.
func (m *Machine) PointerUp(p image.Point) {
	if m.state != Gesture {
		return
	}
	m.PointerMove(p)
	if m.tool == Text {
		m.state = TextEntry
		return
	}
	if degenerate(m.session.Draft()) {
		m.session.Discard()
		m.state = Active
		return
	}
	m.commitDraft()
	m.state = Active
}

// AppendText adds runes to the pending text annotation.
func (m *Machine) AppendText(text string) {
	if m.state != TextEntry {
		return
	}
	if t, ok := m.session.Draft().(*engine.TextBlock); ok {
		if err := m.session.SetDraftText(t.Text + text); err != nil {
			log.Printf("tools: append text: %v", err)
		}
	}
}

// BackspaceText removes the last rune of the pending text annotation.
func (m *Machine) BackspaceText() {
	if m.state != TextEntry {
		return
	}
	if t, ok := m.session.Draft().(*engine.TextBlock); ok && len(t.Text) > 0 {
		runes := []rune(t.Text)
		if err := m.session.SetDraftText(string(runes[:len(runes)-1])); err != nil {
			log.Printf("tools: backspace: %v", err)
		}
	}
}

// FinishText commits the pending text annotation. Empty text is discarded.
func (m *Machine) FinishText() {
	if m.state != TextEntry {
		return
	}
	if degenerate(m.session.Draft()) {
		m.session.Discard()
		m.state = Active
		return
	}
	m.commitDraft()
	m.state = Active
}

func (m *Machine) commitDraft() {
	before := m.session.Snapshot()
	if _, err := m.session.Commit(); err != nil {
		log.Printf("tools: commit: %v", err)
		return
	}
	m.log.Record(before, m.session.Snapshot())
}

// Undo restores the annotation set to its state before the last committed
// edit. An empty undo stack is a no-op and reports false.
func (m *Machine) Undo() bool {
	snap, err := m.log.Undo()
	if err != nil {
		if !errors.Is(err, history.ErrNothingToUndo) {
			log.Printf("tools: undo: %v", err)
		}
		return false
	}
	m.session.Restore(snap)
	return true
}

// Redo reapplies the most recently undone edit, if any.
func (m *Machine) Redo() bool {
	snap, err := m.log.Redo()
	if err != nil {
		if !errors.Is(err, history.ErrNothingToRedo) {
			log.Printf("tools: redo: %v", err)
		}
		return false
	}
	m.session.Restore(snap)
	return true
}

// degenerate reports whether a draft produced no drawable content and
// should be discarded instead of committed.
func degenerate(a engine.Annotation) bool {
	switch d := a.(type) {
	case nil:
		return true
	case *engine.Stroke:
		return len(d.Points) < 2
	case *engine.Shape:
		return d.Start == d.End
	case *engine.TextBlock:
		return d.Text == ""
	case *engine.CropRegion:
		return d.Rect.Canon().Empty()
	default:
		return true
	}
}
