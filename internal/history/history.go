// Package history keeps a bounded linear undo/redo log of annotation-set
// snapshots. The log never touches the session itself; callers apply the
// returned snapshot with Session.Restore.
package history

import (
	"errors"

	"github.com/example/scrann/internal/engine"
)

// DefaultDepth is the undo depth used when configuration does not set one.
const DefaultDepth = 50

// ErrNothingToUndo and ErrNothingToRedo report benign no-ops on empty
// stacks. They are not failures; callers typically just ignore them.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Entry pairs the annotation set before and after one committed edit.
type Entry struct {
	Before []engine.Annotation
	After  []engine.Annotation
}

// Log is the bounded undo/redo stack pair. The zero value is not usable;
// construct with New.
type Log struct {
	depth int
	undo  []Entry
	redo  []Entry
}

// New returns a log keeping at most depth undoable entries. Non-positive
// depths fall back to DefaultDepth.
func New(depth int) *Log {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Log{depth: depth}
}

// Record pushes one committed edit. Any redoable entries are discarded:
// a new edit always starts a fresh branch. When the undo stack exceeds the
// configured depth the oldest entry is evicted.
func (l *Log) Record(before, after []engine.Annotation) {
	l.redo = l.redo[:0]
	l.undo = append(l.undo, Entry{Before: before, After: after})
	if len(l.undo) > l.depth {
		// FIFO eviction; shift rather than reslice so the backing array
		// does not pin evicted snapshots.
		copy(l.undo, l.undo[1:])
		l.undo = l.undo[:l.depth]
	}
}

// Undo pops the most recent entry and returns the annotation set as it was
// before that edit. Returns ErrNothingToUndo on an empty stack.
func (l *Log) Undo() ([]engine.Annotation, error) {
	if len(l.undo) == 0 {
		return nil, ErrNothingToUndo
	}
	e := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, e)
	return e.Before, nil
}

// Redo reverses the most recent Undo. Returns ErrNothingToRedo when no
// undone entry is pending.
func (l *Log) Redo() ([]engine.Annotation, error) {
	if len(l.redo) == 0 {
		return nil, ErrNothingToRedo
	}
	e := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, e)
	return e.After, nil
}

// UndoDepth reports how many edits can currently be undone.
func (l *Log) UndoDepth() int { return len(l.undo) }

// RedoDepth reports how many undone edits can be reapplied.
func (l *Log) RedoDepth() int { return len(l.redo) }
