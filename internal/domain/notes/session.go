package notes

import (
	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
)

// SessionStatus tracks the per-line notes editor lifecycle
type SessionStatus string

const (
	SessionOpen      SessionStatus = "OPEN"
	SessionCommitted SessionStatus = "COMMITTED"
	SessionCancelled SessionStatus = "CANCELLED"
)

// EditorSession is the transient editing buffer for one cart line's notes.
// Opening seeds the buffer from the line's committed notes string exactly
// once; edits accumulate in the buffer and reach the line only on Commit.
// The session exclusively owns the buffer until then.
type EditorSession struct {
	lineID    uuid.UUID
	available []catalog.Observation
	initial   State
	current   State
	status    SessionStatus
}

// OpenEditor starts an editing session for a line, re-deriving the
// structured state from the committed notes string against the tags
// available for the line's subcategory.
func OpenEditor(lineID uuid.UUID, committedNotes string, available []catalog.Observation) *EditorSession {
	seeded := Reparse(committedNotes, available)
	return &EditorSession{
		lineID:    lineID,
		available: available,
		initial:   seeded.clone(),
		current:   seeded,
		status:    SessionOpen,
	}
}

// LineID returns the line this session edits
func (e *EditorSession) LineID() uuid.UUID {
	return e.lineID
}

// Status returns the session status
func (e *EditorSession) Status() SessionStatus {
	return e.status
}

// IsOpen reports whether the session still accepts edits
func (e *EditorSession) IsOpen() bool {
	return e.status == SessionOpen
}

// AvailableTags returns the tags offered for this line
func (e *EditorSession) AvailableTags() []catalog.Observation {
	return e.available
}

// State returns a copy of the current buffer
func (e *EditorSession) State() State {
	return e.current.clone()
}

// MergedText renders the buffer as the single display string
func (e *EditorSession) MergedText() string {
	return e.current.Merged(e.available)
}

// Toggle flips a tag's membership in the buffer. The tag must be one of
// the session's available tags.
func (e *EditorSession) Toggle(tagID uuid.UUID) error {
	if !e.IsOpen() {
		return shared.ErrInvalidState
	}
	if _, ok := e.tagByID(tagID); !ok {
		return shared.ErrInvalidInput
	}
	e.current.Toggle(tagID)
	return nil
}

// SetText replaces the buffer from a raw string the user typed directly
// into the merged field, re-inferring tag membership by exact text match
func (e *EditorSession) SetText(raw string) error {
	if !e.IsOpen() {
		return shared.ErrInvalidState
	}
	e.current = Reparse(raw, e.available)
	return nil
}

// Commit closes the session and returns the merged text to store as the
// line's notes value
func (e *EditorSession) Commit() (string, error) {
	if !e.IsOpen() {
		return "", shared.ErrInvalidState
	}
	e.status = SessionCommitted
	return e.current.Merged(e.available), nil
}

// Cancel closes the session discarding the buffer; the line's committed
// notes are untouched
func (e *EditorSession) Cancel() error {
	if !e.IsOpen() {
		return shared.ErrInvalidState
	}
	e.current = e.initial.clone()
	e.status = SessionCancelled
	return nil
}

func (e *EditorSession) tagByID(tagID uuid.UUID) (catalog.Observation, bool) {
	for _, tag := range e.available {
		if tag.ID == tagID {
			return tag, true
		}
	}
	return catalog.Observation{}, false
}
