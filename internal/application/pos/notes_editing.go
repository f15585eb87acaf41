package pos

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/notes"
	"github.com/pos/backend/internal/domain/shared"
)

// OpenNotes starts the notes editor for a cart line, seeding the buffer
// from the line's committed notes. At most one editor is open per session;
// opening another line discards the previous buffer without committing it.
// Tags for the line's subcategory are fetched on first use and cached for
// the session's lifetime.
func (s *CartService) OpenNotes(ctx context.Context, sessionID, lineID uuid.UUID) (*notes.EditorSession, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	line, ok := session.Cart.Line(lineID)
	if !ok {
		return nil, shared.ErrNotFound
	}

	available, err := s.tagsForLine(ctx, session, line.SubcategoryID)
	if err != nil {
		return nil, err
	}

	session.editor = notes.OpenEditor(lineID, line.Notes, available)
	s.logger.Debug("Notes editor opened",
		zap.String("session_id", sessionID.String()),
		zap.String("line_id", lineID.String()),
		zap.Int("available_tags", len(available)))
	return session.editor, nil
}

// NotesEditor returns the session's open editor
func (s *CartService) NotesEditor(sessionID uuid.UUID) (*notes.EditorSession, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return s.currentEditor(session)
}

// NotesEditorView renders the open editor's API view under the session lock
func (s *CartService) NotesEditorView(sessionID uuid.UUID) (NotesEditorResponse, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return NotesEditorResponse{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	editor, err := s.currentEditor(session)
	if err != nil {
		return NotesEditorResponse{}, err
	}
	return ToNotesEditorResponse(editor), nil
}

// ToggleTag flips a predefined tag in the open editor's buffer
func (s *CartService) ToggleTag(sessionID, tagID uuid.UUID) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	editor, err := s.currentEditor(session)
	if err != nil {
		return err
	}
	return editor.Toggle(tagID)
}

// EditNotesText replaces the open editor's buffer from raw user input
func (s *CartService) EditNotesText(sessionID uuid.UUID, raw string) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	editor, err := s.currentEditor(session)
	if err != nil {
		return err
	}
	return editor.SetText(raw)
}

// CommitNotes closes the editor and stores the merged text on the line
func (s *CartService) CommitNotes(sessionID uuid.UUID) (string, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return "", err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.editor == nil {
		return "", shared.ErrInvalidState
	}

	merged, err := session.editor.Commit()
	if err != nil {
		return "", err
	}
	if err := session.Cart.SetNotes(session.editor.LineID(), merged); err != nil {
		return "", err
	}
	session.editor = nil
	return merged, nil
}

// CancelNotes closes the editor discarding its buffer
func (s *CartService) CancelNotes(sessionID uuid.UUID) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.editor == nil {
		return shared.ErrInvalidState
	}
	if err := session.editor.Cancel(); err != nil {
		return err
	}
	session.editor = nil
	return nil
}

// currentEditor returns the open editor; the session lock must be held
func (s *CartService) currentEditor(session *Session) (*notes.EditorSession, error) {
	if session.editor == nil || !session.editor.IsOpen() {
		return nil, shared.ErrInvalidState
	}
	return session.editor, nil
}

// tagsForLine returns the active tags for a line's subcategory, consulting
// the session cache first. Lines without a subcategory have no tags.
// The session lock must be held.
func (s *CartService) tagsForLine(ctx context.Context, session *Session, subcategoryID *uuid.UUID) ([]catalog.Observation, error) {
	if subcategoryID == nil {
		return nil, nil
	}
	if cached, ok := session.tagCache[*subcategoryID]; ok {
		return cached, nil
	}

	tags, err := s.tagSource.TagsForSubcategory(ctx, *subcategoryID)
	if err != nil {
		return nil, err
	}
	active := catalog.ActiveObservations(tags)
	session.tagCache[*subcategoryID] = active
	return active, nil
}
