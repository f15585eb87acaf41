// Package notes keeps a cart line's displayed notes string consistent with
// an underlying pair of selected predefined tags and free manual text, in
// both directions. The merged form joins tag texts and the manual text with
// ", "; re-parsing a merged string classifies each comma-separated fragment
// back into a tag (on exact text match) or manual text.
//
// The re-parse is lossy by construction: a manual fragment whose text equals
// a predefined tag's text is reclassified as that tag. This mirrors the
// observed behavior and is a documented limitation, not a defect.
package notes

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/catalog"
)

// Separator joins tag texts and manual text in the merged display string
const Separator = ", "

// State is the structured form of a line's notes: the set of selected tag
// ids plus arbitrary manual text
type State struct {
	SelectedTagIDs []uuid.UUID
	ManualText     string
}

// IsTagSelected reports whether a tag id is in the selected set
func (s State) IsTagSelected(tagID uuid.UUID) bool {
	for _, id := range s.SelectedTagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// Toggle adds the tag id if absent and removes it if present.
// Manual text is never altered by a toggle.
func (s *State) Toggle(tagID uuid.UUID) {
	for idx, id := range s.SelectedTagIDs {
		if id == tagID {
			s.SelectedTagIDs = append(s.SelectedTagIDs[:idx], s.SelectedTagIDs[idx+1:]...)
			return
		}
	}
	s.SelectedTagIDs = append(s.SelectedTagIDs, tagID)
}

// clone returns an independent copy of the state
func (s State) clone() State {
	ids := make([]uuid.UUID, len(s.SelectedTagIDs))
	copy(ids, s.SelectedTagIDs)
	return State{SelectedTagIDs: ids, ManualText: s.ManualText}
}

// MergedText renders the single display string for a selection and manual
// text: selected tag texts in available-tag order, then the manual text if
// non-empty, joined with ", ". Ids not present in available are dropped.
// Pure and deterministic for a given tag ordering.
func MergedText(selectedTagIDs []uuid.UUID, manualText string, available []catalog.Observation) string {
	selected := State{SelectedTagIDs: selectedTagIDs}

	parts := make([]string, 0, len(available)+1)
	for _, tag := range available {
		if selected.IsTagSelected(tag.ID) {
			parts = append(parts, tag.Text)
		}
	}
	if manualText != "" {
		parts = append(parts, manualText)
	}
	return strings.Join(parts, Separator)
}

// Merged renders the display string for a full state
func (s State) Merged(available []catalog.Observation) string {
	return MergedText(s.SelectedTagIDs, s.ManualText, available)
}

// Reparse recovers a State from a raw merged string, as typed directly by
// the user or loaded from a previously committed line. The string is split
// on ",", each fragment trimmed and empty fragments dropped; a fragment
// exactly matching an available tag's text becomes that tag's id, every
// other fragment is kept as manual text (rejoined with ", ").
func Reparse(raw string, available []catalog.Observation) State {
	state := State{SelectedTagIDs: make([]uuid.UUID, 0)}

	var manualFragments []string
	for _, fragment := range strings.Split(raw, ",") {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		if id, ok := tagIDByText(available, fragment); ok {
			if !state.IsTagSelected(id) {
				state.SelectedTagIDs = append(state.SelectedTagIDs, id)
			}
			continue
		}
		manualFragments = append(manualFragments, fragment)
	}

	state.ManualText = strings.Join(manualFragments, Separator)
	return state
}

func tagIDByText(available []catalog.Observation, text string) (uuid.UUID, bool) {
	for _, tag := range available {
		if tag.Text == text {
			return tag.ID, true
		}
	}
	return uuid.Nil, false
}
