package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dukerupert/memoboard/internal/model"
)

type StickyStore struct {
	db DBTX
}

func NewStickyStore(db DBTX) *StickyStore {
	return &StickyStore{db: db}
}

// Upsert saves the window geometry for a note, replacing any previous row.
func (s *StickyStore) Upsert(state *model.StickyWindowState) error {
	_, err := s.db.Exec(
		`INSERT INTO sticky_window_states (note_id, x, y, width, height, always_on_top, last_opened_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(note_id) DO UPDATE SET
		   x = excluded.x, y = excluded.y, width = excluded.width, height = excluded.height,
		   always_on_top = excluded.always_on_top, last_opened_at = excluded.last_opened_at`,
		state.NoteID.String(), state.X, state.Y, state.Width, state.Height,
		boolArg(state.AlwaysOnTop), state.LastOpenedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert sticky state: %w", err)
	}
	return nil
}

// Get returns the saved window state for a note, or nil when none exists.
func (s *StickyStore) Get(noteID uuid.UUID) (*model.StickyWindowState, error) {
	var state model.StickyWindowState
	var id string
	var alwaysOnTop int
	err := s.db.QueryRow(
		`SELECT note_id, x, y, width, height, always_on_top, last_opened_at
		 FROM sticky_window_states WHERE note_id = ?`, noteID.String(),
	).Scan(&id, &state.X, &state.Y, &state.Width, &state.Height, &alwaysOnTop, &state.LastOpenedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sticky state: %w", err)
	}
	state.NoteID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse sticky note id: %w", err)
	}
	state.AlwaysOnTop = alwaysOnTop != 0
	return &state, nil
}

// DeleteByNoteIDs removes the states for the listed notes. Called ahead of
// physical note removal so the note reference never dangles.
func (s *StickyStore) DeleteByNoteIDs(noteIDs []uuid.UUID) error {
	if len(noteIDs) == 0 {
		return nil
	}
	placeholders, args := idList(noteIDs)
	if _, err := s.db.Exec(`DELETE FROM sticky_window_states WHERE note_id IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("delete sticky states: %w", err)
	}
	return nil
}
