package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/memoboard/internal/model"
	"github.com/dukerupert/memoboard/internal/store"
)

// StickyService persists per-note floating window geometry on behalf of the
// presentation shell.
type StickyService struct {
	db *sql.DB
}

func NewStickyService(db *sql.DB) *StickyService {
	return &StickyService{db: db}
}

// Save upserts the window state for an active note.
func (s *StickyService) Save(state model.StickyWindowState) error {
	return store.WithTx(s.db, func(tx *sql.Tx) error {
		n, err := store.NewNoteStore(tx).GetActive(state.NoteID)
		if err != nil {
			return err
		}
		if n == nil {
			return fmt.Errorf("note %s: %w", state.NoteID, ErrNotFound)
		}

		if state.LastOpenedAt.IsZero() {
			state.LastOpenedAt = time.Now().UTC()
		}
		return store.NewStickyStore(tx).Upsert(&state)
	})
}

// Get returns the saved window state, or nil when the note has none.
func (s *StickyService) Get(noteID uuid.UUID) (*model.StickyWindowState, error) {
	return store.NewStickyStore(s.db).Get(noteID)
}
