package model

import (
	"time"

	"github.com/google/uuid"
)

// StickyWindowState holds the last known geometry of a note's floating window.
// At most one row exists per note; it is removed together with the note.
type StickyWindowState struct {
	NoteID       uuid.UUID `json:"note_id"`
	X            float64   `json:"x"`
	Y            float64   `json:"y"`
	Width        float64   `json:"width"`
	Height       float64   `json:"height"`
	AlwaysOnTop  bool      `json:"always_on_top"`
	LastOpenedAt time.Time `json:"last_opened_at"`
}
