package model

import (
	"time"

	"github.com/google/uuid"
)

// TrashKind distinguishes the two record kinds that can sit in the trash.
type TrashKind string

const (
	TrashGroup TrashKind = "group"
	TrashNote  TrashKind = "note"
)

// TrashItem is a projection over soft-deleted groups and notes, used only to
// present the merged trash feed. It is derived, never stored.
type TrashItem struct {
	ID        uuid.UUID `json:"id"`
	Kind      TrashKind `json:"kind"`
	Name      string    `json:"name"`
	DeletedAt time.Time `json:"deleted_at"`
}
