package model

import (
	"time"

	"github.com/google/uuid"
)

// Group is a node in the note hierarchy. ParentID is nil for root groups; a
// parent that no longer resolves to an active group is treated as absent when
// the tree is assembled.
type Group struct {
	ID        uuid.UUID  `json:"id"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Name      string     `json:"name"`
	SortOrder int        `json:"sort_order"`
	Deleted   bool       `json:"deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// GroupNode is a Group with its resolved children, as returned by the tree query.
type GroupNode struct {
	Group
	Children []*GroupNode `json:"children"`
}
