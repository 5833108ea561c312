package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/memoboard/internal/hierarchy"
	"github.com/dukerupert/memoboard/internal/model"
)

type GroupStore struct {
	db DBTX
}

func NewGroupStore(db DBTX) *GroupStore {
	return &GroupStore{db: db}
}

const groupCols = `id, parent_id, name, sort_order, deleted, deleted_at, created_at, updated_at`

func scanGroup(scanner interface{ Scan(...any) error }) (*model.Group, error) {
	var g model.Group
	var id string
	var parentID sql.NullString
	var deleted int
	var deletedAt sql.NullTime

	err := scanner.Scan(&id, &parentID, &g.Name, &g.SortOrder, &deleted, &deletedAt, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}

	g.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse group id: %w", err)
	}
	if parentID.Valid {
		pid, err := uuid.Parse(parentID.String)
		if err != nil {
			return nil, fmt.Errorf("parse parent id: %w", err)
		}
		g.ParentID = &pid
	}
	g.Deleted = deleted != 0
	if deletedAt.Valid {
		t := deletedAt.Time
		g.DeletedAt = &t
	}
	return &g, nil
}

func (s *GroupStore) Insert(g *model.Group) error {
	var parentID any
	if g.ParentID != nil {
		parentID = g.ParentID.String()
	}
	_, err := s.db.Exec(
		`INSERT INTO groups (id, parent_id, name, sort_order, deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, ?, ?)`,
		g.ID.String(), parentID, g.Name, g.SortOrder, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

// Get returns the group regardless of its deleted flag, or nil when absent.
func (s *GroupStore) Get(id uuid.UUID) (*model.Group, error) {
	row := s.db.QueryRow(`SELECT `+groupCols+` FROM groups WHERE id = ?`, id.String())
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

// GetActive returns the group only if it exists and is not soft-deleted.
func (s *GroupStore) GetActive(id uuid.UUID) (*model.Group, error) {
	row := s.db.QueryRow(`SELECT `+groupCols+` FROM groups WHERE id = ? AND deleted = 0`, id.String())
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active group: %w", err)
	}
	return g, nil
}

func (s *GroupStore) list(query string, args ...any) ([]model.Group, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

// ListActive returns active groups ordered by sort order, then name.
func (s *GroupStore) ListActive() ([]model.Group, error) {
	return s.list(`SELECT ` + groupCols + ` FROM groups WHERE deleted = 0 ORDER BY sort_order, name`)
}

// ListAll returns every group row, deleted or not.
func (s *GroupStore) ListAll() ([]model.Group, error) {
	return s.list(`SELECT ` + groupCols + ` FROM groups`)
}

// ListDeleted returns soft-deleted groups.
func (s *GroupStore) ListDeleted() ([]model.Group, error) {
	return s.list(`SELECT ` + groupCols + ` FROM groups WHERE deleted = 1`)
}

// Edges returns the (id, parent) pairs for the given rows.
func Edges(groups []model.Group) []hierarchy.Edge {
	edges := make([]hierarchy.Edge, len(groups))
	for i, g := range groups {
		edges[i] = hierarchy.Edge{ID: g.ID, ParentID: g.ParentID}
	}
	return edges
}

// CountActiveSiblings counts active groups sharing the given parent.
func (s *GroupStore) CountActiveSiblings(parentID *uuid.UUID) (int, error) {
	var count int
	var err error
	if parentID == nil {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM groups WHERE parent_id IS NULL AND deleted = 0`).Scan(&count)
	} else {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM groups WHERE parent_id = ? AND deleted = 0`, parentID.String()).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count siblings: %w", err)
	}
	return count, nil
}

// FindActiveByName returns the first active group with the given name, or nil.
func (s *GroupStore) FindActiveByName(name string) (*model.Group, error) {
	row := s.db.QueryRow(`SELECT `+groupCols+` FROM groups WHERE deleted = 0 AND name = ? LIMIT 1`, name)
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find group by name: %w", err)
	}
	return g, nil
}

func (s *GroupStore) UpdateName(id uuid.UUID, name string, now time.Time) error {
	_, err := s.db.Exec(`UPDATE groups SET name = ?, updated_at = ? WHERE id = ?`, name, now, id.String())
	if err != nil {
		return fmt.Errorf("rename group: %w", err)
	}
	return nil
}

// MarkDeleted soft-deletes every listed group with one shared timestamp.
func (s *GroupStore) MarkDeleted(ids []uuid.UUID, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders, args := idList(ids)
	args = append([]any{now, now}, args...)
	_, err := s.db.Exec(
		`UPDATE groups SET deleted = 1, deleted_at = ?, updated_at = ? WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("soft delete groups: %w", err)
	}
	return nil
}

// Restore clears the deleted flag, optionally promoting the group to root.
func (s *GroupStore) Restore(id uuid.UUID, clearParent bool, now time.Time) error {
	query := `UPDATE groups SET deleted = 0, deleted_at = NULL, updated_at = ? WHERE id = ?`
	if clearParent {
		query = `UPDATE groups SET deleted = 0, deleted_at = NULL, parent_id = NULL, updated_at = ? WHERE id = ?`
	}
	if _, err := s.db.Exec(query, now, id.String()); err != nil {
		return fmt.Errorf("restore group: %w", err)
	}
	return nil
}

// DeleteByIDs physically removes the listed group rows in one statement.
func (s *GroupStore) DeleteByIDs(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders, args := idList(ids)
	if _, err := s.db.Exec(`DELETE FROM groups WHERE id IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("delete groups: %w", err)
	}
	return nil
}
