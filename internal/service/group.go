package service

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/memoboard/internal/hierarchy"
	"github.com/dukerupert/memoboard/internal/model"
	"github.com/dukerupert/memoboard/internal/store"
)

const (
	// InboxName is the reserved root group that always resolves; orphaned and
	// newly created notes fall back to it.
	InboxName = "Inbox"

	defaultGroupName = "New Group"
)

// GroupService owns group creation, rename, cascading soft-delete, tree
// assembly, and the Inbox group.
type GroupService struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewGroupService(db *sql.DB, logger *slog.Logger) *GroupService {
	return &GroupService{db: db, logger: logger}
}

// Create adds a group under parentID (nil for root). The new group's sort
// order is the count of its active siblings; a blank name gets a placeholder.
func (s *GroupService) Create(parentID *uuid.UUID, name string) (*model.Group, error) {
	var created *model.Group
	err := store.WithTx(s.db, func(tx *sql.Tx) error {
		groups := store.NewGroupStore(tx)

		if parentID != nil {
			parent, err := groups.GetActive(*parentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return fmt.Errorf("parent group %s: %w", *parentID, ErrNotFound)
			}
		}

		siblings, err := groups.CountActiveSiblings(parentID)
		if err != nil {
			return err
		}

		name = strings.TrimSpace(name)
		if name == "" {
			name = defaultGroupName
		}

		now := time.Now().UTC()
		g := &model.Group{
			ID:        uuid.New(),
			ParentID:  parentID,
			Name:      name,
			SortOrder: siblings,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := groups.Insert(g); err != nil {
			return err
		}
		created = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("group created", "id", created.ID, "name", created.Name)
	return created, nil
}

// Rename changes the group's name. A blank name leaves the existing name
// unchanged rather than failing.
func (s *GroupService) Rename(id uuid.UUID, name string) (*model.Group, error) {
	var renamed *model.Group
	err := store.WithTx(s.db, func(tx *sql.Tx) error {
		groups := store.NewGroupStore(tx)

		g, err := groups.GetActive(id)
		if err != nil {
			return err
		}
		if g == nil {
			return fmt.Errorf("group %s: %w", id, ErrNotFound)
		}

		name = strings.TrimSpace(name)
		if name == "" {
			name = g.Name
		}

		now := time.Now().UTC()
		if err := groups.UpdateName(id, name, now); err != nil {
			return err
		}
		g.Name = name
		g.UpdatedAt = now
		renamed = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renamed, nil
}

// SoftDelete trashes the group, every active descendant group, and every
// active note inside that subtree, all stamped with one timestamp. Missing or
// already-deleted groups are a no-op.
func (s *GroupService) SoftDelete(id uuid.UUID) error {
	return store.WithTx(s.db, func(tx *sql.Tx) error {
		groups := store.NewGroupStore(tx)
		notes := store.NewNoteStore(tx)

		root, err := groups.GetActive(id)
		if err != nil {
			return err
		}
		if root == nil {
			return nil
		}

		active, err := groups.ListActive()
		if err != nil {
			return err
		}
		set := hierarchy.CollectDescendantIDs(store.Edges(active), id)
		ids := make([]uuid.UUID, 0, len(set))
		for gid := range set {
			ids = append(ids, gid)
		}

		now := time.Now().UTC()
		if err := groups.MarkDeleted(ids, now); err != nil {
			return err
		}
		if err := notes.MarkDeletedByGroups(ids, now); err != nil {
			return err
		}

		s.logger.Info("group trashed", "id", id, "subtree_size", len(ids))
		return nil
	})
}

// Tree loads all active groups and assembles the forest. A group whose parent
// is missing or inactive becomes a root.
func (s *GroupService) Tree() ([]*model.GroupNode, error) {
	groups, err := store.NewGroupStore(s.db).ListActive()
	if err != nil {
		return nil, err
	}

	nodes := make(map[uuid.UUID]*model.GroupNode, len(groups))
	for i := range groups {
		nodes[groups[i].ID] = &model.GroupNode{Group: groups[i]}
	}

	var roots []*model.GroupNode
	for i := range groups {
		g := &groups[i]
		if g.ParentID != nil {
			if parent, ok := nodes[*g.ParentID]; ok {
				parent.Children = append(parent.Children, nodes[g.ID])
				continue
			}
		}
		roots = append(roots, nodes[g.ID])
	}
	return roots, nil
}

// GetOrCreateInboxID resolves the Inbox group, creating it as a root with
// sort order 0 when absent. It never fails to resolve on a healthy store.
func (s *GroupService) GetOrCreateInboxID() (uuid.UUID, error) {
	var id uuid.UUID
	err := store.WithTx(s.db, func(tx *sql.Tx) error {
		var err error
		id, err = s.resolveInbox(tx)
		return err
	})
	return id, err
}

// resolveInbox finds or creates the Inbox within the caller's transaction.
// Code already inside a transaction must use this instead of
// GetOrCreateInboxID, which opens its own and would block on the
// single-connection pool.
func (s *GroupService) resolveInbox(tx *sql.Tx) (uuid.UUID, error) {
	groups := store.NewGroupStore(tx)

	inbox, err := groups.FindActiveByName(InboxName)
	if err != nil {
		return uuid.Nil, err
	}
	if inbox != nil {
		return inbox.ID, nil
	}

	now := time.Now().UTC()
	g := &model.Group{
		ID:        uuid.New(),
		Name:      InboxName,
		SortOrder: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := groups.Insert(g); err != nil {
		return uuid.Nil, err
	}
	s.logger.Info("inbox group created", "id", g.ID)
	return g.ID, nil
}

// FindInboxID returns the active Inbox group's id, or nil when none exists.
func (s *GroupService) FindInboxID() (*uuid.UUID, error) {
	inbox, err := store.NewGroupStore(s.db).FindActiveByName(InboxName)
	if err != nil || inbox == nil {
		return nil, err
	}
	return &inbox.ID, nil
}
