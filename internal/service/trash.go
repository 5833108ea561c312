package service

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/memoboard/internal/hierarchy"
	"github.com/dukerupert/memoboard/internal/model"
	"github.com/dukerupert/memoboard/internal/store"
)

// RetentionWindow is how long trashed items survive before the periodic purge
// removes them for good.
const RetentionWindow = 90 * 24 * time.Hour

// TrashService unifies soft-deleted groups and notes into one feed and owns
// restore, permanent delete, and the retention purge.
type TrashService struct {
	db     *sql.DB
	groups *GroupService
	logger *slog.Logger
}

func NewTrashService(db *sql.DB, groups *GroupService, logger *slog.Logger) *TrashService {
	return &TrashService{db: db, groups: groups, logger: logger}
}

// Items merges deleted groups and notes, most recently trashed first.
func (s *TrashService) Items() ([]model.TrashItem, error) {
	groups, err := store.NewGroupStore(s.db).ListDeleted()
	if err != nil {
		return nil, err
	}
	notes, err := store.NewNoteStore(s.db).ListDeleted()
	if err != nil {
		return nil, err
	}

	items := make([]model.TrashItem, 0, len(groups)+len(notes))
	for _, g := range groups {
		item := model.TrashItem{ID: g.ID, Kind: model.TrashGroup, Name: g.Name}
		if g.DeletedAt != nil {
			item.DeletedAt = *g.DeletedAt
		}
		items = append(items, item)
	}
	for _, n := range notes {
		item := model.TrashItem{ID: n.ID, Kind: model.TrashNote, Name: n.Title}
		if n.DeletedAt != nil {
			item.DeletedAt = *n.DeletedAt
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DeletedAt.After(items[j].DeletedAt)
	})
	return items, nil
}

// RestoreNote untrashes the note. If its group is gone or itself trashed, the
// note is retargeted at the Inbox. Missing or non-deleted notes are a no-op.
func (s *TrashService) RestoreNote(id uuid.UUID) error {
	return store.WithTx(s.db, func(tx *sql.Tx) error {
		notes := store.NewNoteStore(tx)
		groups := store.NewGroupStore(tx)

		n, err := notes.Get(id)
		if err != nil {
			return err
		}
		if n == nil || !n.Deleted {
			return nil
		}

		var newGroupID *uuid.UUID
		target, err := groups.GetActive(n.GroupID)
		if err != nil {
			return err
		}
		if target == nil {
			inboxID, err := s.groups.resolveInbox(tx)
			if err != nil {
				return err
			}
			newGroupID = &inboxID
		}

		return notes.Restore(id, newGroupID, time.Now().UTC())
	})
}

// RestoreGroup untrashes only the named group; descendants stay in the trash.
// A group whose parent is missing or deleted is promoted to root rather than
// left dangling.
func (s *TrashService) RestoreGroup(id uuid.UUID) error {
	return store.WithTx(s.db, func(tx *sql.Tx) error {
		groups := store.NewGroupStore(tx)

		g, err := groups.Get(id)
		if err != nil {
			return err
		}
		if g == nil || !g.Deleted {
			return nil
		}

		clearParent := false
		if g.ParentID != nil {
			parent, err := groups.GetActive(*g.ParentID)
			if err != nil {
				return err
			}
			clearParent = parent == nil
		}

		return groups.Restore(id, clearParent, time.Now().UTC())
	})
}

// DeletePermanently physically removes a trashed item. For a group it removes
// the whole trashed subtree, but refuses with ErrConflict while any group or
// note in that subtree is still active.
func (s *TrashService) DeletePermanently(id uuid.UUID, kind model.TrashKind) error {
	switch kind {
	case model.TrashNote:
		return s.deleteNotePermanently(id)
	case model.TrashGroup:
		return s.deleteGroupPermanently(id)
	default:
		return fmt.Errorf("trash kind %q: %w", kind, ErrInvalidKind)
	}
}

func (s *TrashService) deleteNotePermanently(id uuid.UUID) error {
	return store.WithTx(s.db, func(tx *sql.Tx) error {
		notes := store.NewNoteStore(tx)
		sticky := store.NewStickyStore(tx)

		n, err := notes.Get(id)
		if err != nil {
			return err
		}
		if n == nil || !n.Deleted {
			return nil
		}

		if err := sticky.DeleteByNoteIDs([]uuid.UUID{id}); err != nil {
			return err
		}
		return notes.DeleteByIDs([]uuid.UUID{id})
	})
}

func (s *TrashService) deleteGroupPermanently(id uuid.UUID) error {
	return store.WithTx(s.db, func(tx *sql.Tx) error {
		groups := store.NewGroupStore(tx)
		notes := store.NewNoteStore(tx)

		root, err := groups.Get(id)
		if err != nil {
			return err
		}
		if root == nil || !root.Deleted {
			return nil
		}

		all, err := groups.ListAll()
		if err != nil {
			return err
		}
		edges := store.Edges(all)
		set := hierarchy.CollectDescendantIDs(edges, id)
		ids := make([]uuid.UUID, 0, len(set))
		for gid := range set {
			ids = append(ids, gid)
		}

		for _, g := range all {
			if _, in := set[g.ID]; in && !g.Deleted {
				return fmt.Errorf("group %s: %w", id, ErrConflict)
			}
		}
		activeNotes, err := notes.AnyActiveInGroups(ids)
		if err != nil {
			return err
		}
		if activeNotes {
			return fmt.Errorf("group %s: %w", id, ErrConflict)
		}

		trashedNotes, err := notes.ListDeletedByGroups(ids)
		if err != nil {
			return err
		}
		if err := s.removeNotes(tx, trashedNotes); err != nil {
			return err
		}

		for _, layer := range hierarchy.RemovalLayers(edges, set) {
			if err := groups.DeleteByIDs(layer); err != nil {
				return err
			}
		}

		s.logger.Info("trash subtree removed", "root", id, "groups", len(ids), "notes", len(trashedNotes))
		return nil
	})
}

// PurgeExpired removes every trashed item whose deleted-at is at or beyond the
// retention window, independently of subtree activity.
func (s *TrashService) PurgeExpired() error {
	threshold := time.Now().UTC().Add(-RetentionWindow)
	return s.purge(&threshold)
}

// EmptyTrash removes every trashed item regardless of age.
func (s *TrashService) EmptyTrash() error {
	return s.purge(nil)
}

func (s *TrashService) purge(threshold *time.Time) error {
	return store.WithTx(s.db, func(tx *sql.Tx) error {
		groups := store.NewGroupStore(tx)
		notes := store.NewNoteStore(tx)

		expired := func(deletedAt *time.Time) bool {
			if threshold == nil {
				return true
			}
			return deletedAt != nil && !deletedAt.After(*threshold)
		}

		trashedNotes, err := notes.ListDeleted()
		if err != nil {
			return err
		}
		var doomedNotes []model.Note
		for _, n := range trashedNotes {
			if expired(n.DeletedAt) {
				doomedNotes = append(doomedNotes, n)
			}
		}
		if err := s.removeNotes(tx, doomedNotes); err != nil {
			return err
		}

		trashedGroups, err := groups.ListDeleted()
		if err != nil {
			return err
		}
		candidates := make(map[uuid.UUID]struct{})
		for _, g := range trashedGroups {
			if expired(g.DeletedAt) {
				candidates[g.ID] = struct{}{}
			}
		}
		if len(candidates) == 0 {
			if len(doomedNotes) > 0 {
				s.logger.Info("trash purged", "notes", len(doomedNotes), "groups", 0)
			}
			return nil
		}

		all, err := groups.ListAll()
		if err != nil {
			return err
		}
		removed := 0
		for _, layer := range hierarchy.RemovalLayers(store.Edges(all), candidates) {
			if err := groups.DeleteByIDs(layer); err != nil {
				return err
			}
			removed += len(layer)
		}

		s.logger.Info("trash purged", "notes", len(doomedNotes), "groups", removed)
		return nil
	})
}

// removeNotes deletes note rows with their sticky states removed first.
func (s *TrashService) removeNotes(tx *sql.Tx, doomed []model.Note) error {
	if len(doomed) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(doomed))
	for i, n := range doomed {
		ids[i] = n.ID
	}
	if err := store.NewStickyStore(tx).DeleteByNoteIDs(ids); err != nil {
		return err
	}
	return store.NewNoteStore(tx).DeleteByIDs(ids)
}
