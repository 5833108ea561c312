package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dukerupert/memoboard/internal/store"
)

func TestGroupCreateDefaults(t *testing.T) {
	db, logger := setupServiceDB(t)
	svc := NewGroupService(db, logger)

	g, err := svc.Create(nil, "  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if g.Name != "New Group" {
		t.Errorf("name = %q, want %q", g.Name, "New Group")
	}
	if g.ParentID != nil {
		t.Errorf("parent = %v, want nil", g.ParentID)
	}
	if g.SortOrder != 0 {
		t.Errorf("sort_order = %d, want 0", g.SortOrder)
	}

	// Second root lands after the first.
	g2, err := svc.Create(nil, "Work")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if g2.SortOrder != 1 {
		t.Errorf("sort_order = %d, want 1", g2.SortOrder)
	}
}

func TestGroupCreateUnderMissingParent(t *testing.T) {
	db, logger := setupServiceDB(t)
	svc := NewGroupService(db, logger)

	missing := uuid.New()
	_, err := svc.Create(&missing, "Orphan")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGroupCreateUnderTrashedParent(t *testing.T) {
	db, logger := setupServiceDB(t)
	svc := NewGroupService(db, logger)

	parent, err := svc.Create(nil, "Parent")
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	if err := svc.SoftDelete(parent.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	_, err = svc.Create(&parent.ID, "Child")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGroupRename(t *testing.T) {
	db, logger := setupServiceDB(t)
	svc := NewGroupService(db, logger)

	g, err := svc.Create(nil, "Old")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	renamed, err := svc.Rename(g.ID, "New")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "New" {
		t.Errorf("name = %q, want %q", renamed.Name, "New")
	}

	// Blank keeps the current name.
	renamed, err = svc.Rename(g.ID, "   ")
	if err != nil {
		t.Fatalf("rename blank: %v", err)
	}
	if renamed.Name != "New" {
		t.Errorf("name = %q, want %q", renamed.Name, "New")
	}
}

func TestGroupSoftDeleteCascades(t *testing.T) {
	db, logger := setupServiceDB(t)
	groups := NewGroupService(db, logger)
	notes := NewNoteService(db, groups, logger)

	root, err := groups.Create(nil, "Root")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	child, err := groups.Create(&root.ID, "Child")
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	grandchild, err := groups.Create(&child.ID, "Grandchild")
	if err != nil {
		t.Fatalf("create grandchild: %v", err)
	}
	n, err := notes.Create(NoteInput{GroupID: grandchild.ID, Title: "deep note"})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	if err := groups.SoftDelete(root.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	gs := store.NewGroupStore(db)
	var stamps []int64
	for _, id := range []uuid.UUID{root.ID, child.ID, grandchild.ID} {
		got, err := gs.Get(id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !got.Deleted || got.DeletedAt == nil {
			t.Fatalf("group %s not trashed", id)
		}
		stamps = append(stamps, got.DeletedAt.UnixNano())
	}
	gotNote, err := store.NewNoteStore(db).Get(n.ID)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if !gotNote.Deleted || gotNote.DeletedAt == nil {
		t.Fatal("note not trashed with its group")
	}
	stamps = append(stamps, gotNote.DeletedAt.UnixNano())

	// The whole cascade shares one timestamp.
	for _, s := range stamps[1:] {
		if s != stamps[0] {
			t.Fatalf("cascade timestamps differ: %v", stamps)
		}
	}
}

func TestGroupSoftDeleteMissingIsNoop(t *testing.T) {
	db, logger := setupServiceDB(t)
	svc := NewGroupService(db, logger)

	if err := svc.SoftDelete(uuid.New()); err != nil {
		t.Fatalf("soft delete missing: %v", err)
	}
}

func TestGroupTree(t *testing.T) {
	db, logger := setupServiceDB(t)
	svc := NewGroupService(db, logger)

	root, err := svc.Create(nil, "Root")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	child, err := svc.Create(&root.ID, "Child")
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if _, err := svc.Create(&child.ID, "Grandchild"); err != nil {
		t.Fatalf("create grandchild: %v", err)
	}
	if _, err := svc.Create(nil, "Other"); err != nil {
		t.Fatalf("create other: %v", err)
	}

	roots, err := svc.Tree()
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("roots = %d, want 2", len(roots))
	}

	var found bool
	for _, r := range roots {
		if r.ID == root.ID {
			found = true
			if len(r.Children) != 1 {
				t.Fatalf("children = %d, want 1", len(r.Children))
			}
			if len(r.Children[0].Children) != 1 {
				t.Errorf("grandchildren = %d, want 1", len(r.Children[0].Children))
			}
		}
	}
	if !found {
		t.Error("root group missing from tree")
	}
}

func TestGetOrCreateInboxIDIsStable(t *testing.T) {
	db, logger := setupServiceDB(t)
	svc := NewGroupService(db, logger)

	first, err := svc.GetOrCreateInboxID()
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.GetOrCreateInboxID()
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first != second {
		t.Errorf("inbox ids differ: %s vs %s", first, second)
	}

	g, err := store.NewGroupStore(db).Get(first)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if g.Name != InboxName || g.ParentID != nil || g.SortOrder != 0 {
		t.Errorf("inbox = %+v, want root %q at sort 0", g, InboxName)
	}
}
