package service

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/memoboard/internal/model"
	"github.com/dukerupert/memoboard/internal/store"
)

func setupTrashTest(t *testing.T) (*sql.DB, *GroupService, *NoteService, *TrashService) {
	t.Helper()
	db, logger := setupServiceDB(t)
	groups := NewGroupService(db, logger)
	notes := NewNoteService(db, groups, logger)
	trash := NewTrashService(db, groups, logger)
	return db, groups, notes, trash
}

// backdate rewrites an item's trash timestamp to simulate aging.
func backdate(t *testing.T, db *sql.DB, table string, id uuid.UUID, deletedAt time.Time) {
	t.Helper()
	if _, err := db.Exec(`UPDATE `+table+` SET deleted_at = ? WHERE id = ?`, deletedAt, id.String()); err != nil {
		t.Fatalf("backdate %s: %v", table, err)
	}
}

func TestTrashItemsMergedAndOrdered(t *testing.T) {
	db, groups, notes, trash := setupTrashTest(t)

	g, err := groups.Create(nil, "Old Group")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	inbox, err := groups.Create(nil, "Keep")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	n, err := notes.Create(NoteInput{GroupID: inbox.ID, Title: "Old Note"})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	if err := groups.SoftDelete(g.ID); err != nil {
		t.Fatalf("trash group: %v", err)
	}
	if err := notes.SoftDelete(n.ID); err != nil {
		t.Fatalf("trash note: %v", err)
	}
	backdate(t, db, "groups", g.ID, time.Now().UTC().Add(-time.Hour))

	items, err := trash.Items()
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Kind != model.TrashNote || items[0].Name != "Old Note" {
		t.Errorf("first item = %+v, want the newer note", items[0])
	}
	if items[1].Kind != model.TrashGroup || items[1].Name != "Old Group" {
		t.Errorf("second item = %+v, want the older group", items[1])
	}
}

func TestRestoreNoteRetargetsToInbox(t *testing.T) {
	_, groups, notes, trash := setupTrashTest(t)

	g, err := groups.Create(nil, "Doomed")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	n, err := notes.Create(NoteInput{GroupID: g.ID, Title: "survivor"})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	// Trashing the group trashes the note; the note is then restored alone
	// while its group stays in the trash.
	if err := groups.SoftDelete(g.ID); err != nil {
		t.Fatalf("trash group: %v", err)
	}
	if err := trash.RestoreNote(n.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}

	got, err := notes.Get(n.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected restored note")
	}
	if got.GroupID == g.ID {
		t.Error("note must not point at its trashed group")
	}
	inboxID, err := groups.GetOrCreateInboxID()
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if got.GroupID != inboxID {
		t.Errorf("group = %s, want inbox %s", got.GroupID, inboxID)
	}
}

func TestRestoreNoteKeepsActiveGroup(t *testing.T) {
	_, groups, notes, trash := setupTrashTest(t)

	g, err := groups.Create(nil, "Home")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	n, err := notes.Create(NoteInput{GroupID: g.ID, Title: "note"})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	if err := notes.SoftDelete(n.ID); err != nil {
		t.Fatalf("trash note: %v", err)
	}

	if err := trash.RestoreNote(n.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got, err := notes.Get(n.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.GroupID != g.ID {
		t.Errorf("restored note group = %v, want original %s", got, g.ID)
	}
}

func TestRestoreGroupDoesNotCascade(t *testing.T) {
	db, groups, notes, trash := setupTrashTest(t)

	root, err := groups.Create(nil, "Root")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	child, err := groups.Create(&root.ID, "Child")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	n, err := notes.Create(NoteInput{GroupID: root.ID, Title: "note"})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	if err := groups.SoftDelete(root.ID); err != nil {
		t.Fatalf("trash: %v", err)
	}

	if err := trash.RestoreGroup(root.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}

	gs := store.NewGroupStore(db)
	gotRoot, err := gs.GetActive(root.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotRoot == nil {
		t.Fatal("expected root restored")
	}
	gotChild, err := gs.Get(child.ID)
	if err != nil {
		t.Fatalf("get child: %v", err)
	}
	if !gotChild.Deleted {
		t.Error("child must stay in the trash")
	}
	gotNote, err := store.NewNoteStore(db).Get(n.ID)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if !gotNote.Deleted {
		t.Error("note must stay in the trash")
	}
}

func TestRestoreGroupPromotesWhenParentTrashed(t *testing.T) {
	db, groups, _, trash := setupTrashTest(t)

	root, err := groups.Create(nil, "Root")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	child, err := groups.Create(&root.ID, "Child")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := groups.SoftDelete(root.ID); err != nil {
		t.Fatalf("trash: %v", err)
	}

	if err := trash.RestoreGroup(child.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got, err := store.NewGroupStore(db).GetActive(child.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected child restored")
	}
	if got.ParentID != nil {
		t.Errorf("parent = %v, want nil after promotion", got.ParentID)
	}
}

func TestDeleteGroupPermanentlyRefusesActiveContent(t *testing.T) {
	db, groups, notes, trash := setupTrashTest(t)

	root, err := groups.Create(nil, "Root")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	n, err := notes.Create(NoteInput{GroupID: root.ID, Title: "keeper"})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	if err := groups.SoftDelete(root.ID); err != nil {
		t.Fatalf("trash: %v", err)
	}

	// Pulling the note back out leaves an active note inside the trashed
	// group, which blocks the permanent delete.
	if err := trash.RestoreNote(n.ID); err != nil {
		t.Fatalf("restore note: %v", err)
	}
	if _, err := db.Exec(`UPDATE notes SET group_id = ? WHERE id = ?`, root.ID.String(), n.ID.String()); err != nil {
		t.Fatalf("point note back: %v", err)
	}

	if err := trash.DeletePermanently(root.ID, model.TrashGroup); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	got, err := store.NewGroupStore(db).Get(root.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Error("refused delete must leave the group in place")
	}
}

func TestDeleteGroupPermanentlyRemovesSubtree(t *testing.T) {
	db, groups, notes, trash := setupTrashTest(t)

	root, err := groups.Create(nil, "Root")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	child, err := groups.Create(&root.ID, "Child")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	n, err := notes.Create(NoteInput{GroupID: child.ID, Title: "deep"})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	window := &model.StickyWindowState{NoteID: n.ID, X: 10, Y: 20, Width: 200, Height: 150, LastOpenedAt: time.Now().UTC()}
	if err := store.NewStickyStore(db).Upsert(window); err != nil {
		t.Fatalf("save window state: %v", err)
	}
	if err := groups.SoftDelete(root.ID); err != nil {
		t.Fatalf("trash: %v", err)
	}

	if err := trash.DeletePermanently(root.ID, model.TrashGroup); err != nil {
		t.Fatalf("delete: %v", err)
	}

	gs := store.NewGroupStore(db)
	for _, id := range []uuid.UUID{root.ID, child.ID} {
		got, err := gs.Get(id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got != nil {
			t.Errorf("group %s still present", id)
		}
	}
	gotNote, err := store.NewNoteStore(db).Get(n.ID)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if gotNote != nil {
		t.Error("note row still present")
	}
	gotWindow, err := store.NewStickyStore(db).Get(n.ID)
	if err != nil {
		t.Fatalf("get window state: %v", err)
	}
	if gotWindow != nil {
		t.Error("window state still present")
	}
}

func TestDeletePermanentlyRejectsUnknownKind(t *testing.T) {
	_, _, _, trash := setupTrashTest(t)

	err := trash.DeletePermanently(uuid.New(), model.TrashKind("folder"))
	if !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("err = %v, want ErrInvalidKind", err)
	}
}

func TestDeleteNotePermanently(t *testing.T) {
	db, groups, notes, trash := setupTrashTest(t)

	g, err := groups.Create(nil, "G")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	n, err := notes.Create(NoteInput{GroupID: g.ID, Title: "doomed"})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	// An active note is not deletable; it must pass through the trash.
	if err := trash.DeletePermanently(n.ID, model.TrashNote); err != nil {
		t.Fatalf("delete active: %v", err)
	}
	got, err := store.NewNoteStore(db).Get(n.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("active note must survive a permanent-delete request")
	}

	if err := notes.SoftDelete(n.ID); err != nil {
		t.Fatalf("trash note: %v", err)
	}
	if err := trash.DeletePermanently(n.ID, model.TrashNote); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = store.NewNoteStore(db).Get(n.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("note row still present")
	}
}

func TestPurgeExpiredHonorsRetentionBoundary(t *testing.T) {
	db, groups, notes, trash := setupTrashTest(t)

	g, err := groups.Create(nil, "G")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	fresh, err := notes.Create(NoteInput{GroupID: g.ID, Title: "fresh"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	stale, err := notes.Create(NoteInput{GroupID: g.ID, Title: "stale"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, id := range []uuid.UUID{fresh.ID, stale.ID} {
		if err := notes.SoftDelete(id); err != nil {
			t.Fatalf("trash: %v", err)
		}
	}
	backdate(t, db, "notes", fresh.ID, time.Now().UTC().Add(-89*24*time.Hour))
	backdate(t, db, "notes", stale.ID, time.Now().UTC().Add(-91*24*time.Hour))

	if err := trash.PurgeExpired(); err != nil {
		t.Fatalf("purge: %v", err)
	}

	ns := store.NewNoteStore(db)
	gotFresh, err := ns.Get(fresh.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotFresh == nil {
		t.Error("89-day-old item purged too early")
	}
	gotStale, err := ns.Get(stale.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotStale != nil {
		t.Error("91-day-old item survived the purge")
	}
}

func TestPurgeExpiredRemovesAgedSubtree(t *testing.T) {
	db, groups, _, trash := setupTrashTest(t)

	root, err := groups.Create(nil, "Root")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	child, err := groups.Create(&root.ID, "Child")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := groups.SoftDelete(root.ID); err != nil {
		t.Fatalf("trash: %v", err)
	}
	old := time.Now().UTC().Add(-100 * 24 * time.Hour)
	backdate(t, db, "groups", root.ID, old)
	backdate(t, db, "groups", child.ID, old)

	if err := trash.PurgeExpired(); err != nil {
		t.Fatalf("purge: %v", err)
	}

	gs := store.NewGroupStore(db)
	for _, id := range []uuid.UUID{root.ID, child.ID} {
		got, err := gs.Get(id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got != nil {
			t.Errorf("group %s survived the purge", id)
		}
	}
}

func TestEmptyTrashIgnoresAge(t *testing.T) {
	db, groups, notes, trash := setupTrashTest(t)

	g, err := groups.Create(nil, "G")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	n, err := notes.Create(NoteInput{GroupID: g.ID, Title: "just trashed"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := notes.SoftDelete(n.ID); err != nil {
		t.Fatalf("trash: %v", err)
	}

	if err := trash.EmptyTrash(); err != nil {
		t.Fatalf("empty: %v", err)
	}
	got, err := store.NewNoteStore(db).Get(n.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("emptying the trash must remove fresh items too")
	}

	// The active group is untouched.
	gotG, err := store.NewGroupStore(db).GetActive(g.ID)
	if err != nil {
		t.Fatalf("get group: %v", err)
	}
	if gotG == nil {
		t.Error("active group removed by empty trash")
	}
}
