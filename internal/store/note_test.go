package store

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/memoboard/internal/model"
)

func TestNoteInsertGet(t *testing.T) {
	db := setupTestDB(t)
	gs, ns := NewGroupStore(db), NewNoteStore(db)

	g := newTestGroup(nil, "Inbox")
	if err := gs.Insert(g); err != nil {
		t.Fatalf("insert group: %v", err)
	}

	n := newTestNote(g.ID, "Buy milk")
	n.Content = "2% if they have it"
	alarm := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	n.AlarmEnabled = true
	n.AlarmAt = &alarm
	n.Repeat = model.RepeatDaily
	if err := ns.Insert(n); err != nil {
		t.Fatalf("insert note: %v", err)
	}

	got, err := ns.Get(n.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected note, got nil")
	}
	if got.Title != "Buy milk" {
		t.Errorf("title = %q, want %q", got.Title, "Buy milk")
	}
	if got.GroupID != g.ID {
		t.Errorf("group = %s, want %s", got.GroupID, g.ID)
	}
	if !got.AlarmEnabled {
		t.Error("expected alarm enabled")
	}
	if got.AlarmAt == nil || !got.AlarmAt.Equal(alarm) {
		t.Errorf("alarm_at = %v, want %v", got.AlarmAt, alarm)
	}
	if got.Repeat != model.RepeatDaily {
		t.Errorf("repeat = %v, want daily", got.Repeat)
	}
	if got.SnoozeUntil != nil {
		t.Errorf("snooze_until = %v, want nil", got.SnoozeUntil)
	}
	if got.FontSize != 14 {
		t.Errorf("font_size = %v, want 14", got.FontSize)
	}
}

func TestNoteUpdate(t *testing.T) {
	db := setupTestDB(t)
	gs, ns := NewGroupStore(db), NewNoteStore(db)

	g := newTestGroup(nil, "Inbox")
	if err := gs.Insert(g); err != nil {
		t.Fatalf("insert group: %v", err)
	}
	n := newTestNote(g.ID, "Draft")
	if err := ns.Insert(n); err != nil {
		t.Fatalf("insert note: %v", err)
	}

	n.Title = "Final"
	n.Content = "done"
	n.FontSize = 18
	n.Underline = true
	n.UpdatedAt = time.Now().UTC()
	if err := ns.Update(n); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := ns.Get(n.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Final" || got.Content != "done" {
		t.Errorf("got %q/%q, want Final/done", got.Title, got.Content)
	}
	if got.FontSize != 18 {
		t.Errorf("font_size = %v, want 18", got.FontSize)
	}
	if !got.Underline {
		t.Error("expected underline")
	}
}

func TestNoteMarkDeletedByGroupsKeepsEarlierTimestamp(t *testing.T) {
	db := setupTestDB(t)
	gs, ns := NewGroupStore(db), NewNoteStore(db)

	g := newTestGroup(nil, "Inbox")
	if err := gs.Insert(g); err != nil {
		t.Fatalf("insert group: %v", err)
	}
	old := newTestNote(g.ID, "old")
	fresh := newTestNote(g.ID, "fresh")
	for _, n := range []*model.Note{old, fresh} {
		if err := ns.Insert(n); err != nil {
			t.Fatalf("insert note: %v", err)
		}
	}

	earlier := time.Now().UTC().Add(-time.Hour)
	if err := ns.MarkDeleted(old.ID, earlier); err != nil {
		t.Fatalf("mark deleted: %v", err)
	}

	now := time.Now().UTC()
	if err := ns.MarkDeletedByGroups([]uuid.UUID{g.ID}, now); err != nil {
		t.Fatalf("mark deleted by groups: %v", err)
	}

	gotOld, err := ns.Get(old.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotOld.DeletedAt == nil || !gotOld.DeletedAt.Equal(earlier) {
		t.Errorf("old deleted_at = %v, want %v (unchanged)", gotOld.DeletedAt, earlier)
	}

	gotFresh, err := ns.Get(fresh.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotFresh.DeletedAt == nil || !gotFresh.DeletedAt.Equal(now) {
		t.Errorf("fresh deleted_at = %v, want %v", gotFresh.DeletedAt, now)
	}
}

func TestNoteRestoreRetargetsGroup(t *testing.T) {
	db := setupTestDB(t)
	gs, ns := NewGroupStore(db), NewNoteStore(db)

	g := newTestGroup(nil, "Old")
	inbox := newTestGroup(nil, "Inbox")
	for _, grp := range []*model.Group{g, inbox} {
		if err := gs.Insert(grp); err != nil {
			t.Fatalf("insert group: %v", err)
		}
	}
	n := newTestNote(g.ID, "note")
	if err := ns.Insert(n); err != nil {
		t.Fatalf("insert note: %v", err)
	}
	now := time.Now().UTC()
	if err := ns.MarkDeleted(n.ID, now); err != nil {
		t.Fatalf("mark deleted: %v", err)
	}

	if err := ns.Restore(n.ID, &inbox.ID, now); err != nil {
		t.Fatalf("restore: %v", err)
	}

	got, err := ns.GetActive(n.ID)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if got == nil {
		t.Fatal("expected restored note")
	}
	if got.GroupID != inbox.ID {
		t.Errorf("group = %s, want %s", got.GroupID, inbox.ID)
	}
	if got.DeletedAt != nil {
		t.Errorf("deleted_at = %v, want nil", got.DeletedAt)
	}
}

func TestNoteAnyActiveInGroups(t *testing.T) {
	db := setupTestDB(t)
	gs, ns := NewGroupStore(db), NewNoteStore(db)

	g := newTestGroup(nil, "G")
	if err := gs.Insert(g); err != nil {
		t.Fatalf("insert group: %v", err)
	}

	got, err := ns.AnyActiveInGroups([]uuid.UUID{g.ID})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if got {
		t.Error("expected no active notes")
	}

	n := newTestNote(g.ID, "note")
	if err := ns.Insert(n); err != nil {
		t.Fatalf("insert note: %v", err)
	}
	got, err = ns.AnyActiveInGroups([]uuid.UUID{g.ID})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !got {
		t.Error("expected active note detected")
	}

	if err := ns.MarkDeleted(n.ID, time.Now().UTC()); err != nil {
		t.Fatalf("mark deleted: %v", err)
	}
	got, err = ns.AnyActiveInGroups([]uuid.UUID{g.ID})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if got {
		t.Error("deleted note should not count as active")
	}
}

func TestNoteListActiveWithAlarm(t *testing.T) {
	db := setupTestDB(t)
	gs, ns := NewGroupStore(db), NewNoteStore(db)

	g := newTestGroup(nil, "G")
	if err := gs.Insert(g); err != nil {
		t.Fatalf("insert group: %v", err)
	}

	alarm := time.Now().UTC()
	armed := newTestNote(g.ID, "armed")
	armed.AlarmEnabled = true
	armed.AlarmAt = &alarm
	silent := newTestNote(g.ID, "silent")
	trashed := newTestNote(g.ID, "trashed")
	trashed.AlarmEnabled = true
	trashed.AlarmAt = &alarm
	for _, n := range []*model.Note{armed, silent, trashed} {
		if err := ns.Insert(n); err != nil {
			t.Fatalf("insert note: %v", err)
		}
	}
	if err := ns.MarkDeleted(trashed.ID, time.Now().UTC()); err != nil {
		t.Fatalf("mark deleted: %v", err)
	}

	got, err := ns.ListActiveWithAlarm()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("candidates = %d, want 1", len(got))
	}
	if got[0].ID != armed.ID {
		t.Errorf("candidate = %s, want %s", got[0].ID, armed.ID)
	}
}
