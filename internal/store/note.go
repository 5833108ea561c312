package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/memoboard/internal/model"
)

type NoteStore struct {
	db DBTX
}

func NewNoteStore(db DBTX) *NoteStore {
	return &NoteStore{db: db}
}

const noteCols = `id, group_id, title, content,
	font_family, font_size, font_weight, font_style, underline, font_color,
	alarm_enabled, alarm_at, time_zone_id, repeat_type, repeat_end_at, snooze_until, last_triggered_at,
	deleted, deleted_at, created_at, updated_at`

func scanNote(scanner interface{ Scan(...any) error }) (*model.Note, error) {
	var n model.Note
	var id, groupID string
	var underline, alarmEnabled, deleted, repeatType int
	var alarmAt, repeatEndAt, snoozeUntil, lastTriggeredAt, deletedAt sql.NullTime

	err := scanner.Scan(
		&id, &groupID, &n.Title, &n.Content,
		&n.FontFamily, &n.FontSize, &n.FontWeight, &n.FontStyle, &underline, &n.FontColor,
		&alarmEnabled, &alarmAt, &n.TimeZoneID, &repeatType, &repeatEndAt, &snoozeUntil, &lastTriggeredAt,
		&deleted, &deletedAt, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse note id: %w", err)
	}
	n.GroupID, err = uuid.Parse(groupID)
	if err != nil {
		return nil, fmt.Errorf("parse note group id: %w", err)
	}
	n.Underline = underline != 0
	n.AlarmEnabled = alarmEnabled != 0
	n.Deleted = deleted != 0
	n.Repeat = model.RepeatType(repeatType)
	n.AlarmAt = nullTimePtr(alarmAt)
	n.RepeatEndAt = nullTimePtr(repeatEndAt)
	n.SnoozeUntil = nullTimePtr(snoozeUntil)
	n.LastTriggeredAt = nullTimePtr(lastTriggeredAt)
	n.DeletedAt = nullTimePtr(deletedAt)
	return &n, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func boolArg(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *NoteStore) Insert(n *model.Note) error {
	_, err := s.db.Exec(
		`INSERT INTO notes (id, group_id, title, content,
		   font_family, font_size, font_weight, font_style, underline, font_color,
		   alarm_enabled, alarm_at, time_zone_id, repeat_type, repeat_end_at, snooze_until, last_triggered_at,
		   deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		n.ID.String(), n.GroupID.String(), n.Title, n.Content,
		n.FontFamily, n.FontSize, n.FontWeight, n.FontStyle, boolArg(n.Underline), n.FontColor,
		boolArg(n.AlarmEnabled), timeArg(n.AlarmAt), n.TimeZoneID, int(n.Repeat), timeArg(n.RepeatEndAt),
		timeArg(n.SnoozeUntil), timeArg(n.LastTriggeredAt),
		n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// Get returns the note regardless of its deleted flag, or nil when absent.
func (s *NoteStore) Get(id uuid.UUID) (*model.Note, error) {
	row := s.db.QueryRow(`SELECT `+noteCols+` FROM notes WHERE id = ?`, id.String())
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// GetActive returns the note only if it exists and is not soft-deleted.
func (s *NoteStore) GetActive(id uuid.UUID) (*model.Note, error) {
	row := s.db.QueryRow(`SELECT `+noteCols+` FROM notes WHERE id = ? AND deleted = 0`, id.String())
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active note: %w", err)
	}
	return n, nil
}

func (s *NoteStore) list(query string, args ...any) ([]model.Note, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

// ListActiveByGroup returns active notes in the group, newest updated first.
func (s *NoteStore) ListActiveByGroup(groupID uuid.UUID) ([]model.Note, error) {
	return s.list(
		`SELECT `+noteCols+` FROM notes WHERE group_id = ? AND deleted = 0 ORDER BY updated_at DESC`,
		groupID.String(),
	)
}

// ListActiveWithAlarm returns the sweep candidates: active notes whose alarm
// is enabled. Due-ness is decided in Go against one sweep timestamp.
func (s *NoteStore) ListActiveWithAlarm() ([]model.Note, error) {
	return s.list(`SELECT ` + noteCols + ` FROM notes WHERE alarm_enabled = 1 AND deleted = 0`)
}

// ListDeleted returns soft-deleted notes.
func (s *NoteStore) ListDeleted() ([]model.Note, error) {
	return s.list(`SELECT ` + noteCols + ` FROM notes WHERE deleted = 1`)
}

// ListDeletedByGroups returns soft-deleted notes owned by the listed groups.
func (s *NoteStore) ListDeletedByGroups(groupIDs []uuid.UUID) ([]model.Note, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	placeholders, args := idList(groupIDs)
	return s.list(`SELECT `+noteCols+` FROM notes WHERE deleted = 1 AND group_id IN (`+placeholders+`)`, args...)
}

// AnyActiveInGroups reports whether any active note lives in the listed groups.
func (s *NoteStore) AnyActiveInGroups(groupIDs []uuid.UUID) (bool, error) {
	if len(groupIDs) == 0 {
		return false, nil
	}
	placeholders, args := idList(groupIDs)
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM notes WHERE deleted = 0 AND group_id IN (`+placeholders+`) LIMIT 1`, args...,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check active notes: %w", err)
	}
	return true, nil
}

// Update performs the full-field overwrite used by note edits.
func (s *NoteStore) Update(n *model.Note) error {
	_, err := s.db.Exec(
		`UPDATE notes SET group_id = ?, title = ?, content = ?,
		   font_family = ?, font_size = ?, font_weight = ?, font_style = ?, underline = ?, font_color = ?,
		   alarm_enabled = ?, alarm_at = ?, time_zone_id = ?, repeat_type = ?, repeat_end_at = ?,
		   snooze_until = ?, last_triggered_at = ?, updated_at = ?
		 WHERE id = ?`,
		n.GroupID.String(), n.Title, n.Content,
		n.FontFamily, n.FontSize, n.FontWeight, n.FontStyle, boolArg(n.Underline), n.FontColor,
		boolArg(n.AlarmEnabled), timeArg(n.AlarmAt), n.TimeZoneID, int(n.Repeat), timeArg(n.RepeatEndAt),
		timeArg(n.SnoozeUntil), timeArg(n.LastTriggeredAt), n.UpdatedAt,
		n.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

// UpdateAlarmState writes only the alarm-related columns plus updated_at.
func (s *NoteStore) UpdateAlarmState(n *model.Note) error {
	_, err := s.db.Exec(
		`UPDATE notes SET alarm_enabled = ?, alarm_at = ?, snooze_until = ?, last_triggered_at = ?, updated_at = ?
		 WHERE id = ?`,
		boolArg(n.AlarmEnabled), timeArg(n.AlarmAt), timeArg(n.SnoozeUntil), timeArg(n.LastTriggeredAt),
		n.UpdatedAt, n.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update alarm state: %w", err)
	}
	return nil
}

// UpdateGroup reassigns the note to another group.
func (s *NoteStore) UpdateGroup(id, groupID uuid.UUID, now time.Time) error {
	_, err := s.db.Exec(
		`UPDATE notes SET group_id = ?, updated_at = ? WHERE id = ?`,
		groupID.String(), now, id.String(),
	)
	if err != nil {
		return fmt.Errorf("move note: %w", err)
	}
	return nil
}

// MarkDeleted soft-deletes a single note.
func (s *NoteStore) MarkDeleted(id uuid.UUID, now time.Time) error {
	_, err := s.db.Exec(
		`UPDATE notes SET deleted = 1, deleted_at = ?, updated_at = ? WHERE id = ?`,
		now, now, id.String(),
	)
	if err != nil {
		return fmt.Errorf("soft delete note: %w", err)
	}
	return nil
}

// MarkDeletedByGroups soft-deletes every active note in the listed groups with
// one shared timestamp. Already-deleted notes keep their original timestamp.
func (s *NoteStore) MarkDeletedByGroups(groupIDs []uuid.UUID, now time.Time) error {
	if len(groupIDs) == 0 {
		return nil
	}
	placeholders, args := idList(groupIDs)
	args = append([]any{now, now}, args...)
	_, err := s.db.Exec(
		`UPDATE notes SET deleted = 1, deleted_at = ?, updated_at = ? WHERE deleted = 0 AND group_id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("soft delete notes by group: %w", err)
	}
	return nil
}

// Restore clears the deleted flag, optionally retargeting the note to a new
// group (the Inbox fallback when its original group is gone).
func (s *NoteStore) Restore(id uuid.UUID, newGroupID *uuid.UUID, now time.Time) error {
	var err error
	if newGroupID != nil {
		_, err = s.db.Exec(
			`UPDATE notes SET deleted = 0, deleted_at = NULL, group_id = ?, updated_at = ? WHERE id = ?`,
			newGroupID.String(), now, id.String(),
		)
	} else {
		_, err = s.db.Exec(
			`UPDATE notes SET deleted = 0, deleted_at = NULL, updated_at = ? WHERE id = ?`,
			now, id.String(),
		)
	}
	if err != nil {
		return fmt.Errorf("restore note: %w", err)
	}
	return nil
}

// DeleteByIDs physically removes the listed note rows in one statement.
func (s *NoteStore) DeleteByIDs(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders, args := idList(ids)
	if _, err := s.db.Exec(`DELETE FROM notes WHERE id IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("delete notes: %w", err)
	}
	return nil
}
