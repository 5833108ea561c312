package service

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/memoboard/internal/model"
	"github.com/dukerupert/memoboard/internal/store"
)

const (
	defaultNoteTitle  = "New Note"
	defaultFontFamily = "Segoe UI"
	defaultFontSize   = 14
	defaultFontStyle  = "Normal"
	defaultFontColor  = "#000000"
)

// NoteInput carries the full field set for note creation and update. Defaults
// are substituted for blank or non-positive values in both paths.
type NoteInput struct {
	GroupID uuid.UUID
	Title   string
	Content string

	FontFamily string
	FontSize   float64
	FontWeight string
	FontStyle  string
	Underline  bool
	FontColor  string

	AlarmEnabled bool
	AlarmAt      *time.Time
	TimeZoneID   string
	Repeat       model.RepeatType
	RepeatEndAt  *time.Time
}

// NoteService owns note creation, full-field update, moves, and soft-delete.
// It depends on GroupService only for the Inbox fallback id.
type NoteService struct {
	db     *sql.DB
	groups *GroupService
	logger *slog.Logger
}

func NewNoteService(db *sql.DB, groups *GroupService, logger *slog.Logger) *NoteService {
	return &NoteService{db: db, groups: groups, logger: logger}
}

func applyNoteDefaults(in *NoteInput) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		in.Title = defaultNoteTitle
	}
	if strings.TrimSpace(in.FontFamily) == "" {
		in.FontFamily = defaultFontFamily
	}
	if in.FontSize <= 0 {
		in.FontSize = defaultFontSize
	}
	if strings.TrimSpace(in.FontWeight) == "" {
		in.FontWeight = defaultFontStyle
	}
	if strings.TrimSpace(in.FontStyle) == "" {
		in.FontStyle = defaultFontStyle
	}
	if strings.TrimSpace(in.FontColor) == "" {
		in.FontColor = defaultFontColor
	}
	if strings.TrimSpace(in.TimeZoneID) == "" {
		in.TimeZoneID = time.Local.String()
	}
}

// isForeignKeyViolation matches SQLite's deferred reference check failing at
// commit, which happens when the target group row vanished between validation
// and insert.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// Create inserts a note into an active group. When the group reference fails
// at the storage layer (a race with a concurrent permanent delete), the note
// is retargeted at the Inbox group and the insert retried once; without an
// Inbox the original failure propagates.
func (s *NoteService) Create(in NoteInput) (*model.Note, error) {
	applyNoteDefaults(&in)

	note, err := s.create(in)
	if isForeignKeyViolation(err) {
		inboxID, inboxErr := s.groups.FindInboxID()
		if inboxErr != nil || inboxID == nil {
			return nil, err
		}
		s.logger.Warn("note create hit stale group reference, retargeting to inbox", "group_id", in.GroupID)
		in.GroupID = *inboxID
		return s.create(in)
	}
	return note, err
}

func (s *NoteService) create(in NoteInput) (*model.Note, error) {
	var created *model.Note
	err := store.WithTx(s.db, func(tx *sql.Tx) error {
		groups := store.NewGroupStore(tx)
		notes := store.NewNoteStore(tx)

		group, err := groups.GetActive(in.GroupID)
		if err != nil {
			return err
		}
		if group == nil {
			return fmt.Errorf("group %s: %w", in.GroupID, ErrNotFound)
		}

		now := time.Now().UTC()
		n := &model.Note{
			ID:           uuid.New(),
			GroupID:      in.GroupID,
			Title:        in.Title,
			Content:      in.Content,
			FontFamily:   in.FontFamily,
			FontSize:     in.FontSize,
			FontWeight:   in.FontWeight,
			FontStyle:    in.FontStyle,
			Underline:    in.Underline,
			FontColor:    in.FontColor,
			AlarmEnabled: in.AlarmEnabled,
			AlarmAt:      in.AlarmAt,
			TimeZoneID:   in.TimeZoneID,
			Repeat:       in.Repeat,
			RepeatEndAt:  in.RepeatEndAt,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := notes.Insert(n); err != nil {
			return err
		}
		created = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update overwrites every editable field. Recurrence advancement is not
// touched here; that belongs to the alarm engine.
func (s *NoteService) Update(id uuid.UUID, in NoteInput) (*model.Note, error) {
	applyNoteDefaults(&in)

	var updated *model.Note
	err := store.WithTx(s.db, func(tx *sql.Tx) error {
		notes := store.NewNoteStore(tx)

		n, err := notes.GetActive(id)
		if err != nil {
			return err
		}
		if n == nil {
			return fmt.Errorf("note %s: %w", id, ErrNotFound)
		}

		n.Title = in.Title
		n.Content = in.Content
		n.FontFamily = in.FontFamily
		n.FontSize = in.FontSize
		n.FontWeight = in.FontWeight
		n.FontStyle = in.FontStyle
		n.Underline = in.Underline
		n.FontColor = in.FontColor
		n.AlarmEnabled = in.AlarmEnabled
		n.AlarmAt = in.AlarmAt
		n.TimeZoneID = in.TimeZoneID
		n.Repeat = in.Repeat
		n.RepeatEndAt = in.RepeatEndAt
		n.UpdatedAt = time.Now().UTC()

		if !n.AlarmEnabled {
			n.SnoozeUntil = nil
		}

		if err := notes.Update(n); err != nil {
			return err
		}
		updated = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Move reassigns the note to an active target group.
func (s *NoteService) Move(id, targetGroupID uuid.UUID) error {
	return store.WithTx(s.db, func(tx *sql.Tx) error {
		notes := store.NewNoteStore(tx)
		groups := store.NewGroupStore(tx)

		n, err := notes.GetActive(id)
		if err != nil {
			return err
		}
		if n == nil {
			return fmt.Errorf("note %s: %w", id, ErrNotFound)
		}

		target, err := groups.GetActive(targetGroupID)
		if err != nil {
			return err
		}
		if target == nil {
			return fmt.Errorf("target group %s: %w", targetGroupID, ErrNotFound)
		}

		return notes.UpdateGroup(id, targetGroupID, time.Now().UTC())
	})
}

// SoftDelete trashes the note. Missing or already-deleted notes are a no-op.
func (s *NoteService) SoftDelete(id uuid.UUID) error {
	return store.WithTx(s.db, func(tx *sql.Tx) error {
		notes := store.NewNoteStore(tx)

		n, err := notes.GetActive(id)
		if err != nil {
			return err
		}
		if n == nil {
			return nil
		}
		return notes.MarkDeleted(id, time.Now().UTC())
	})
}

// ByGroup returns the active notes in a group, newest updated first.
func (s *NoteService) ByGroup(groupID uuid.UUID) ([]model.Note, error) {
	return store.NewNoteStore(s.db).ListActiveByGroup(groupID)
}

// Get returns the active note, or nil when it does not exist; absence is not
// an error here.
func (s *NoteService) Get(id uuid.UUID) (*model.Note, error) {
	return store.NewNoteStore(s.db).GetActive(id)
}
