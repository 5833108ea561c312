package service

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/memoboard/internal/model"
	"github.com/dukerupert/memoboard/internal/recurrence"
	"github.com/dukerupert/memoboard/internal/store"
)

// Notifier surfaces a toast-style notification for a firing alarm. It is
// fire-and-forget: implementations must never block the sweep and must
// swallow their own failures.
type Notifier interface {
	Notify(title string)
}

// StickyOpener asks the presentation layer to surface a note's floating
// window. Best effort; failures are ignored by the alarm engine.
type StickyOpener interface {
	OpenSticky(noteID uuid.UUID)
}

// AlarmService owns alarm normalization, dismiss, snooze, and the periodic
// due-alarm sweep. A manual snooze or dismiss racing a concurrent sweep is
// resolved by the last committed write; that lost update is accepted.
type AlarmService struct {
	db       *sql.DB
	notifier Notifier
	opener   StickyOpener
	logger   *slog.Logger
}

func NewAlarmService(db *sql.DB, notifier Notifier, opener StickyOpener, logger *slog.Logger) *AlarmService {
	return &AlarmService{db: db, notifier: notifier, opener: opener, logger: logger}
}

var snoozeDurations = map[int]struct{}{5: {}, 10: {}, 30: {}}

// ScheduleOrUpdate normalizes a note's alarm state after an external edit: a
// disabled alarm loses its snooze, and an alarm already scheduled past its
// recurrence end can never fire, so it is force-disabled.
func (s *AlarmService) ScheduleOrUpdate(noteID uuid.UUID) error {
	return store.WithTx(s.db, func(tx *sql.Tx) error {
		notes := store.NewNoteStore(tx)

		n, err := notes.GetActive(noteID)
		if err != nil {
			return err
		}
		if n == nil {
			return nil
		}

		if !n.AlarmEnabled {
			n.SnoozeUntil = nil
		}
		if n.RepeatEndAt != nil && n.AlarmAt != nil && n.AlarmAt.After(*n.RepeatEndAt) {
			n.AlarmEnabled = false
		}
		n.UpdatedAt = time.Now().UTC()

		return notes.UpdateAlarmState(n)
	})
}

// Dismiss acknowledges a firing alarm. Non-recurring alarms are disabled;
// recurring ones advance to the next occurrence computed from now, or are
// disabled when that occurrence would pass the recurrence end.
func (s *AlarmService) Dismiss(noteID uuid.UUID) error {
	return store.WithTx(s.db, func(tx *sql.Tx) error {
		notes := store.NewNoteStore(tx)

		n, err := notes.GetActive(noteID)
		if err != nil {
			return err
		}
		if n == nil {
			return nil
		}

		now := time.Now().UTC()
		n.SnoozeUntil = nil
		advanceOrDisable(n, now)
		n.UpdatedAt = now

		return notes.UpdateAlarmState(n)
	})
}

// Snooze delays the alarm by exactly 5, 10, or 30 minutes. Any other duration
// fails validation before storage is touched.
func (s *AlarmService) Snooze(noteID uuid.UUID, minutes int) error {
	if _, ok := snoozeDurations[minutes]; !ok {
		return ErrInvalidSnooze
	}

	return store.WithTx(s.db, func(tx *sql.Tx) error {
		notes := store.NewNoteStore(tx)

		n, err := notes.GetActive(noteID)
		if err != nil {
			return err
		}
		if n == nil {
			return nil
		}

		now := time.Now().UTC()
		until := now.Add(time.Duration(minutes) * time.Minute)
		n.SnoozeUntil = &until
		n.UpdatedAt = now

		return notes.UpdateAlarmState(n)
	})
}

// ProcessDueAlarms sweeps all enabled, active notes once and fires those whose
// effective trigger is at or before a single sweep-start timestamp. Fired
// notes get their last-triggered stamp, lose their snooze, and advance or
// disable per their recurrence. A sweep with no due notes performs no write.
func (s *AlarmService) ProcessDueAlarms() error {
	candidates, err := store.NewNoteStore(s.db).ListActiveWithAlarm()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	var due []model.Note
	for _, n := range candidates {
		trigger := recurrence.EffectiveTrigger(n.AlarmAt, n.SnoozeUntil)
		if trigger != nil && !trigger.After(now) {
			due = append(due, n)
		}
	}
	if len(due) == 0 {
		return nil
	}

	return store.WithTx(s.db, func(tx *sql.Tx) error {
		notes := store.NewNoteStore(tx)

		for i := range due {
			n := &due[i]

			s.notifier.Notify(n.Title)
			s.opener.OpenSticky(n.ID)

			stamp := now
			n.LastTriggeredAt = &stamp
			n.SnoozeUntil = nil
			advanceOrDisable(n, now)
			n.UpdatedAt = now

			// One note's failure must not abort the rest of the batch.
			if err := notes.UpdateAlarmState(n); err != nil {
				s.logger.Error("alarm sweep: persist note", "note_id", n.ID, "error", err)
			}
		}

		s.logger.Debug("alarm sweep fired", "count", len(due))
		return nil
	})
}

// advanceOrDisable applies the shared recurrence step: non-recurring alarms
// are disabled; recurring ones move to the next occurrence from now unless it
// would pass the recurrence end.
func advanceOrDisable(n *model.Note, now time.Time) {
	if n.Repeat == model.RepeatNone {
		n.AlarmEnabled = false
		return
	}

	next := recurrence.NextOccurrence(now, n.Repeat)
	if next == nil || (n.RepeatEndAt != nil && next.After(*n.RepeatEndAt)) {
		n.AlarmEnabled = false
		return
	}
	n.AlarmAt = next
	n.AlarmEnabled = true
}
