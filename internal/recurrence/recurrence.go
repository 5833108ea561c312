// Package recurrence holds the alarm date math: the effective-trigger rule and
// the advance step applied when a recurring alarm fires or is dismissed.
package recurrence

import (
	"time"

	"github.com/dukerupert/memoboard/internal/model"
)

// EffectiveTrigger returns the snooze timestamp if present, otherwise the
// scheduled alarm timestamp. This is the single value compared against now to
// decide whether a note is due.
func EffectiveTrigger(alarmAt, snoozeUntil *time.Time) *time.Time {
	if snoozeUntil != nil {
		return snoozeUntil
	}
	return alarmAt
}

// NextOccurrence computes the occurrence following current for the given
// repeat kind, or nil when the alarm does not recur. Monthly advances by one
// calendar month with Go's date normalization.
func NextOccurrence(current time.Time, repeat model.RepeatType) *time.Time {
	var next time.Time
	switch repeat {
	case model.RepeatDaily:
		next = current.AddDate(0, 0, 1)
	case model.RepeatWeekly:
		next = current.AddDate(0, 0, 7)
	case model.RepeatMonthly:
		next = current.AddDate(0, 1, 0)
	default:
		return nil
	}
	return &next
}
