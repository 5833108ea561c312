package model

import (
	"time"

	"github.com/google/uuid"
)

// RepeatType describes how an alarm recurs after it fires.
type RepeatType int

const (
	RepeatNone RepeatType = iota
	RepeatDaily
	RepeatWeekly
	RepeatMonthly
)

// Valid reports whether r is one of the defined repeat kinds.
func (r RepeatType) Valid() bool {
	return r >= RepeatNone && r <= RepeatMonthly
}

func (r RepeatType) String() string {
	switch r {
	case RepeatDaily:
		return "daily"
	case RepeatWeekly:
		return "weekly"
	case RepeatMonthly:
		return "monthly"
	default:
		return "none"
	}
}

// Note is a single memo. Font fields are presentation attributes carried
// through unchanged; the alarm fields drive the scheduling engine.
type Note struct {
	ID      uuid.UUID `json:"id"`
	GroupID uuid.UUID `json:"group_id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`

	FontFamily string  `json:"font_family"`
	FontSize   float64 `json:"font_size"`
	FontWeight string  `json:"font_weight"`
	FontStyle  string  `json:"font_style"`
	Underline  bool    `json:"underline"`
	FontColor  string  `json:"font_color"`

	AlarmEnabled    bool       `json:"alarm_enabled"`
	AlarmAt         *time.Time `json:"alarm_at,omitempty"`
	TimeZoneID      string     `json:"time_zone_id"`
	Repeat          RepeatType `json:"repeat"`
	RepeatEndAt     *time.Time `json:"repeat_end_at,omitempty"`
	SnoozeUntil     *time.Time `json:"snooze_until,omitempty"`
	LastTriggeredAt *time.Time `json:"last_triggered_at,omitempty"`

	Deleted   bool       `json:"deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
