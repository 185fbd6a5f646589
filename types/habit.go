package types

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Frequency is how often a habit is meant to be performed.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency accepts any casing of a known frequency.
func ParseFrequency(raw string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(raw)))
	if !f.Valid() {
		return "", fmt.Errorf("invalid frequency %q: must be one of daily, weekly, monthly", raw)
	}
	return f, nil
}

// Valid reports whether f belongs to the closed set of frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

// Habit is a recurring activity tracked by exactly one user.
type Habit struct {
	// ID is the unique identifier of the habit.
	ID int64 `json:"id" db:"id"`

	// UserID references the owning user. It is set at creation and never
	// changes; it is not part of the API representation.
	UserID int64 `json:"-" db:"user_id"`

	// Name is a short label for the habit, e.g. "Play guitar".
	Name string `json:"name" db:"name"`

	// Description is free-form text about the habit.
	Description string `json:"description" db:"description"`

	// MadeSince is the date the user started the habit, if known.
	MadeSince *civil.Date `json:"madeSince" db:"made_since"`

	// Frequency is one of daily, weekly or monthly.
	Frequency Frequency `json:"frequency" db:"frequency"`

	// ReminderTime is the optional time of day at which to remind the user.
	ReminderTime *TimeOfDay `json:"reminderTime" db:"reminder_time"`

	// CreatedAt is the timestamp at which the habit was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the habit.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// HabitPatch carries a partial habit update. A nil field leaves the stored
// value untouched; there is no way to clear a field through a patch.
type HabitPatch struct {
	Name         *string
	Description  *string
	MadeSince    *civil.Date
	Frequency    *Frequency
	ReminderTime *TimeOfDay
}

// Apply overwrites the fields of h that are set in p.
func (p HabitPatch) Apply(h *Habit) {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.MadeSince != nil {
		d := *p.MadeSince
		h.MadeSince = &d
	}
	if p.Frequency != nil {
		h.Frequency = *p.Frequency
	}
	if p.ReminderTime != nil {
		t := *p.ReminderTime
		h.ReminderTime = &t
	}
}

// TimeOfDay is a wall-clock time without a date. It is accepted as
// HH:MM or HH:MM:SS and rendered as HH:MM:SS.
type TimeOfDay struct {
	civil.Time
}

// ParseTimeOfDay parses HH:MM or HH:MM:SS.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	raw = strings.TrimSpace(raw)
	if strings.Count(raw, ":") == 1 {
		raw += ":00"
	}
	t, err := civil.ParseTime(raw)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: expected HH:MM or HH:MM:SS", raw)
	}
	return TimeOfDay{Time: t}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(data []byte) error {
	parsed, err := ParseTimeOfDay(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
