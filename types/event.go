package types

import "time"

// EventType names a habit lifecycle change published to the message queue.
type EventType string

const (
	EventHabitCreated  EventType = "habit.created"
	EventHabitUpdated  EventType = "habit.updated"
	EventHabitDeleted  EventType = "habit.deleted"
	EventRecordCreated EventType = "record.created"
)

// Event is the JSON payload of a published domain event.
type Event struct {
	Type       EventType `json:"type"`
	UserID     int64     `json:"user_id"`
	HabitID    int64     `json:"habit_id"`
	RecordID   int64     `json:"record_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Export is the document written to object storage by a data export.
type Export struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"userId"`
	Email      string    `json:"email"`
	ExportedAt time.Time `json:"exportedAt"`
	Habits     []Habit   `json:"habits"`
	Records    []Record  `json:"records"`
}

// ExportSummary describes a stored export.
type ExportSummary struct {
	ID      string `json:"id"`
	Key     string `json:"key"`
	Habits  int    `json:"habits"`
	Records int    `json:"records"`
}
