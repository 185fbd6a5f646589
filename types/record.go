package types

import (
	"time"

	"cloud.google.com/go/civil"
)

// Record marks a habit as completed by its owner on a given day.
type Record struct {
	// ID is the unique identifier of the record.
	ID int64 `json:"id" db:"id"`

	// UserID references the user who completed the habit.
	UserID int64 `json:"-" db:"user_id"`

	// HabitID references the completed habit.
	HabitID int64 `json:"habitId" db:"habit_id"`

	// Date is the server-assigned calendar day (UTC) of the completion.
	Date civil.Date `json:"date" db:"date"`

	// Completed is always true for records created through the API.
	Completed bool `json:"completed" db:"completed"`

	// CreatedAt is the timestamp at which the record was stored.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// RecordPage is one zero-based page of records.
type RecordPage struct {
	Items []Record

	// Number is the zero-based page index.
	Number int

	// Size is the requested page size.
	Size int

	// TotalElements counts records across all pages.
	TotalElements int
}

// TotalPages is the number of pages of Size needed for TotalElements.
func (p RecordPage) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.TotalElements + p.Size - 1) / p.Size
}
