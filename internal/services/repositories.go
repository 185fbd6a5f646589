package services

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/constante/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// HabitRepository defines persistence operations for habits. Lookups that
// take a habit id also take the owner's id.
type HabitRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]types.Habit, error)
	GetByIDAndUser(ctx context.Context, id, userID int64) (types.Habit, error)
	Create(ctx context.Context, habit types.Habit) (types.Habit, error)
	Update(ctx context.Context, habit types.Habit) (types.Habit, error)
	DeleteByIDAndUser(ctx context.Context, id, userID int64) error
}

// RecordRepository defines persistence operations for records.
type RecordRepository interface {
	Create(ctx context.Context, record types.Record) (types.Record, error)
	ListByHabitAndUser(ctx context.Context, habitID, userID int64, offset, limit int) ([]types.Record, int, error)
	ListByDateAndUser(ctx context.Context, date civil.Date, userID int64) ([]types.Record, error)
	ListByUser(ctx context.Context, userID int64) ([]types.Record, error)
}
