package services

import (
	"context"
	"math"

	"cloud.google.com/go/civil"
	"github.com/constante/apiserver/types"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// RecordService encapsulates completion records. The habit named in a
// request is always resolved within the caller's own habits.
type RecordService struct {
	owner   ownerResolver
	records RecordRepository
	opts    serviceOptions
}

func NewRecordService(users UserRepository, habits HabitRepository, records RecordRepository, opts ...Option) *RecordService {
	return &RecordService{
		owner:   ownerResolver{users: users, habits: habits},
		records: records,
		opts:    applyOptions(opts),
	}
}

// Create marks an owned habit as completed today (UTC).
func (s *RecordService) Create(ctx context.Context, email string, habitID int64) (types.Record, error) {
	user, habit, err := s.owner.habit(ctx, email, habitID)
	if err != nil {
		return types.Record{}, err
	}

	record, err := s.records.Create(ctx, types.Record{
		UserID:    user.ID,
		HabitID:   habit.ID,
		Date:      civil.DateOf(s.opts.now().UTC()),
		Completed: true,
	})
	if err != nil {
		return types.Record{}, err
	}

	s.opts.notifier.Notify(ctx, types.Event{
		Type:       types.EventRecordCreated,
		UserID:     user.ID,
		HabitID:    habit.ID,
		RecordID:   record.ID,
		OccurredAt: s.opts.now().UTC(),
	})
	return record, nil
}

// ListByHabit returns one zero-based page of an owned habit's records.
// Sizes above MaxPageSize are clamped.
func (s *RecordService) ListByHabit(ctx context.Context, email string, habitID int64, page, size int) (types.RecordPage, error) {
	if page < 0 {
		return types.RecordPage{}, Invalid("page", "must not be negative")
	}
	if size < 1 {
		return types.RecordPage{}, Invalid("size", "must be at least 1")
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page > (math.MaxInt-1)/size {
		return types.RecordPage{}, Invalid("page", "is too large")
	}

	user, habit, err := s.owner.habit(ctx, email, habitID)
	if err != nil {
		return types.RecordPage{}, err
	}

	items, total, err := s.records.ListByHabitAndUser(ctx, habit.ID, user.ID, page*size, size)
	if err != nil {
		return types.RecordPage{}, err
	}
	return types.RecordPage{
		Items:         items,
		Number:        page,
		Size:          size,
		TotalElements: total,
	}, nil
}

// ListByDate returns every record the user created on date.
func (s *RecordService) ListByDate(ctx context.Context, email string, date civil.Date) ([]types.Record, error) {
	if !date.IsValid() {
		return nil, Invalid("date", "must be a valid YYYY-MM-DD date")
	}
	user, err := s.owner.user(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.records.ListByDateAndUser(ctx, date, user.ID)
}
