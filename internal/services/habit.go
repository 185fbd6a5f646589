package services

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/constante/apiserver/internal/store"
	"github.com/constante/apiserver/types"
)

// HabitInput carries the client-supplied habit fields. On create Name and
// Frequency are required; on update every nil field is left untouched.
type HabitInput struct {
	Name         *string
	Description  *string
	MadeSince    *civil.Date
	Frequency    *string
	ReminderTime *types.TimeOfDay
}

// HabitService encapsulates habit use-cases. Every operation acts on the
// habits of the user identified by email and nobody else's.
type HabitService struct {
	owner  ownerResolver
	habits HabitRepository
	opts   serviceOptions
}

func NewHabitService(users UserRepository, habits HabitRepository, opts ...Option) *HabitService {
	return &HabitService{
		owner:  ownerResolver{users: users, habits: habits},
		habits: habits,
		opts:   applyOptions(opts),
	}
}

func (s *HabitService) Create(ctx context.Context, email string, in HabitInput) (types.Habit, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return types.Habit{}, Invalid("name", "is required")
	}
	if in.Frequency == nil {
		return types.Habit{}, Invalid("frequency", "is required")
	}
	patch, err := in.patch()
	if err != nil {
		return types.Habit{}, err
	}

	user, err := s.owner.user(ctx, email)
	if err != nil {
		return types.Habit{}, err
	}

	habit := types.Habit{UserID: user.ID}
	patch.Apply(&habit)

	created, err := s.habits.Create(ctx, habit)
	if err != nil {
		return types.Habit{}, err
	}
	s.notify(ctx, types.EventHabitCreated, created)
	return created, nil
}

func (s *HabitService) List(ctx context.Context, email string) ([]types.Habit, error) {
	user, err := s.owner.user(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.habits.ListByUser(ctx, user.ID)
}

func (s *HabitService) Get(ctx context.Context, email string, id int64) (types.Habit, error) {
	_, habit, err := s.owner.habit(ctx, email, id)
	return habit, err
}

// Update applies the non-nil fields of in to an owned habit. Concurrent
// updates are last-write-wins.
func (s *HabitService) Update(ctx context.Context, email string, id int64, in HabitInput) (types.Habit, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return types.Habit{}, Invalid("name", "must not be empty")
	}
	patch, err := in.patch()
	if err != nil {
		return types.Habit{}, err
	}

	_, habit, err := s.owner.habit(ctx, email, id)
	if err != nil {
		return types.Habit{}, err
	}

	patch.Apply(&habit)
	updated, err := s.habits.Update(ctx, habit)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Habit{}, NotFound("Habit", id)
		}
		return types.Habit{}, err
	}
	s.notify(ctx, types.EventHabitUpdated, updated)
	return updated, nil
}

// Delete removes an owned habit together with all of its records.
func (s *HabitService) Delete(ctx context.Context, email string, id int64) error {
	user, habit, err := s.owner.habit(ctx, email, id)
	if err != nil {
		return err
	}

	if err := s.habits.DeleteByIDAndUser(ctx, habit.ID, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFound("Habit", id)
		}
		return err
	}
	s.notify(ctx, types.EventHabitDeleted, habit)
	return nil
}

func (s *HabitService) notify(ctx context.Context, typ types.EventType, habit types.Habit) {
	s.opts.notifier.Notify(ctx, types.Event{
		Type:       typ,
		UserID:     habit.UserID,
		HabitID:    habit.ID,
		OccurredAt: s.opts.now().UTC(),
	})
}

func (in HabitInput) patch() (types.HabitPatch, error) {
	patch := types.HabitPatch{
		Description:  in.Description,
		MadeSince:    in.MadeSince,
		ReminderTime: in.ReminderTime,
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		patch.Name = &name
	}
	if in.Frequency != nil {
		f, err := types.ParseFrequency(*in.Frequency)
		if err != nil {
			return types.HabitPatch{}, Invalid("frequency", "must be one of daily, weekly, monthly")
		}
		patch.Frequency = &f
	}
	return patch, nil
}
