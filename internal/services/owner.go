package services

import (
	"context"
	"errors"

	"github.com/constante/apiserver/internal/store"
	"github.com/constante/apiserver/types"
)

// ownerResolver turns a principal email into its user and finds habits
// only within that user's rows. A habit owned by someone else is reported
// exactly like a missing one.
type ownerResolver struct {
	users  UserRepository
	habits HabitRepository
}

func (o ownerResolver) user(ctx context.Context, email string) (types.User, error) {
	user, err := o.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, NotFound("User", email)
		}
		return types.User{}, err
	}
	return user, nil
}

func (o ownerResolver) habit(ctx context.Context, email string, habitID int64) (types.User, types.Habit, error) {
	user, err := o.user(ctx, email)
	if err != nil {
		return types.User{}, types.Habit{}, err
	}

	habit, err := o.habits.GetByIDAndUser(ctx, habitID, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, types.Habit{}, NotFound("Habit", habitID)
		}
		return types.User{}, types.Habit{}, err
	}
	return user, habit, nil
}
