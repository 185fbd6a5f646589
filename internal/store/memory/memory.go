// Package memory implements the repositories on process-local maps. It backs
// DB_IN_MEMORY mode and the service and handler tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/constante/apiserver/internal/store"
	"github.com/constante/apiserver/types"
	"github.com/samber/oops"
)

// DB holds every table. Repositories created from the same DB share state.
type DB struct {
	mu      sync.RWMutex
	users   map[int64]types.User
	habits  map[int64]types.Habit
	records map[int64]types.Record
	nextID  int64
}

func New() *DB {
	return &DB{
		users:   make(map[int64]types.User),
		habits:  make(map[int64]types.Habit),
		records: make(map[int64]types.Record),
	}
}

func (db *DB) id() int64 {
	db.nextID++
	return db.nextID
}

// Users returns a user repository over db.
func (db *DB) Users() *UserRepository { return &UserRepository{db: db} }

// Habits returns a habit repository over db.
func (db *DB) Habits() *HabitRepository { return &HabitRepository{db: db} }

// Records returns a record repository over db.
func (db *DB) Records() *RecordRepository { return &RecordRepository{db: db} }

type UserRepository struct {
	db *DB
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (types.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	user, ok := r.db.users[id]
	if !ok {
		return types.User{}, oops.Code("USER_NOT_FOUND").With("id", id).Wrap(store.ErrNotFound)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (types.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, user := range r.db.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, oops.Code("USER_NOT_FOUND").With("email", email).Wrap(store.ErrNotFound)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if _, err := r.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *UserRepository) Create(_ context.Context, user types.User) (types.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.users {
		if existing.Email == user.Email {
			return types.User{}, oops.Code("USER_DUPLICATE_EMAIL").With("email", user.Email).Wrap(store.ErrDuplicate)
		}
	}

	now := time.Now()
	user.ID = r.db.id()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.db.users[user.ID] = user
	return user, nil
}

type HabitRepository struct {
	db *DB
}

func (r *HabitRepository) ListByUser(_ context.Context, userID int64) ([]types.Habit, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	habits := make([]types.Habit, 0)
	for _, habit := range r.db.habits {
		if habit.UserID == userID {
			habits = append(habits, habit)
		}
	}
	sort.Slice(habits, func(i, j int) bool { return habits[i].ID < habits[j].ID })
	return habits, nil
}

func (r *HabitRepository) GetByIDAndUser(_ context.Context, id, userID int64) (types.Habit, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	habit, ok := r.db.habits[id]
	if !ok || habit.UserID != userID {
		return types.Habit{}, oops.Code("HABIT_NOT_FOUND").With("id", id).Wrap(store.ErrNotFound)
	}
	return habit, nil
}

func (r *HabitRepository) Create(_ context.Context, habit types.Habit) (types.Habit, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[habit.UserID]; !ok {
		return types.Habit{}, oops.Code("HABIT_CREATE_FAILED").With("user_id", habit.UserID).Errorf("owner does not exist")
	}

	now := time.Now()
	habit.ID = r.db.id()
	habit.CreatedAt = now
	habit.UpdatedAt = now
	r.db.habits[habit.ID] = habit
	return habit, nil
}

func (r *HabitRepository) Update(_ context.Context, habit types.Habit) (types.Habit, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.habits[habit.ID]
	if !ok || existing.UserID != habit.UserID {
		return types.Habit{}, oops.Code("HABIT_NOT_FOUND").With("id", habit.ID).Wrap(store.ErrNotFound)
	}
	habit.CreatedAt = existing.CreatedAt
	habit.UpdatedAt = time.Now()
	r.db.habits[habit.ID] = habit
	return habit, nil
}

func (r *HabitRepository) DeleteByIDAndUser(_ context.Context, id, userID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	habit, ok := r.db.habits[id]
	if !ok || habit.UserID != userID {
		return oops.Code("HABIT_NOT_FOUND").With("id", id).Wrap(store.ErrNotFound)
	}
	for rid, record := range r.db.records {
		if record.HabitID == id {
			delete(r.db.records, rid)
		}
	}
	delete(r.db.habits, id)
	return nil
}

type RecordRepository struct {
	db *DB
}

func (r *RecordRepository) Create(_ context.Context, record types.Record) (types.Record, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.habits[record.HabitID]; !ok {
		return types.Record{}, oops.Code("RECORD_CREATE_FAILED").With("habit_id", record.HabitID).Errorf("habit does not exist")
	}

	record.ID = r.db.id()
	record.CreatedAt = time.Now()
	r.db.records[record.ID] = record
	return record, nil
}

func (r *RecordRepository) ListByHabitAndUser(_ context.Context, habitID, userID int64, offset, limit int) ([]types.Record, int, error) {
	if offset < 0 {
		return nil, 0, oops.Code("RECORD_LIST_FAILED").With("offset", offset).Errorf("negative offset")
	}
	if limit < 1 {
		limit = 10
	}

	matches := r.filter(func(rec types.Record) bool {
		return rec.HabitID == habitID && rec.UserID == userID
	})
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Date != matches[j].Date {
			return matches[i].Date.Before(matches[j].Date)
		}
		return matches[i].ID < matches[j].ID
	})

	total := len(matches)
	if offset >= total {
		return []types.Record{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func (r *RecordRepository) ListByDateAndUser(_ context.Context, date civil.Date, userID int64) ([]types.Record, error) {
	return r.sortedByID(func(rec types.Record) bool {
		return rec.Date == date && rec.UserID == userID
	}), nil
}

func (r *RecordRepository) ListByUser(_ context.Context, userID int64) ([]types.Record, error) {
	return r.sortedByID(func(rec types.Record) bool {
		return rec.UserID == userID
	}), nil
}

func (r *RecordRepository) sortedByID(keep func(types.Record) bool) []types.Record {
	matches := r.filter(keep)
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches
}

func (r *RecordRepository) filter(keep func(types.Record) bool) []types.Record {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]types.Record, 0)
	for _, record := range r.db.records {
		if keep(record) {
			out = append(out, record)
		}
	}
	return out
}
