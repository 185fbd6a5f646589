package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/constante/apiserver/types"
	"github.com/samber/oops"
)

// HabitRepository handles persistence for habits. Every lookup that takes a
// habit id is scoped by the owning user in the same statement.
type HabitRepository struct {
	db *sql.DB
}

func NewHabitRepository(db *sql.DB) *HabitRepository {
	return &HabitRepository{db: db}
}

const habitColumns = `id, user_id, name, description, made_since, frequency, reminder_time, created_at, updated_at`

func (r *HabitRepository) ListByUser(ctx context.Context, userID int64) ([]types.Habit, error) {
	const query = `
		SELECT ` + habitColumns + `
		FROM habits
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, oops.Code("HABIT_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	defer rows.Close()

	habits := make([]types.Habit, 0)
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, oops.Code("HABIT_LIST_FAILED").With("user_id", userID).Wrap(err)
		}
		habits = append(habits, habit)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("HABIT_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	return habits, nil
}

func (r *HabitRepository) GetByIDAndUser(ctx context.Context, id, userID int64) (types.Habit, error) {
	const query = `
		SELECT ` + habitColumns + `
		FROM habits
		WHERE id = $1 AND user_id = $2`
	habit, err := scanHabit(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Habit{}, oops.Code("HABIT_NOT_FOUND").With("id", id).Wrap(ErrNotFound)
		}
		return types.Habit{}, oops.Code("HABIT_GET_FAILED").With("id", id).Wrap(err)
	}
	return habit, nil
}

func (r *HabitRepository) Create(ctx context.Context, habit types.Habit) (types.Habit, error) {
	now := time.Now()
	habit.CreatedAt = now
	habit.UpdatedAt = now

	const query = `
		INSERT INTO habits (user_id, name, description, made_since, frequency, reminder_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		habit.UserID,
		habit.Name,
		habit.Description,
		dateParam(habit.MadeSince),
		string(habit.Frequency),
		timeOfDayParam(habit.ReminderTime),
		habit.CreatedAt,
		habit.UpdatedAt,
	).Scan(&habit.ID); err != nil {
		return types.Habit{}, oops.Code("HABIT_CREATE_FAILED").With("user_id", habit.UserID).Wrap(err)
	}
	return habit, nil
}

// Update overwrites the mutable columns of a habit owned by habit.UserID.
func (r *HabitRepository) Update(ctx context.Context, habit types.Habit) (types.Habit, error) {
	habit.UpdatedAt = time.Now()

	const query = `
		UPDATE habits
		SET name = $1,
			description = $2,
			made_since = $3,
			frequency = $4,
			reminder_time = $5,
			updated_at = $6
		WHERE id = $7 AND user_id = $8`
	result, err := r.db.ExecContext(
		ctx,
		query,
		habit.Name,
		habit.Description,
		dateParam(habit.MadeSince),
		string(habit.Frequency),
		timeOfDayParam(habit.ReminderTime),
		habit.UpdatedAt,
		habit.ID,
		habit.UserID,
	)
	if err != nil {
		return types.Habit{}, oops.Code("HABIT_UPDATE_FAILED").With("id", habit.ID).Wrap(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Habit{}, oops.Code("HABIT_UPDATE_FAILED").With("id", habit.ID).Wrap(err)
	}
	if affected == 0 {
		return types.Habit{}, oops.Code("HABIT_NOT_FOUND").With("id", habit.ID).Wrap(ErrNotFound)
	}
	return habit, nil
}

// DeleteByIDAndUser removes a habit and its records in one transaction.
// Records are deleted before the habit row.
func (r *HabitRepository) DeleteByIDAndUser(ctx context.Context, id, userID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return oops.Code("HABIT_DELETE_FAILED").With("id", id).Wrap(err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const deleteRecords = `
		DELETE FROM records
		WHERE habit_id IN (SELECT id FROM habits WHERE id = $1 AND user_id = $2)`
	if _, err := tx.ExecContext(ctx, deleteRecords, id, userID); err != nil {
		return oops.Code("HABIT_DELETE_FAILED").With("id", id).With("step", "records").Wrap(err)
	}

	const deleteHabit = `DELETE FROM habits WHERE id = $1 AND user_id = $2`
	result, err := tx.ExecContext(ctx, deleteHabit, id, userID)
	if err != nil {
		return oops.Code("HABIT_DELETE_FAILED").With("id", id).With("step", "habit").Wrap(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return oops.Code("HABIT_DELETE_FAILED").With("id", id).Wrap(err)
	}
	if affected == 0 {
		return oops.Code("HABIT_NOT_FOUND").With("id", id).Wrap(ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return oops.Code("HABIT_DELETE_FAILED").With("id", id).With("step", "commit").Wrap(err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (types.Habit, error) {
	var habit types.Habit
	var madeSince sql.NullTime
	var reminder sql.NullString
	var frequency string
	if err := row.Scan(
		&habit.ID,
		&habit.UserID,
		&habit.Name,
		&habit.Description,
		&madeSince,
		&frequency,
		&reminder,
		&habit.CreatedAt,
		&habit.UpdatedAt,
	); err != nil {
		return types.Habit{}, err
	}

	habit.Frequency = types.Frequency(frequency)
	if madeSince.Valid {
		d := civil.DateOf(madeSince.Time)
		habit.MadeSince = &d
	}
	if reminder.Valid {
		t, err := types.ParseTimeOfDay(reminder.String)
		if err != nil {
			return types.Habit{}, err
		}
		habit.ReminderTime = &t
	}
	return habit, nil
}

func dateParam(d *civil.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func timeOfDayParam(t *types.TimeOfDay) any {
	if t == nil {
		return nil
	}
	return t.String()
}
