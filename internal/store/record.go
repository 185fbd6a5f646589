package store

import (
	"context"
	"database/sql"
	"time"

	"cloud.google.com/go/civil"
	"github.com/constante/apiserver/types"
	"github.com/samber/oops"
)

// RecordRepository handles persistence for habit completion records.
type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

const recordColumns = `id, user_id, habit_id, date, completed, created_at`

func (r *RecordRepository) Create(ctx context.Context, record types.Record) (types.Record, error) {
	record.CreatedAt = time.Now()

	const query = `
		INSERT INTO records (user_id, habit_id, date, completed, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		record.UserID,
		record.HabitID,
		record.Date.String(),
		record.Completed,
		record.CreatedAt,
	).Scan(&record.ID); err != nil {
		return types.Record{}, oops.Code("RECORD_CREATE_FAILED").
			With("user_id", record.UserID).
			With("habit_id", record.HabitID).
			Wrap(err)
	}
	return record, nil
}

// ListByHabitAndUser returns one page of a habit's records together with the
// total number of matching records.
func (r *RecordRepository) ListByHabitAndUser(ctx context.Context, habitID, userID int64, offset, limit int) ([]types.Record, int, error) {
	if offset < 0 {
		return nil, 0, oops.Code("RECORD_LIST_FAILED").With("offset", offset).Errorf("negative offset")
	}
	if limit < 1 {
		limit = 10
	}

	const countQuery = `SELECT COUNT(1) FROM records WHERE habit_id = $1 AND user_id = $2`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, habitID, userID).Scan(&total); err != nil {
		return nil, 0, oops.Code("RECORD_COUNT_FAILED").With("habit_id", habitID).Wrap(err)
	}

	const listQuery = `
		SELECT ` + recordColumns + `
		FROM records
		WHERE habit_id = $1 AND user_id = $2
		ORDER BY date, id
		OFFSET $3 LIMIT $4`
	records, err := r.query(ctx, listQuery, habitID, userID, offset, limit)
	if err != nil {
		return nil, 0, oops.Code("RECORD_LIST_FAILED").With("habit_id", habitID).Wrap(err)
	}
	return records, total, nil
}

func (r *RecordRepository) ListByDateAndUser(ctx context.Context, date civil.Date, userID int64) ([]types.Record, error) {
	const query = `
		SELECT ` + recordColumns + `
		FROM records
		WHERE date = $1 AND user_id = $2
		ORDER BY id`
	records, err := r.query(ctx, query, date.String(), userID)
	if err != nil {
		return nil, oops.Code("RECORD_LIST_FAILED").With("date", date.String()).Wrap(err)
	}
	return records, nil
}

func (r *RecordRepository) ListByUser(ctx context.Context, userID int64) ([]types.Record, error) {
	const query = `
		SELECT ` + recordColumns + `
		FROM records
		WHERE user_id = $1
		ORDER BY id`
	records, err := r.query(ctx, query, userID)
	if err != nil {
		return nil, oops.Code("RECORD_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	return records, nil
}

func (r *RecordRepository) query(ctx context.Context, query string, args ...any) ([]types.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]types.Record, 0)
	for rows.Next() {
		var record types.Record
		var date time.Time
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.HabitID,
			&date,
			&record.Completed,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		record.Date = civil.DateOf(date)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
