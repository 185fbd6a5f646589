package services_test

import (
	"context"
	"math"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/constante/apiserver/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@example.com")
	habit := f.habit(t, alice.Email, "Meditate")

	record, err := f.records.Create(ctx, alice.Email, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, habit.ID, record.HabitID)
	assert.Equal(t, alice.ID, record.UserID)
	assert.True(t, record.Completed)
	assert.Equal(t, civil.Date{Year: 2026, Month: 3, Day: 14}, record.Date)

	_, err = f.records.Create(ctx, alice.Email, habit.ID+100)
	var notFound *services.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRecordService_ListByHabitPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@example.com")
	habit := f.habit(t, alice.Email, "Meditate")
	other := f.habit(t, alice.Email, "Walk")

	for range 2 {
		_, err := f.records.Create(ctx, alice.Email, habit.ID)
		require.NoError(t, err)
	}
	_, err := f.records.Create(ctx, alice.Email, other.ID)
	require.NoError(t, err)

	page, err := f.records.ListByHabit(ctx, alice.Email, habit.ID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalElements)
	assert.Equal(t, 1, page.TotalPages())
	assert.Equal(t, 0, page.Number)
	assert.Equal(t, 10, page.Size)

	page, err = f.records.ListByHabit(ctx, alice.Email, habit.ID, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.TotalPages())

	page, err = f.records.ListByHabit(ctx, alice.Email, habit.ID, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 2, page.TotalElements)

	page, err = f.records.ListByHabit(ctx, alice.Email, habit.ID, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, services.MaxPageSize, page.Size)
}

func TestRecordService_ListByHabitValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@example.com")
	habit := f.habit(t, alice.Email, "Meditate")

	var invalid *services.ValidationError
	_, err := f.records.ListByHabit(ctx, alice.Email, habit.ID, -1, 10)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "page", invalid.Field)

	_, err = f.records.ListByHabit(ctx, alice.Email, habit.ID, 0, 0)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "size", invalid.Field)

	t.Run("page whose offset overflows", func(t *testing.T) {
		for range 2 {
			_, err := f.records.Create(ctx, alice.Email, habit.ID)
			require.NoError(t, err)
		}

		_, err := f.records.ListByHabit(ctx, alice.Email, habit.ID, (1<<62)+1, 10)
		var invalid *services.ValidationError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "page", invalid.Field)

		last := (math.MaxInt - 1) / 10
		page, err := f.records.ListByHabit(ctx, alice.Email, habit.ID, last, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, last, page.Number)
		assert.Equal(t, 2, page.TotalElements)
	})
}

func TestRecordService_ListByDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")
	habit := f.habit(t, alice.Email, "Meditate")
	bobs := f.habit(t, bob.Email, "Swim")

	_, err := f.records.Create(ctx, alice.Email, habit.ID)
	require.NoError(t, err)
	_, err = f.records.Create(ctx, bob.Email, bobs.ID)
	require.NoError(t, err)

	today := civil.Date{Year: 2026, Month: 3, Day: 14}
	list, err := f.records.ListByDate(ctx, alice.Email, today)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, habit.ID, list[0].HabitID)

	list, err = f.records.ListByDate(ctx, alice.Email, today.AddDays(1))
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.records.ListByDate(ctx, alice.Email, civil.Date{Year: 2026, Month: 2, Day: 30})
	var invalid *services.ValidationError
	assert.ErrorAs(t, err, &invalid)
}
