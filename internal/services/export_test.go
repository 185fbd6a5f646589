package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/constante/apiserver/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportService_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@example.com")
	habit := f.habit(t, alice.Email, "Meditate")
	f.habit(t, alice.Email, "Walk")
	_, err := f.records.Create(ctx, alice.Email, habit.ID)
	require.NoError(t, err)

	summary, err := f.exports.Export(ctx, alice.Email)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Habits)
	assert.Equal(t, 1, summary.Records)
	assert.True(t, strings.HasPrefix(summary.Key, "exports/"+itoa(alice.ID)+"/"))
	assert.True(t, strings.HasSuffix(summary.Key, summary.ID+".json"))

	doc, err := f.exports.Get(ctx, alice.Email, summary.ID)
	require.NoError(t, err)
	assert.Equal(t, summary.ID, doc.ID)
	assert.Equal(t, "alice@example.com", doc.Email)
	assert.Len(t, doc.Habits, 2)
	assert.Len(t, doc.Records, 1)
	assert.Equal(t, fixedNow, doc.ExportedAt)
}

func TestExportService_GetIsOwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")

	summary, err := f.exports.Export(ctx, alice.Email)
	require.NoError(t, err)

	var notFound *services.NotFoundError
	_, err = f.exports.Get(ctx, bob.Email, summary.ID)
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Export", notFound.Resource)

	_, err = f.exports.Get(ctx, alice.Email, "not-a-uuid")
	assert.ErrorAs(t, err, &notFound)
}
