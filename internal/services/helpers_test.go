package services_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/constante/apiserver/internal/auth"
	"github.com/constante/apiserver/internal/services"
	"github.com/constante/apiserver/internal/storage"
	"github.com/constante/apiserver/internal/store/memory"
	"github.com/constante/apiserver/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)

type capturePublisher struct {
	mu     sync.Mutex
	events []types.Event
	fail   bool
}

func (p *capturePublisher) Publish(_ context.Context, _ string, data []byte, _ map[string]string) (string, error) {
	if p.fail {
		return "", errors.New("broker unavailable")
	}
	var event types.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return fmt.Sprintf("msg-%d", len(p.events)), nil
}

func (p *capturePublisher) eventTypes() []types.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type memoryObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryObjects) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = data
	return nil
}

func (m *memoryObjects) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrObjectNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type fixture struct {
	db        *memory.DB
	tokens    *auth.TokenService
	publisher *capturePublisher
	objects   *memoryObjects

	users   *services.UserService
	habits  *services.HabitService
	records *services.RecordService
	exports *services.ExportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := memory.New()
	tokens, err := auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), time.Hour,
		auth.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	publisher := &capturePublisher{}
	objects := &memoryObjects{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := []services.Option{
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithNotifier(services.NewNotifier(publisher, "events", logger)),
	}

	return &fixture{
		db:        db,
		tokens:    tokens,
		publisher: publisher,
		objects:   objects,
		users:     services.NewUserService(db.Users(), auth.BcryptHasher{Cost: bcrypt.MinCost}, tokens),
		habits:    services.NewHabitService(db.Users(), db.Habits(), opts...),
		records:   services.NewRecordService(db.Users(), db.Habits(), db.Records(), opts...),
		exports:   services.NewExportService(db.Users(), db.Habits(), db.Records(), objects, opts...),
	}
}

func (f *fixture) register(t *testing.T, email string) types.User {
	t.Helper()
	user, err := f.users.Register(context.Background(), services.RegisterInput{
		Email:    email,
		Password: "password123",
		Username: "user",
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) habit(t *testing.T, email, name string) types.Habit {
	t.Helper()
	habit, err := f.habits.Create(context.Background(), email, services.HabitInput{
		Name:      ptr(name),
		Frequency: ptr("daily"),
	})
	require.NoError(t, err)
	return habit
}

func ptr[T any](v T) *T {
	return &v
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
