package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/constante/apiserver/internal/storage"
	"github.com/constante/apiserver/types"
	"github.com/google/uuid"
)

const exportContentType = "application/json"

// ObjectStore is the object storage used for exports.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// ExportService writes a user's habits and records to object storage as a
// single JSON document and reads it back.
type ExportService struct {
	owner   ownerResolver
	records RecordRepository
	objects ObjectStore
	opts    serviceOptions
}

func NewExportService(users UserRepository, habits HabitRepository, records RecordRepository, objects ObjectStore, opts ...Option) *ExportService {
	return &ExportService{
		owner:   ownerResolver{users: users, habits: habits},
		records: records,
		objects: objects,
		opts:    applyOptions(opts),
	}
}

func exportKey(userID int64, id string) string {
	return fmt.Sprintf("exports/%d/%s.json", userID, id)
}

// Export snapshots everything the user owns.
func (s *ExportService) Export(ctx context.Context, email string) (types.ExportSummary, error) {
	user, err := s.owner.user(ctx, email)
	if err != nil {
		return types.ExportSummary{}, err
	}

	habits, err := s.owner.habits.ListByUser(ctx, user.ID)
	if err != nil {
		return types.ExportSummary{}, err
	}
	records, err := s.records.ListByUser(ctx, user.ID)
	if err != nil {
		return types.ExportSummary{}, err
	}

	doc := types.Export{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Email:      user.Email,
		ExportedAt: s.opts.now().UTC(),
		Habits:     habits,
		Records:    records,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return types.ExportSummary{}, fmt.Errorf("encode export: %w", err)
	}

	key := exportKey(user.ID, doc.ID)
	if err := s.objects.Put(ctx, key, bytes.NewReader(data), int64(len(data)), exportContentType); err != nil {
		return types.ExportSummary{}, fmt.Errorf("store export: %w", err)
	}

	return types.ExportSummary{
		ID:      doc.ID,
		Key:     key,
		Habits:  len(habits),
		Records: len(records),
	}, nil
}

// Get reads back one of the user's exports. Ids that are not UUIDs or that
// belong to another user are reported as not found.
func (s *ExportService) Get(ctx context.Context, email, id string) (types.Export, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return types.Export{}, NotFound("Export", id)
	}

	user, err := s.owner.user(ctx, email)
	if err != nil {
		return types.Export{}, err
	}

	rc, err := s.objects.Get(ctx, exportKey(user.ID, parsed.String()))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return types.Export{}, NotFound("Export", id)
		}
		return types.Export{}, fmt.Errorf("load export: %w", err)
	}
	defer rc.Close()

	var doc types.Export
	if err := json.NewDecoder(rc).Decode(&doc); err != nil {
		return types.Export{}, fmt.Errorf("decode export: %w", err)
	}
	return doc, nil
}
