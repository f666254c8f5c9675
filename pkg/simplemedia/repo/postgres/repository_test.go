package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/tendant/simple-media/pkg/simplemedia"
)

// stubDB records whether any query reached the database.
type stubDB struct {
	execCalled bool
}

func (s *stubDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	s.execCalled = true
	return pgconn.CommandTag{}, errors.New("unexpected database call")
}

func (s *stubDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("unexpected database call")
}

func (s *stubDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return nil
}

func TestUpdateFieldsRejectsBadStatusBeforeQuerying(t *testing.T) {
	tests := []struct {
		name   string
		status simplemedia.AssetStatus
	}{
		{"processing to processing", simplemedia.StatusProcessing},
		{"processing to active", simplemedia.StatusActive},
		{"unknown status", simplemedia.AssetStatus("uploaded")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &stubDB{}
			registry := New(db)

			err := registry.UpdateFields(context.Background(), uuid.New(), simplemedia.AssetPatch{
				Status: &tt.status,
			})
			assert.ErrorIs(t, err, simplemedia.ErrInvalidStatusTransition)
			assert.False(t, db.execCalled, "invalid transition must not reach the database")
		})
	}
}
