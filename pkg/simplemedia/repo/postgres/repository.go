package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-media/pkg/simplemedia"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Registry implements simplemedia.Registry using PostgreSQL
type Registry struct {
	db DBTX
}

// New creates a new PostgreSQL registry
func New(db DBTX) *Registry {
	return &Registry{db: db}
}

// NewWithPool creates a new PostgreSQL registry with a connection pool
func NewWithPool(pool *pgxpool.Pool) *Registry {
	return &Registry{db: pool}
}

// handlePostgresError translates driver errors into registry errors
func (r *Registry) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("asset already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return simplemedia.ErrAssetNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Registry) Insert(ctx context.Context, asset *simplemedia.MediaAsset) error {
	variants, err := json.Marshal(asset.Variants)
	if err != nil {
		return fmt.Errorf("failed to encode variants: %w", err)
	}

	query := `
		INSERT INTO media_asset (
			id, owner_id, kind, original_key, status, variants,
			size_bytes, format, file_name, tags, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.db.Exec(ctx, query,
		asset.ID, asset.OwnerID, asset.Kind, asset.OriginalKey,
		asset.Status, variants,
		asset.Metadata.SizeBytes, asset.Metadata.Format,
		asset.Metadata.FileName, asset.Metadata.Tags,
		asset.CreatedAt, asset.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("insert asset", err)
	}
	return nil
}

func (r *Registry) FindByID(ctx context.Context, id uuid.UUID) (*simplemedia.MediaAsset, error) {
	query := `
		SELECT id, owner_id, kind, original_key, status, variants,
		       size_bytes, format, file_name, tags,
		       error_message, failed_at, elapsed_ms,
		       created_at, updated_at
		FROM media_asset WHERE id = $1`

	var (
		asset        simplemedia.MediaAsset
		variants     []byte
		errorMessage *string
		failedAt     *time.Time
		elapsedMs    *int64
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&asset.ID, &asset.OwnerID, &asset.Kind, &asset.OriginalKey,
		&asset.Status, &variants,
		&asset.Metadata.SizeBytes, &asset.Metadata.Format,
		&asset.Metadata.FileName, &asset.Metadata.Tags,
		&errorMessage, &failedAt, &elapsedMs,
		&asset.CreatedAt, &asset.UpdatedAt)

	if err != nil {
		return nil, r.handlePostgresError("find asset", err)
	}

	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &asset.Variants); err != nil {
			return nil, fmt.Errorf("failed to decode variants: %w", err)
		}
	}

	if errorMessage != nil {
		assetErr := &simplemedia.AssetError{Message: *errorMessage}
		if failedAt != nil {
			assetErr.FailedAt = *failedAt
		}
		if elapsedMs != nil {
			assetErr.Elapsed = time.Duration(*elapsedMs) * time.Millisecond
		}
		asset.Error = assetErr
	}

	return &asset, nil
}

// UpdateFields applies a field-level partial update. Status changes carry a
// WHERE guard on the current status, so the monotonic transition rule is
// enforced atomically by the database.
func (r *Registry) UpdateFields(ctx context.Context, id uuid.UUID, patch simplemedia.AssetPatch) error {
	set := []string{"updated_at = $2"}
	args := []interface{}{id, time.Now().UTC()}

	if patch.Variants != nil {
		variants, err := json.Marshal(patch.Variants)
		if err != nil {
			return fmt.Errorf("failed to encode variants: %w", err)
		}
		args = append(args, variants)
		set = append(set, fmt.Sprintf("variants = $%d", len(args)))
	}
	if patch.Error != nil {
		args = append(args, patch.Error.Message)
		set = append(set, fmt.Sprintf("error_message = $%d", len(args)))
		args = append(args, patch.Error.FailedAt)
		set = append(set, fmt.Sprintf("failed_at = $%d", len(args)))
		args = append(args, patch.Error.Elapsed.Milliseconds())
		set = append(set, fmt.Sprintf("elapsed_ms = $%d", len(args)))
	}

	where := "id = $1"
	if patch.Status != nil {
		// Only "processing" has outgoing transitions, so the target is
		// validated against it up front; the WHERE guard below enforces the
		// same rule atomically against the stored row.
		if err := simplemedia.CheckTransition(simplemedia.StatusProcessing, *patch.Status); err != nil {
			return err
		}
		args = append(args, *patch.Status)
		set = append(set, fmt.Sprintf("status = $%d", len(args)))

		// Only "processing" has outgoing transitions.
		where += fmt.Sprintf(" AND status = '%s'", simplemedia.StatusProcessing)
	}

	query := fmt.Sprintf("UPDATE media_asset SET %s WHERE %s", strings.Join(set, ", "), where)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return r.handlePostgresError("update asset", err)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish a missing row from a blocked transition.
		if _, ferr := r.FindByID(ctx, id); ferr != nil {
			return ferr
		}
		return fmt.Errorf("%w: asset %s is terminal", simplemedia.ErrInvalidStatusTransition, id)
	}
	return nil
}

func (r *Registry) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM media_asset WHERE id = $1", id)
	if err != nil {
		return r.handlePostgresError("delete asset", err)
	}
	if tag.RowsAffected() == 0 {
		return simplemedia.ErrAssetNotFound
	}
	return nil
}
