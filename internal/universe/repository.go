package universe

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"starforge/internal/shared/database"
	"starforge/internal/shared/errors"
)

// Store persists universes and their snapshots.
type Store interface {
	Create(ctx context.Context, rec *Record, snapshot []byte) error
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	Snapshot(ctx context.Context, id uuid.UUID) ([]byte, error)
	List(ctx context.Context, filter ListFilter) ([]Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repository struct {
	db     database.Executor
	logger *slog.Logger
}

func NewRepository(db database.Executor, logger *slog.Logger) *Repository {
	logger.Debug("Initializing universe repository")

	return &Repository{
		db:     db,
		logger: logger.With("component", "universe_repository"),
	}
}

const recordColumns = `id, name, seed, seed_value, preset, generator_version, system_count, body_count, settings, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec       Record
		seedValue string
		settings  []byte
	)
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Seed,
		&seedValue,
		&rec.Preset,
		&rec.GeneratorVersion,
		&rec.SystemCount,
		&rec.BodyCount,
		&settings,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.SeedValue, err = strconv.ParseUint(seedValue, 10, 64)
	if err != nil {
		return nil, errors.WrapInternal("invalid stored seed value", err)
	}
	rec.Settings = settings
	return &rec, nil
}

func (r *Repository) Create(ctx context.Context, rec *Record, snapshot []byte) error {
	logger := r.logger.With("operation", "create", "universe_id", rec.ID, "name", rec.Name)
	logger.Debug("Inserting universe")

	settings := []byte(rec.Settings)
	if len(settings) == 0 {
		settings = []byte("{}")
	}

	query := `
		INSERT INTO universes (id, name, seed, seed_value, preset, generator_version, system_count, body_count, settings, snapshot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		rec.ID,
		rec.Name,
		rec.Seed,
		strconv.FormatUint(rec.SeedValue, 10),
		rec.Preset,
		rec.GeneratorVersion,
		rec.SystemCount,
		rec.BodyCount,
		settings,
		snapshot,
	).Scan(&rec.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == "23505" {
			return errors.Conflictf("universe %s already exists", rec.ID)
		}
		return errors.WrapInternal("failed to create universe", err)
	}

	logger.Info("Universe stored", "bodies", rec.BodyCount, "snapshot_bytes", len(snapshot))
	return nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM universes WHERE id = $1`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("universe not found with id: %s", id)
		}
		return nil, errors.WrapInternal("failed to get universe", err)
	}
	return rec, nil
}

func (r *Repository) Snapshot(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var snapshot []byte
	err := r.db.QueryRowContext(ctx, `SELECT snapshot FROM universes WHERE id = $1`, id).Scan(&snapshot)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("universe not found with id: %s", id)
		}
		return nil, errors.WrapInternal("failed to load snapshot", err)
	}
	return snapshot, nil
}

// List returns records newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	logger := r.logger.With("operation", "list")

	query := `
		SELECT ` + recordColumns + `
		FROM universes
		WHERE cardinality($1::text[]) = 0 OR preset = ANY($1::text[])
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	// A nil slice would bind as NULL rather than an empty array.
	presets := filter.Presets
	if presets == nil {
		presets = []string{}
	}

	rows, err := r.db.QueryContext(ctx, query, pq.Array(presets), filter.Limit, filter.Offset)
	if err != nil {
		return nil, errors.WrapInternal("failed to list universes", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.WrapInternal("failed to scan universe", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapInternal("error iterating universes", err)
	}
	return records, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM universes WHERE id = $1`, id)
	if err != nil {
		return errors.WrapInternal("failed to delete universe", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.WrapInternal("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return errors.NotFoundf("universe not found with id: %s", id)
	}

	r.logger.Info("Universe deleted", "universe_id", id)
	return nil
}
