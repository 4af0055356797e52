package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"homesearch/internal/model"
	"homesearch/internal/predicate"

	"github.com/avast/retry-go/v4"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schemaSQL string

const propertyColumns = `
	id, link, source, address, county, price, price_numeric,
	bedrooms, bedrooms_numeric, bathrooms, bathrooms_numeric,
	area, property_type, description, features, map_link,
	created_at, updated_at`

// PostgresOptions configures the connection pool.
type PostgresOptions struct {
	DSN                string
	MaxConnections     int
	MaxIdleConnections int
	ConnectAttempts    uint
	ConnectDelay       time.Duration
}

// PostgresRepository handles database operations
type PostgresRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPostgresRepository opens the pool and waits for the database to answer,
// retrying with backoff.
func NewPostgresRepository(ctx context.Context, opts PostgresOptions, logger *zap.Logger) (*PostgresRepository, error) {
	db, err := sqlx.Open("postgres", opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(opts.MaxConnections)
	db.SetMaxIdleConns(opts.MaxIdleConnections)
	db.SetConnMaxLifetime(5 * time.Minute) // Shorter lifetime to avoid stale connections
	db.SetConnMaxIdleTime(2 * time.Minute) // Close idle connections sooner

	attempts := opts.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}
	delay := opts.ConnectDelay
	if delay <= 0 {
		delay = time.Second
	}

	err = retry.Do(
		func() error { return db.PingContext(ctx) },
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("database not ready, retrying", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db, logger: logger}, nil
}

// NewPostgresRepositoryFromDB wraps an existing pool.
func NewPostgresRepositoryFromDB(db *sqlx.DB, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, logger: logger}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the tables if they do not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Count returns the number of properties matching cond.
func (r *PostgresRepository) Count(ctx context.Context, cond predicate.Condition) (int, error) {
	where, args, err := Compile(cond)
	if err != nil {
		return 0, fmt.Errorf("failed to compile predicate: %w", err)
	}

	var total int
	query := fmt.Sprintf("SELECT COUNT(*) FROM properties WHERE %s", where)
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return total, nil
}

// Find returns one page of properties matching cond in id order.
func (r *PostgresRepository) Find(ctx context.Context, cond predicate.Condition, offset, limit int) ([]model.Property, error) {
	where, args, err := Compile(cond)
	if err != nil {
		return nil, fmt.Errorf("failed to compile predicate: %w", err)
	}

	argIndex := len(args) + 1
	query := fmt.Sprintf(`
		SELECT %s
		FROM properties
		WHERE %s
		ORDER BY id
		LIMIT $%d OFFSET $%d
	`, propertyColumns, where, argIndex, argIndex+1)
	args = append(args, limit, offset)

	properties := []model.Property{}
	if err := r.db.SelectContext(ctx, &properties, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch properties: %w", err)
	}
	return properties, nil
}

// GetPropertyByID retrieves a single property by its ID
func (r *PostgresRepository) GetPropertyByID(ctx context.Context, id int64) (*model.Property, error) {
	var property model.Property
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE id = $1`, propertyColumns)
	err := r.db.GetContext(ctx, &property, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &property, nil
}

const upsertProperty = `
	INSERT INTO properties (
		link, source, address, county, price, price_numeric,
		bedrooms, bedrooms_numeric, bathrooms, bathrooms_numeric,
		area, property_type, description, features, map_link, embedding
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (link) DO UPDATE SET
		source = EXCLUDED.source,
		address = EXCLUDED.address,
		county = EXCLUDED.county,
		price = EXCLUDED.price,
		price_numeric = EXCLUDED.price_numeric,
		bedrooms = EXCLUDED.bedrooms,
		bedrooms_numeric = EXCLUDED.bedrooms_numeric,
		bathrooms = EXCLUDED.bathrooms,
		bathrooms_numeric = EXCLUDED.bathrooms_numeric,
		area = EXCLUDED.area,
		property_type = EXCLUDED.property_type,
		description = EXCLUDED.description,
		features = EXCLUDED.features,
		map_link = EXCLUDED.map_link,
		embedding = COALESCE(EXCLUDED.embedding, properties.embedding),
		updated_at = NOW()`

// UpsertProperties inserts or updates listings keyed by link in one
// transaction. A failing item is rolled back to its savepoint and reported;
// the rest are still written.
func (r *PostgresRepository) UpsertProperties(ctx context.Context, items []model.PropertyInput) (int, []string) {
	success := 0
	var errs []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errs
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, upsertProperty)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errs
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := tx.ExecContext(ctx, "SAVEPOINT item"); err != nil {
			errs = append(errs, fmt.Sprintf("failed to create savepoint: %v", err))
			return 0, errs
		}

		p := item.ToProperty()
		var embedding interface{}
		if len(item.Embedding) > 0 {
			embedding = pgvector.NewVector(item.Embedding)
		}

		_, err := stmt.ExecContext(ctx,
			p.Link, p.Source, p.Address, p.County, p.Price, p.PriceNumeric,
			p.Bedrooms, p.BedroomsNumeric, p.Bathrooms, p.BathroomsNumeric,
			p.Area, p.PropertyType, p.Description, p.Features, p.MapLink, embedding,
		)
		if err != nil {
			errs = append(errs, fmt.Sprintf("link %s: %v", item.Link, err))
			if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT item"); rbErr != nil {
				errs = append(errs, fmt.Sprintf("failed to roll back savepoint: %v", rbErr))
				return 0, errs
			}
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errs = append(errs, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errs
	}

	return success, errs
}

// LogSearch logs a search query
func (r *PostgresRepository) LogSearch(ctx context.Context, entry model.SearchLog) error {
	pred, err := json.Marshal(entry.Predicate)
	if err != nil {
		return fmt.Errorf("failed to encode predicate: %w", err)
	}

	logQuery := `
		INSERT INTO search_logs (search_id, query, predicate, fallback, result_count, returned_property_ids, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, logQuery,
		entry.SearchID, entry.Query, string(pred), entry.Fallback,
		entry.ResultCount, pq.Array(entry.PropertyIDs), entry.ResponseTimeMs,
	)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// LogFeedback logs user feedback/action
func (r *PostgresRepository) LogFeedback(ctx context.Context, searchID string, propertyID int64, action string) error {
	query := `
		UPDATE search_logs
		SET clicked_property_id = $2, action = $3
		WHERE search_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, searchID, propertyID, action)
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	return nil
}
