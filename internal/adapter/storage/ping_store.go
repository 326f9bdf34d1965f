package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pingboard/internal/domain/ping"
)

// PingStore implements storage for pings on Postgres. Ownership checks are
// built into the mutating statements themselves: every write is scoped
// `WHERE id = $1 AND owner = $2`, so a missing row and a row owned by
// someone else are one and the same ErrNotFound.
type PingStore struct {
	db Querier
}

// NewPingStore creates a new ping store.
func NewPingStore(db Querier) *PingStore {
	return &PingStore{
		db: db,
	}
}

const pingColumns = `id, owner, campus_location, specific_location, description, date, time, duration_minutes, happening_now, created_at, expire_at`

// Insert saves a new ping. The expire_at column holds the rendered ISO-8601
// string, not a native timestamp; existing records are stored that way.
func (s *PingStore) Insert(ctx context.Context, p ping.Ping) error {
	query := `
		INSERT INTO pings (` + pingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.db.Exec(
		ctx,
		query,
		p.ID,
		p.Owner,
		string(p.CampusLocation),
		p.SpecificLocation,
		p.Description,
		p.Date,
		p.Time,
		p.DurationMinutes,
		p.HappeningNow,
		p.CreatedAt,
		p.ExpireAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting ping: %w", err)
	}

	return nil
}

// GetByID retrieves a ping by id. Reads are public, so there is no owner
// scoping here.
func (s *PingStore) GetByID(ctx context.Context, id string) (ping.Ping, error) {
	query := `SELECT ` + pingColumns + ` FROM pings WHERE id = $1`

	p, err := scanPing(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ping.Ping{}, ping.ErrNotFound
		}
		return ping.Ping{}, fmt.Errorf("error querying ping: %w", err)
	}
	return p, nil
}

// ListAll returns every stored ping.
func (s *PingStore) ListAll(ctx context.Context) ([]ping.Ping, error) {
	query := `SELECT ` + pingColumns + ` FROM pings ORDER BY created_at DESC`
	return s.list(ctx, query)
}

// ListByOwner returns the pings whose owner exactly equals the given
// identity.
func (s *PingStore) ListByOwner(ctx context.Context, owner string) ([]ping.Ping, error) {
	query := `SELECT ` + pingColumns + ` FROM pings WHERE owner = $1 ORDER BY created_at DESC`
	return s.list(ctx, query, owner)
}

func (s *PingStore) list(ctx context.Context, query string, args ...any) ([]ping.Ping, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying pings: %w", err)
	}
	defer rows.Close()

	var pings []ping.Ping
	for rows.Next() {
		p, err := scanPing(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning ping: %w", err)
		}
		pings = append(pings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pings: %w", err)
	}

	return pings, nil
}

// UpdateOwned loads the ping owner-scoped, applies the callback and writes
// the result back inside a single transaction. The row lock makes the
// read-merge-write atomic at single-record granularity.
func (s *PingStore) UpdateOwned(ctx context.Context, id, owner string, apply func(ping.Ping) (ping.Ping, error)) (ping.Ping, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return ping.Ping{}, fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + pingColumns + ` FROM pings WHERE id = $1 AND owner = $2 FOR UPDATE`
	stored, err := scanPing(tx.QueryRow(ctx, query, id, owner))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ping.Ping{}, ping.ErrNotFound
		}
		return ping.Ping{}, fmt.Errorf("error querying ping: %w", err)
	}

	updated, err := apply(stored)
	if err != nil {
		return ping.Ping{}, err
	}

	// id and owner are immutable; the write never touches them.
	_, err = tx.Exec(ctx, `
		UPDATE pings
		SET campus_location = $3, specific_location = $4, description = $5,
		    date = $6, time = $7, duration_minutes = $8, happening_now = $9,
		    expire_at = $10
		WHERE id = $1 AND owner = $2
	`,
		id,
		owner,
		string(updated.CampusLocation),
		updated.SpecificLocation,
		updated.Description,
		updated.Date,
		updated.Time,
		updated.DurationMinutes,
		updated.HappeningNow,
		updated.ExpireAt,
	)
	if err != nil {
		return ping.Ping{}, fmt.Errorf("error updating ping: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return ping.Ping{}, fmt.Errorf("error committing update: %w", err)
	}

	updated.ID = stored.ID
	updated.Owner = stored.Owner
	return updated, nil
}

// DeleteOwned removes the ping owner-scoped. Zero affected rows means the
// ping is missing or owned by someone else; both are ErrNotFound.
func (s *PingStore) DeleteOwned(ctx context.Context, id, owner string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM pings WHERE id = $1 AND owner = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("error deleting ping: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ping.ErrNotFound
	}
	return nil
}

func scanPing(row pgx.Row) (ping.Ping, error) {
	var p ping.Ping
	var campus string
	err := row.Scan(
		&p.ID,
		&p.Owner,
		&campus,
		&p.SpecificLocation,
		&p.Description,
		&p.Date,
		&p.Time,
		&p.DurationMinutes,
		&p.HappeningNow,
		&p.CreatedAt,
		&p.ExpireAt,
	)
	if err != nil {
		return ping.Ping{}, err
	}
	p.CampusLocation = ping.CampusLocation(campus)
	return p, nil
}
