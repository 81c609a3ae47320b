// Package store provides PostgreSQL persistence for staged jobs, approved
// positions, and scrape run history.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/jobscout/internal/types"
)

// MaxStoredDescription bounds the description stored with a pending job.
// Reviewers only need the opening of the posting; the full text was
// already consumed by the filters.
const MaxStoredDescription = 500

// Store wraps a PostgreSQL connection pool
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS pending_jobs (
			id UUID PRIMARY KEY,
			company TEXT NOT NULL,
			role TEXT NOT NULL,
			location TEXT NOT NULL,
			link TEXT NOT NULL,
			years_exp TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			analysis JSONB,
			status TEXT NOT NULL DEFAULT 'pending',
			scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS positions (
			id UUID PRIMARY KEY,
			company TEXT NOT NULL,
			role TEXT NOT NULL,
			location TEXT NOT NULL,
			link TEXT NOT NULL,
			years_exp TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'not-started',
			notes TEXT NOT NULL DEFAULT '',
			priority BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS scrape_history (
			id UUID PRIMARY KEY,
			stats JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// ListPending returns all jobs awaiting review, newest first.
func (s *Store) ListPending(ctx context.Context) ([]types.PendingJob, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, company, role, location, link, years_exp, description, source, analysis, status, scraped_at
		 FROM pending_jobs ORDER BY scraped_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending jobs: %w", err)
	}
	defer rows.Close()

	var pending []types.PendingJob
	for rows.Next() {
		var p types.PendingJob
		var id uuid.UUID
		var analysis []byte
		if err := rows.Scan(&id, &p.Company, &p.Role, &p.Location, &p.Link,
			&p.YearsExp, &p.Desc, &p.Source, &analysis, &p.Status, &p.ScrapedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending job: %w", err)
		}
		p.ID = id.String()
		if len(analysis) > 0 {
			var a types.Analysis
			if err := json.Unmarshal(analysis, &a); err == nil {
				p.Analysis = &a
			}
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// ListPositions returns all approved positions, newest first.
func (s *Store) ListPositions(ctx context.Context) ([]types.Position, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, company, role, location, link, years_exp, status, notes, priority, created_at
		 FROM positions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer rows.Close()

	var positions []types.Position
	for rows.Next() {
		var p types.Position
		var id uuid.UUID
		if err := rows.Scan(&id, &p.Company, &p.Role, &p.Location, &p.Link,
			&p.YearsExp, &p.Status, &p.Notes, &p.Priority, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		p.ID = id.String()
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// StagePending inserts the given jobs as pending records, skipping any whose
// signature already exists among pending or approved records, and returns
// the number actually added. Jobs without a link are dropped here: a record
// a reviewer cannot open is useless.
func (s *Store) StagePending(ctx context.Context, jobs []types.Job) (int, error) {
	pending, err := s.ListPending(ctx)
	if err != nil {
		return 0, err
	}
	positions, err := s.ListPositions(ctx)
	if err != nil {
		return 0, err
	}

	fresh := FilterNew(jobs, pending, positions)

	added := 0
	for _, job := range fresh {
		record := toPendingRecord(job)
		_, err := s.pool.Exec(ctx,
			`INSERT INTO pending_jobs (id, company, role, location, link, years_exp, description, source, analysis, status, scraped_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			uuid.New(), record.Company, record.Role, record.Location, record.Link,
			record.YearsExp, record.Desc, record.Source, marshalAnalysis(record.Analysis),
			record.Status, record.ScrapedAt)
		if err != nil {
			log.Printf("[store] failed to stage %s at %s: %v", record.Role, record.Company, err)
			continue
		}
		added++
	}

	return added, nil
}

func marshalAnalysis(a *types.Analysis) []byte {
	if a == nil {
		return nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil
	}
	return raw
}

// Approve moves a pending job into positions with a fresh workflow status
// and deletes the pending record. The classifier reasoning, when present,
// seeds the notes field.
func (s *Store) Approve(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", id, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var p types.PendingJob
	var analysis []byte
	err = tx.QueryRow(ctx,
		`SELECT company, role, location, link, years_exp, analysis
		 FROM pending_jobs WHERE id = $1`, parsed,
	).Scan(&p.Company, &p.Role, &p.Location, &p.Link, &p.YearsExp, &analysis)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("pending job %s not found", id)
		}
		return fmt.Errorf("failed to load pending job: %w", err)
	}

	if len(analysis) > 0 {
		var a types.Analysis
		if json.Unmarshal(analysis, &a) == nil {
			p.Analysis = &a
		}
	}

	pos := toPosition(p)
	_, err = tx.Exec(ctx,
		`INSERT INTO positions (id, company, role, location, link, years_exp, status, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.New(), pos.Company, pos.Role, pos.Location, pos.Link, pos.YearsExp,
		pos.Status, pos.Notes, pos.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create position: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM pending_jobs WHERE id = $1`, parsed); err != nil {
		return fmt.Errorf("failed to remove pending job: %w", err)
	}

	return tx.Commit(ctx)
}

// Reject deletes a pending job.
func (s *Store) Reject(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", id, err)
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM pending_jobs WHERE id = $1`, parsed)
	if err != nil {
		return fmt.Errorf("failed to reject pending job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pending job %s not found", id)
	}
	return nil
}

// ApproveAll approves every pending job. Individual failures are logged and
// do not stop the remaining approvals; the count of successes is returned.
func (s *Store) ApproveAll(ctx context.Context) (int, error) {
	pending, err := s.ListPending(ctx)
	if err != nil {
		return 0, err
	}

	approved := 0
	for _, p := range pending {
		if err := s.Approve(ctx, p.ID); err != nil {
			log.Printf("[store] approve %s failed: %v", p.ID, err)
			continue
		}
		approved++
	}
	return approved, nil
}

// RejectAll rejects every pending job, continuing past individual failures.
func (s *Store) RejectAll(ctx context.Context) (int, error) {
	pending, err := s.ListPending(ctx)
	if err != nil {
		return 0, err
	}

	rejected := 0
	for _, p := range pending {
		if err := s.Reject(ctx, p.ID); err != nil {
			log.Printf("[store] reject %s failed: %v", p.ID, err)
			continue
		}
		rejected++
	}
	return rejected, nil
}

// LogScrapeHistory appends one run's stats to the history table.
func (s *Store) LogScrapeHistory(ctx context.Context, stats types.ScrapeStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal scrape stats: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO scrape_history (id, stats) VALUES ($1, $2)`,
		uuid.New(), raw)
	if err != nil {
		return fmt.Errorf("failed to log scrape history: %w", err)
	}
	return nil
}
