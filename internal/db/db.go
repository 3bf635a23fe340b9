// Package db is the Postgres-backed data store: profiles, tasks, and plans,
// all scoped by owner id, plus a LISTEN/NOTIFY channel for task changes.
package db

import (
	"context"
	"fmt"
	"time"

	"chronoplan/internal/config"
	"chronoplan/internal/db/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	*pgxpool.Pool
	connStr string
}

func New(dbCfg config.Database) (*DB, error) {
	connStr := dbCfg.ConnString()
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}

	return &DB{Pool: pool, connStr: connStr}, nil
}

// UpsertProfile creates or refreshes a profile row. An existing base
// chronotype is preserved.
func (db *DB) UpsertProfile(ctx context.Context, p models.Profile) error {
	query := `
		INSERT INTO profiles (id, name, base_chronotype, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`

	_, err := db.Exec(ctx, query, p.ID, p.Name, p.BaseChronotype, time.Now())
	if err != nil {
		return fmt.Errorf("error upserting profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by owner id, or nil if none exists.
func (db *DB) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	query := `
		SELECT id, name, COALESCE(base_chronotype, ''), created_at
		FROM profiles
		WHERE id = $1`

	p := &models.Profile{}
	err := db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.BaseChronotype, &p.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting profile: %w", err)
	}
	return p, nil
}

// SetBaseChronotype overwrites the profile's base chronotype. At most one
// per user; re-taking the quiz replaces it.
func (db *DB) SetBaseChronotype(ctx context.Context, id, category string) error {
	query := `
		UPDATE profiles
		SET base_chronotype = $1
		WHERE id = $2`

	_, err := db.Exec(ctx, query, category, id)
	if err != nil {
		return fmt.Errorf("error setting base chronotype: %w", err)
	}
	return nil
}

// InsertTask persists t under a fresh authoritative id and returns the
// stored record. The incoming temporary id is discarded.
func (db *DB) InsertTask(ctx context.Context, t models.Task) (*models.Task, error) {
	t.ID = uuid.NewString()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO tasks (id, user_id, description, duration, type, recurring, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := db.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.Description,
		t.Duration,
		string(t.Kind),
		t.Recurring,
		t.Completed,
		t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return &t, nil
}

// TasksByOwner retrieves all tasks for ownerID, newest created first.
func (db *DB) TasksByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	query := `
		SELECT id, user_id, description, duration, type, recurring, completed, created_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error getting tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var kind string
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Description,
			&t.Duration,
			&kind,
			&t.Recurring,
			&t.Completed,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		t.Kind = models.Kind(kind)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SetTaskCompleted updates a task's completion flag.
func (db *DB) SetTaskCompleted(ctx context.Context, id string, completed bool) error {
	query := `
		UPDATE tasks
		SET completed = $1
		WHERE id = $2`

	_, err := db.Exec(ctx, query, completed, id)
	if err != nil {
		return fmt.Errorf("error updating task: %w", err)
	}
	return nil
}

// DeleteTask removes a task by id.
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	_, err := db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting task: %w", err)
	}
	return nil
}

// InsertPlan saves a generated plan for later retrieval.
func (db *DB) InsertPlan(ctx context.Context, p models.Plan) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO plans (id, user_id, html, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := db.Exec(ctx, query, p.ID, p.UserID, p.HTML, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("error saving plan: %w", err)
	}
	return nil
}

// LatestPlan retrieves the most recent plan for ownerID, or nil if the user
// has never saved one.
func (db *DB) LatestPlan(ctx context.Context, ownerID string) (*models.Plan, error) {
	query := `
		SELECT id, user_id, html, created_at
		FROM plans
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	p := &models.Plan{}
	err := db.QueryRow(ctx, query, ownerID).Scan(&p.ID, &p.UserID, &p.HTML, &p.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error loading plan: %w", err)
	}
	return p, nil
}
