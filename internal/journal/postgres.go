package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/BEAUVILLE/abos/config"
	_ "github.com/BEAUVILLE/abos/internal/journal/migrations"
	"github.com/BEAUVILLE/abos/models"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type Manager struct {
	Db *sql.DB
}

func NewManager(cfg *config.Config) (*Manager, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = goose.Up(db, "./internal/journal/migrations"); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{Db: db}, nil
}

func (m *Manager) PutAttempt(a *models.Attempt) error {
	_, err := m.Db.Exec(`
        INSERT INTO pay_attempts (id, reference, slug, phone, module, plan, amount, proof_path, state)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, a.ID, a.Reference, a.Slug, a.Phone, a.Module, a.Plan, a.Amount, a.ProofPath, a.State)
	if err != nil {
		return fmt.Errorf("failed to insert attempt: %v", err)
	}

	return nil
}

func (m *Manager) UpdateAttempt(id string, state models.AttemptState, errMsg string) error {
	_, err := m.Db.Exec(`
		UPDATE pay_attempts
		SET state = $2, error = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`, id, state, errMsg)
	if err != nil {
		return fmt.Errorf("failed to update attempt: %v", err)
	}

	return nil
}

// StaleUploads returns attempts whose object was written but whose
// payment record never materialized within olderThan.
func (m *Manager) StaleUploads(olderThan time.Duration) ([]*models.Attempt, error) {
	cutoff := time.Now().Add(-olderThan)

	rows, err := m.Db.Query(`
		SELECT id, reference, slug, phone, module, plan, amount, proof_path, state, updated_at
		FROM pay_attempts
		WHERE state = $1 AND updated_at < $2
		ORDER BY updated_at
	`, models.AttemptUploaded, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale uploads: %v", err)
	}
	defer rows.Close()

	var attempts []*models.Attempt
	for rows.Next() {
		var a models.Attempt
		err = rows.Scan(&a.ID, &a.Reference, &a.Slug, &a.Phone, &a.Module, &a.Plan, &a.Amount, &a.ProofPath, &a.State, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %v", err)
		}
		attempts = append(attempts, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stale uploads: %v", err)
	}

	return attempts, nil
}

func (m *Manager) MarkOrphaned(id string) error {
	return m.UpdateAttempt(id, models.AttemptOrphaned, "uploaded object has no payment record")
}

func (m *Manager) Close() error {
	return m.Db.Close()
}
