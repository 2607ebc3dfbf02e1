package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(UpAttemptsTable, DownAttemptsTable)
}

func UpAttemptsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE TABLE pay_attempts
(
    id UUID PRIMARY KEY,
    reference VARCHAR(255) NOT NULL,
    slug VARCHAR(255) NOT NULL,
    phone VARCHAR(32) NOT NULL,
    module VARCHAR(64) NOT NULL,
    plan VARCHAR(64) NOT NULL,
    amount BIGINT NOT NULL,
    proof_path VARCHAR(512) NOT NULL,
    state VARCHAR(32) NOT NULL,
    error TEXT DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL
);`)
	return err
}

func DownAttemptsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "DROP TABLE pay_attempts;")
	return err
}
