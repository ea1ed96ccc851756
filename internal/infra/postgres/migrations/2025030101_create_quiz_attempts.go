package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

const createQuizAttemptsSQL = `
CREATE TABLE IF NOT EXISTS quiz_attempts (
	id          UUID PRIMARY KEY,
	user_id     TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	sub_domain  TEXT NOT NULL DEFAULT '',
	correct     INT NOT NULL DEFAULT 0,
	total       INT NOT NULL DEFAULT 0,
	data        JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS quiz_attempts_user_created_idx
	ON quiz_attempts (user_id, created_at DESC);
`

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, createQuizAttemptsSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS quiz_attempts`)
			return err
		},
	)
}
