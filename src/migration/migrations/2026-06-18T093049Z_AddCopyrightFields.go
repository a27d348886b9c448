package migrations

import (
	"context"
	"time"

	"github.com/inkwell-press/inkwell/src/migration/types"
	"github.com/jackc/pgx/v5"
)

func init() {
	registerMigration(AddCopyrightFields{})
}

type AddCopyrightFields struct{}

func (m AddCopyrightFields) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2026, 6, 18, 9, 30, 49, 0, time.UTC))
}

func (m AddCopyrightFields) Name() string {
	return "AddCopyrightFields"
}

func (m AddCopyrightFields) Description() string {
	return "Adds copyright screening status and detail to articles"
}

func (m AddCopyrightFields) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		ALTER TABLE article
			ADD COLUMN copyright_status INT NOT NULL DEFAULT 1,
			ADD COLUMN copyright_detail TEXT;
	`)
	return err
}

func (m AddCopyrightFields) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		ALTER TABLE article
			DROP COLUMN copyright_status,
			DROP COLUMN copyright_detail;
	`)
	return err
}
