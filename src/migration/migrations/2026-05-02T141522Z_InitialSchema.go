package migrations

import (
	"context"
	"time"

	"github.com/inkwell-press/inkwell/src/migration/types"
	"github.com/jackc/pgx/v5"
)

func init() {
	registerMigration(InitialSchema{})
}

type InitialSchema struct{}

func (m InitialSchema) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2026, 5, 2, 14, 15, 22, 0, time.UTC))
}

func (m InitialSchema) Name() string {
	return "InitialSchema"
}

func (m InitialSchema) Description() string {
	return "Creates the person, article, and association tables"
}

func (m InitialSchema) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE person (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			password VARCHAR(400) NOT NULL,
			role INT NOT NULL,
			date_joined TIMESTAMP WITH TIME ZONE NOT NULL,

			-- Author payload; NULL on editor and admin rows.
			school VARCHAR(255),
			bio TEXT,
			country VARCHAR(100),
			teacher VARCHAR(255)
		);
		CREATE UNIQUE INDEX person_email_unique ON person (LOWER(email));

		CREATE TABLE article (
			id UUID PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			folder_id VARCHAR(255) NOT NULL,
			doc_id VARCHAR(255) NOT NULL,
			marking_grid_id VARCHAR(255) NOT NULL,
			wordpress_id INT,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		);

		CREATE TABLE article_author (
			article_id UUID NOT NULL REFERENCES article (id),
			person_id INT NOT NULL REFERENCES person (id),
			position INT NOT NULL,
			PRIMARY KEY (article_id, person_id)
		);

		CREATE TABLE article_editor (
			article_id UUID NOT NULL REFERENCES article (id),
			person_id INT NOT NULL REFERENCES person (id),
			assigned_at TIMESTAMP WITH TIME ZONE NOT NULL,
			PRIMARY KEY (article_id, person_id)
		);
	`)
	return err
}

func (m InitialSchema) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		DROP TABLE article_editor;
		DROP TABLE article_author;
		DROP TABLE article;
		DROP TABLE person;
	`)
	return err
}
