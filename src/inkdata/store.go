package inkdata

import (
	"context"

	"github.com/google/uuid"
	"github.com/inkwell-press/inkwell/src/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles the fetch and save helpers over a single connection pool,
// in the shape the orchestration service consumes them.
type Store struct {
	Conn *pgxpool.Pool
}

func NewStore(conn *pgxpool.Pool) *Store {
	return &Store{Conn: conn}
}

func (s *Store) FetchArticle(ctx context.Context, articleID uuid.UUID) (*models.Article, error) {
	return FetchArticle(ctx, s.Conn, articleID)
}

func (s *Store) FetchAuthorByEmail(ctx context.Context, email string) (*models.Author, error) {
	return FetchAuthorByEmail(ctx, s.Conn, email)
}

func (s *Store) FetchEditor(ctx context.Context, editorID int) (*models.Editor, error) {
	return FetchEditor(ctx, s.Conn, editorID)
}

func (s *Store) SaveArticle(ctx context.Context, article *models.Article) error {
	return SaveArticle(ctx, s.Conn, article)
}

func (s *Store) UpdateArticle(ctx context.Context, article *models.Article) error {
	return UpdateArticle(ctx, s.Conn, article)
}

func (s *Store) DeleteArticle(ctx context.Context, articleID uuid.UUID) error {
	return DeleteArticle(ctx, s.Conn, articleID)
}
