package inkdata

import (
	"context"

	"github.com/google/uuid"
	"github.com/inkwell-press/inkwell/src/db"
	"github.com/inkwell-press/inkwell/src/models"
	"github.com/inkwell-press/inkwell/src/oops"
	"github.com/jackc/pgx/v5/pgxpool"
)

/*
Fetches a single article with its authors and editors filled in. Returns
db.NotFound if the id does not exist.
*/
func FetchArticle(
	ctx context.Context,
	dbConn db.ConnOrTx,
	articleID uuid.UUID,
) (*models.Article, error) {
	article, err := db.QueryOne[models.Article](ctx, dbConn,
		`
		SELECT $columns
		FROM article
		WHERE id = $1
		`,
		articleID,
	)
	if err != nil {
		if err == db.NotFound {
			return nil, db.NotFound
		}
		return nil, oops.New(err, "failed to fetch article")
	}

	if err := fetchArticlePeople(ctx, dbConn, []*models.Article{article}); err != nil {
		return nil, err
	}

	return article, nil
}

// Fetches all articles, newest first, with authors and editors filled in.
func FetchArticles(ctx context.Context, dbConn db.ConnOrTx) ([]*models.Article, error) {
	articles, err := db.Query[models.Article](ctx, dbConn,
		`
		SELECT $columns
		FROM article
		ORDER BY created_at DESC
		`,
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch articles")
	}

	if err := fetchArticlePeople(ctx, dbConn, articles); err != nil {
		return nil, err
	}

	return articles, nil
}

// A person joined through one of the article association tables.
type articlePersonRow struct {
	ArticleID uuid.UUID `db:"aa.article_id"`
	Person    personRow `db:"person"`
}

func fetchArticlePeople(
	ctx context.Context,
	dbConn db.ConnOrTx,
	articles []*models.Article,
) error {
	if len(articles) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*models.Article, len(articles))
	articleIDs := make([]uuid.UUID, len(articles))
	for i, article := range articles {
		byID[article.ID] = article
		articleIDs[i] = article.ID
	}

	authorRows, err := db.Query[articlePersonRow](ctx, dbConn,
		`
		SELECT $columns
		FROM article_author AS aa
		JOIN person ON person.id = aa.person_id
		WHERE aa.article_id = ANY ($1)
		ORDER BY aa.position ASC
		`,
		articleIDs,
	)
	if err != nil {
		return oops.New(err, "failed to fetch article authors")
	}
	for _, row := range authorRows {
		article := byID[row.ArticleID]
		article.Authors = append(article.Authors, row.Person.toAuthor())
	}

	editorRows, err := db.Query[articlePersonRow](ctx, dbConn,
		`
		SELECT $columns
		FROM article_editor AS aa
		JOIN person ON person.id = aa.person_id
		WHERE aa.article_id = ANY ($1)
		ORDER BY aa.assigned_at ASC, person.id ASC
		`,
		articleIDs,
	)
	if err != nil {
		return oops.New(err, "failed to fetch article editors")
	}
	for _, row := range editorRows {
		article := byID[row.ArticleID]
		article.Editors = append(article.Editors, row.Person.toEditor())
	}

	return nil
}

/*
Inserts a new article, any not-yet-persisted authors (those with a zero
id), and the author associations, all in one transaction. A failure
anywhere rolls the whole thing back, so no author row outlives a failed
save. Author order is preserved.
*/
func SaveArticle(
	ctx context.Context,
	conn *pgxpool.Pool,
	article *models.Article,
) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	for _, author := range article.Authors {
		if author.ID == 0 {
			if err := CreateAuthor(ctx, tx, author); err != nil {
				return err
			}
		}
	}

	_, err = tx.Exec(ctx,
		`
		INSERT INTO article (id, title, folder_id, doc_id, marking_grid_id, wordpress_id, copyright_status, copyright_detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
		article.ID,
		article.Title,
		article.FolderID,
		article.DocID,
		article.MarkingGridID,
		article.WordPressID,
		article.CopyrightStatus,
		article.CopyrightDetail,
		article.CreatedAt,
	)
	if err != nil {
		return oops.New(err, "failed to insert article")
	}

	for i, author := range article.Authors {
		_, err = tx.Exec(ctx,
			`
			INSERT INTO article_author (article_id, person_id, position)
			VALUES ($1, $2, $3)
			`,
			article.ID,
			author.ID,
			i,
		)
		if err != nil {
			return oops.New(err, "failed to insert article author")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.New(err, "failed to commit article")
	}
	return nil
}

/*
Persists the mutable article fields and replaces the editor associations
with the article's current editor set, all in one transaction. The folder
and doc ids are never written back.
*/
func UpdateArticle(
	ctx context.Context,
	conn *pgxpool.Pool,
	article *models.Article,
) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`
		UPDATE article
		SET title = $2,
			marking_grid_id = $3,
			wordpress_id = $4,
			copyright_status = $5,
			copyright_detail = $6
		WHERE id = $1
		`,
		article.ID,
		article.Title,
		article.MarkingGridID,
		article.WordPressID,
		article.CopyrightStatus,
		article.CopyrightDetail,
	)
	if err != nil {
		return oops.New(err, "failed to update article")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM article_editor WHERE article_id = $1`,
		article.ID,
	)
	if err != nil {
		return oops.New(err, "failed to clear article editors")
	}
	for _, editor := range article.Editors {
		_, err = tx.Exec(ctx,
			`
			INSERT INTO article_editor (article_id, person_id, assigned_at)
			VALUES ($1, $2, NOW())
			`,
			article.ID,
			editor.ID,
		)
		if err != nil {
			return oops.New(err, "failed to insert article editor")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.New(err, "failed to commit article update")
	}
	return nil
}

// Deletes the article and its associations. The documents in the external
// store are left alone; deletion only forgets our record of them.
func DeleteArticle(
	ctx context.Context,
	conn *pgxpool.Pool,
	articleID uuid.UUID,
) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM article_author WHERE article_id = $1`, articleID)
	if err != nil {
		return oops.New(err, "failed to delete article authors")
	}
	_, err = tx.Exec(ctx, `DELETE FROM article_editor WHERE article_id = $1`, articleID)
	if err != nil {
		return oops.New(err, "failed to delete article editors")
	}

	tag, err := tx.Exec(ctx, `DELETE FROM article WHERE id = $1`, articleID)
	if err != nil {
		return oops.New(err, "failed to delete article")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.New(err, "failed to commit article delete")
	}
	return nil
}
