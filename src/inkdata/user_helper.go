package inkdata

import (
	"context"
	"time"

	"github.com/inkwell-press/inkwell/src/db"
	"github.com/inkwell-press/inkwell/src/models"
	"github.com/inkwell-press/inkwell/src/oops"
)

// The flat shape of a person table row. The author payload columns are
// NULL on editor and admin rows; use toAuthor / toEditor to get the
// model types back out.
type personRow struct {
	ID         int         `db:"id"`
	Name       string      `db:"name"`
	Email      string      `db:"email"`
	Password   string      `db:"password"`
	Role       models.Role `db:"role"`
	DateJoined time.Time   `db:"date_joined"`

	School  *string `db:"school"`
	Bio     *string `db:"bio"`
	Country *string `db:"country"`
	Teacher *string `db:"teacher"`
}

func (row *personRow) toPerson() models.Person {
	return models.Person{
		ID:         row.ID,
		Name:       row.Name,
		Email:      row.Email,
		Password:   row.Password,
		Role:       row.Role,
		DateJoined: row.DateJoined,
	}
}

func (row *personRow) toAuthor() *models.Author {
	return &models.Author{
		Person:  row.toPerson(),
		School:  stringOrEmpty(row.School),
		Bio:     stringOrEmpty(row.Bio),
		Country: stringOrEmpty(row.Country),
		Teacher: stringOrEmpty(row.Teacher),
	}
}

func (row *personRow) toEditor() *models.Editor {
	return &models.Editor{
		Person: row.toPerson(),
	}
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

/*
Fetches the author account with the given email, case-insensitively.
Returns db.NotFound if no account has the email, and an error if the
email belongs to a non-author account, since author emails double as the
reuse key when articles are submitted.
*/
func FetchAuthorByEmail(
	ctx context.Context,
	dbConn db.ConnOrTx,
	email string,
) (*models.Author, error) {
	row, err := db.QueryOne[personRow](ctx, dbConn,
		`
		SELECT $columns
		FROM person
		WHERE LOWER(email) = LOWER($1)
		`,
		email,
	)
	if err != nil {
		if err == db.NotFound {
			return nil, db.NotFound
		}
		return nil, oops.New(err, "failed to fetch person by email")
	}

	if row.Role != models.RoleAuthor {
		return nil, oops.New(nil, "email %s belongs to an existing %s account", email, row.Role)
	}

	return row.toAuthor(), nil
}

// Fetches an editor (or admin, who can do everything an editor can) by id.
// Returns db.NotFound if the id does not exist or belongs to an author.
func FetchEditor(
	ctx context.Context,
	dbConn db.ConnOrTx,
	editorID int,
) (*models.Editor, error) {
	row, err := db.QueryOne[personRow](ctx, dbConn,
		`
		SELECT $columns
		FROM person
		WHERE id = $1 AND role = ANY ($2)
		`,
		editorID,
		[]int{int(models.RoleEditor), int(models.RoleAdmin)},
	)
	if err != nil {
		if err == db.NotFound {
			return nil, db.NotFound
		}
		return nil, oops.New(err, "failed to fetch editor")
	}

	return row.toEditor(), nil
}

func FetchEditors(ctx context.Context, dbConn db.ConnOrTx) ([]*models.Editor, error) {
	rows, err := db.Query[personRow](ctx, dbConn,
		`
		SELECT $columns
		FROM person
		WHERE role = ANY ($1)
		ORDER BY name ASC
		`,
		[]int{int(models.RoleEditor), int(models.RoleAdmin)},
	)
	if err != nil {
		return nil, oops.New(err, "failed to fetch editors")
	}

	editors := make([]*models.Editor, len(rows))
	for i, row := range rows {
		editors[i] = row.toEditor()
	}
	return editors, nil
}

// Inserts a new author account and fills in the generated id and join
// date. The password must already be hashed.
func CreateAuthor(
	ctx context.Context,
	dbConn db.ConnOrTx,
	author *models.Author,
) error {
	row, err := db.QueryOne[personRow](ctx, dbConn,
		`
		INSERT INTO person (name, email, password, role, date_joined, school, bio, country, teacher)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING $columns
		`,
		author.Name,
		author.Email,
		author.Password,
		models.RoleAuthor,
		time.Now(),
		author.School,
		author.Bio,
		author.Country,
		author.Teacher,
	)
	if err != nil {
		return oops.New(err, "failed to insert author")
	}

	*author = *row.toAuthor()
	return nil
}

// Inserts a new editor account and fills in the generated id and join
// date. The password must already be hashed.
func CreateEditor(
	ctx context.Context,
	dbConn db.ConnOrTx,
	editor *models.Editor,
) error {
	row, err := db.QueryOne[personRow](ctx, dbConn,
		`
		INSERT INTO person (name, email, password, role, date_joined)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING $columns
		`,
		editor.Name,
		editor.Email,
		editor.Password,
		models.RoleEditor,
		time.Now(),
	)
	if err != nil {
		return oops.New(err, "failed to insert editor")
	}

	*editor = *row.toEditor()
	return nil
}
