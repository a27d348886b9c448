/*
This package contains lowish-level APIs for making database queries to our Postgres database. It streamlines the process of mapping query results to Go types, while allowing you to write arbitrary SQL queries.

The primary functions are Query and QueryIterator.

Query syntax

This package allows a few small extensions to SQL syntax to streamline the interaction between Go and Postgres.

Arguments can be provided using placeholders like $1, $2, etc. All arguments will be safely escaped and mapped from their Go type to the correct Postgres type. (This is a direct proxy to pgx.)

	articleIDs, err := db.Query[uuid.UUID](ctx, conn,
		`
		SELECT article_id
		FROM article_author
		WHERE person_id = ANY($1)
		`,
		[]int{2, 3},
	)

(This also demonstrates a useful tip: if you want to use a slice in your query, use Postgres arrays instead of IN.)

When querying individual fields, you can simply select the field like so:

	emails, err := db.Query[string](ctx, conn, `SELECT email FROM person`)

To query multiple columns at once, you may use a struct type with `db:"column_name"` tags, and the special $columns placeholder:

	type Article struct {
		ID        uuid.UUID `db:"id"`
		Title     string    `db:"title"`
		CreatedAt time.Time `db:"created_at"`
	}
	articles, err := db.Query[Article](ctx, conn, `SELECT $columns FROM ...`)
	// Resulting query:
	// SELECT id, title, created_at FROM ...

Sometimes a table name prefix is required on each column to disambiguate between column names, especially when performing a JOIN. In those situations, you can include the prefix in the $columns placeholder like $columns{prefix}:

	authors, err := db.Query[Person](ctx, conn, `
		SELECT $columns{people}
		FROM
			person AS people
			JOIN article_author AS aa ON aa.person_id = people.id
		WHERE
			aa.article_id = $1
	`, articleID)
	// Resulting query:
	// SELECT people.id, people.name, ... FROM ...
*/
package db
