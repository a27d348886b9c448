package models

import (
	"time"
)

type Role int

const (
	RoleAuthor Role = 1
	RoleEditor Role = 2
	RoleAdmin  Role = 3
)

func (r Role) String() string {
	switch r {
	case RoleAuthor:
		return "author"
	case RoleEditor:
		return "editor"
	case RoleAdmin:
		return "admin"
	}
	return "unknown"
}

// Person holds the identity fields shared by every account, regardless of
// role. Role is the discriminant for the payload structs below; the
// person table stores one row per account with the author payload columns
// left NULL for non-authors.
type Person struct {
	ID int `db:"id"`

	Name     string `db:"name"`
	Email    string `db:"email"`
	Password string `db:"password"`
	Role     Role   `db:"role"`

	DateJoined time.Time `db:"date_joined"`
}

// Author is a person with the author payload. School, Bio, and Country
// are non-empty on every valid author row; Teacher may be empty.
type Author struct {
	Person

	School  string
	Bio     string
	Country string
	Teacher string
}

type Editor struct {
	Person
}
