package models

import (
	"time"

	"github.com/google/uuid"
)

type CopyrightStatus int

const (
	CopyrightPending CopyrightStatus = 1 // Default for new articles
	CopyrightClear   CopyrightStatus = 2
	CopyrightFlagged CopyrightStatus = 3
)

func (s CopyrightStatus) String() string {
	switch s {
	case CopyrightPending:
		return "pending"
	case CopyrightClear:
		return "clear"
	case CopyrightFlagged:
		return "flagged"
	}
	return "unknown"
}

type Article struct {
	ID uuid.UUID `db:"id"`

	Title string `db:"title"`

	// External document-store identifiers. The folder and doc ids are set
	// exactly once at creation; no update path may touch them. The marking
	// grid can be re-pointed by editors if the grid gets regenerated.
	FolderID      string `db:"folder_id"`
	DocID         string `db:"doc_id"`
	MarkingGridID string `db:"marking_grid_id"`

	// Set by publishing. A second publish overwrites it.
	WordPressID *int `db:"wordpress_id"`

	CopyrightStatus CopyrightStatus `db:"copyright_status"`
	CopyrightDetail *string         `db:"copyright_detail"`

	CreatedAt time.Time `db:"created_at"`

	// Non-db fields, to be filled in by fetch helpers
	Authors []*Author
	Editors []*Editor
}

func (a *Article) IsPublished() bool {
	return a.WordPressID != nil
}
