package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAuthor() AuthorInput {
	return AuthorInput{
		Name:    "Maya Okafor",
		Email:   "maya@school.edu",
		School:  "Northfield High",
		Bio:     "Writes about local politics.",
		Country: "UK",
	}
}

func TestAuthorValidate(t *testing.T) {
	t.Run("valid author", func(t *testing.T) {
		in := validAuthor()
		assert.Empty(t, in.Validate("authors[0]"))
	})
	t.Run("teacher is optional", func(t *testing.T) {
		in := validAuthor()
		in.Teacher = ""
		assert.Empty(t, in.Validate("authors[0]"))
	})
	t.Run("missing fields are all reported", func(t *testing.T) {
		in := AuthorInput{Email: "maya@school.edu"}
		violations := in.Validate("authors[0]")
		require.Len(t, violations, 4)
		fields := make([]string, len(violations))
		for i, v := range violations {
			fields[i] = v.Field
		}
		assert.Equal(t, []string{
			"authors[0].name",
			"authors[0].school",
			"authors[0].bio",
			"authors[0].country",
		}, fields)
	})
	t.Run("bad email", func(t *testing.T) {
		in := validAuthor()
		in.Email = "not-an-email"
		violations := in.Validate("a")
		require.Len(t, violations, 1)
		assert.Equal(t, "a.email", violations[0].Field)
		assert.Equal(t, "email", violations[0].Rule)
	})
	t.Run("whitespace does not count as present", func(t *testing.T) {
		in := validAuthor()
		in.School = "   "
		violations := in.Validate("a")
		require.Len(t, violations, 1)
		assert.Equal(t, "a.school", violations[0].Field)
	})
}

func TestArticleValidate(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		in := ArticleInput{Title: "On Bees", Authors: []AuthorInput{validAuthor()}}
		assert.Empty(t, in.Validate())
	})
	t.Run("no authors", func(t *testing.T) {
		in := ArticleInput{Title: "On Bees"}
		violations := in.Validate()
		require.Len(t, violations, 1)
		assert.Equal(t, "authors", violations[0].Field)
	})
	t.Run("author violations aggregate with the article's own", func(t *testing.T) {
		in := ArticleInput{Authors: []AuthorInput{validAuthor(), {}}}
		violations := in.Validate()
		// missing title + five missing fields on the second author
		assert.Len(t, violations, 6)
	})
}

func TestUploadValidate(t *testing.T) {
	allowed := []string{"text/plain", "application/vnd.oasis.opendocument.text"}

	t.Run("allowed type", func(t *testing.T) {
		u := Upload{Filename: "draft.txt", ContentType: "text/plain", Content: []byte("hi")}
		assert.Empty(t, u.Validate(allowed))
	})
	t.Run("unsupported type", func(t *testing.T) {
		u := Upload{Filename: "draft.pdf", ContentType: "application/pdf", Content: []byte("hi")}
		violations := u.Validate(allowed)
		require.Len(t, violations, 1)
		assert.Equal(t, "mimeType", violations[0].Rule)
	})
	t.Run("empty file", func(t *testing.T) {
		u := Upload{Filename: "draft.txt", ContentType: "text/plain"}
		violations := u.Validate(allowed)
		require.Len(t, violations, 1)
		assert.Equal(t, "required", violations[0].Rule)
	})
}

func TestValidationError(t *testing.T) {
	err := ErrorFromViolations(nil)
	assert.Nil(t, err)

	err = ErrorFromViolations([]FieldViolation{
		{Field: "title", Rule: "required", Message: "must not be empty"},
		{Field: "authors", Rule: "minLength", Message: "must contain at least one author"},
	})
	require.Error(t, err)
	assert.Equal(t, "validation failed: title: must not be empty; authors: must contain at least one author", err.Error())
}

func TestArticleUpdatePresentFields(t *testing.T) {
	title := "New title"
	grid := "grid123"
	assert.Nil(t, (&ArticleUpdate{}).PresentFields())
	assert.Equal(t, []string{"title"}, (&ArticleUpdate{Title: &title}).PresentFields())
	assert.Equal(t, []string{"title", "markingGridId"}, (&ArticleUpdate{Title: &title, MarkingGridID: &grid}).PresentFields())
}
