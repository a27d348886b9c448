package dto

import (
	"fmt"
	"strings"

	"github.com/inkwell-press/inkwell/src/email"
)

// A single violated constraint on a single input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (v FieldViolation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

/*
ValidationError aggregates every violated constraint on an input, rather
than bailing on the first one. It is always raised before any external or
database mutation, so a failed validation never leaves partial state
anywhere.
*/
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Wraps violations in a *ValidationError, or returns nil if there are none.
func ErrorFromViolations(violations []FieldViolation) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

func required(field, value string) *FieldViolation {
	if strings.TrimSpace(value) == "" {
		return &FieldViolation{Field: field, Rule: "required", Message: "must not be empty"}
	}
	return nil
}

type AuthorInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	School  string `json:"school"`
	Bio     string `json:"bio"`
	Country string `json:"country"`
	Teacher string `json:"teacher"`
}

// Validate checks the author's field presence rules. The field argument
// prefixes each violation so authors validated as part of a larger input
// report useful paths like "authors[2].email".
func (in *AuthorInput) Validate(field string) []FieldViolation {
	var violations []FieldViolation
	appendIfViolated := func(v *FieldViolation) {
		if v != nil {
			v.Field = field + "." + v.Field
			violations = append(violations, *v)
		}
	}

	appendIfViolated(required("name", in.Name))
	appendIfViolated(required("email", in.Email))
	appendIfViolated(required("school", in.School))
	appendIfViolated(required("bio", in.Bio))
	appendIfViolated(required("country", in.Country))

	if in.Email != "" && !email.IsEmail(in.Email) {
		violations = append(violations, FieldViolation{
			Field:   field + ".email",
			Rule:    "email",
			Message: "must be a valid email address",
		})
	}

	// Teacher is optional.

	return violations
}

type ArticleInput struct {
	Title   string        `json:"title"`
	Authors []AuthorInput `json:"authors"`
}

func (in *ArticleInput) Validate() []FieldViolation {
	var violations []FieldViolation

	if v := required("title", in.Title); v != nil {
		violations = append(violations, *v)
	}

	if len(in.Authors) == 0 {
		violations = append(violations, FieldViolation{
			Field:   "authors",
			Rule:    "minLength",
			Message: "must contain at least one author",
		})
	}

	for i := range in.Authors {
		violations = append(violations, in.Authors[i].Validate(fmt.Sprintf("authors[%d]", i))...)
	}

	return violations
}

// A submitted article file, as pulled out of a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

func (u *Upload) Validate(allowedTypes []string) []FieldViolation {
	var violations []FieldViolation

	if len(u.Content) == 0 {
		violations = append(violations, FieldViolation{
			Field:   "file",
			Rule:    "required",
			Message: "must not be empty",
		})
	}

	allowed := false
	for _, t := range allowedTypes {
		if u.ContentType == t {
			allowed = true
			break
		}
	}
	if !allowed {
		violations = append(violations, FieldViolation{
			Field:   "file",
			Rule:    "mimeType",
			Message: fmt.Sprintf("unsupported file type '%s'", u.ContentType),
		})
	}

	return violations
}

/*
ArticleUpdate is a partial update: nil fields are "leave it alone". The
orchestration service applies a per-role whitelist on top; fields outside
the acting user's whitelist are dropped (or abort the update in fail
mode). The external document-store ids are deliberately not here - they
are set once at creation and never mutated.
*/
type ArticleUpdate struct {
	Title         *string `json:"title"`
	MarkingGridID *string `json:"markingGridId"`
}

// The names of the fields actually present on this update, in declaration
// order. Used for whitelist checks and error messages.
func (u *ArticleUpdate) PresentFields() []string {
	var fields []string
	if u.Title != nil {
		fields = append(fields, "title")
	}
	if u.MarkingGridID != nil {
		fields = append(fields, "markingGridId")
	}
	return fields
}
