package articles

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-press/inkwell/src/auth"
	"github.com/inkwell-press/inkwell/src/config"
	"github.com/inkwell-press/inkwell/src/db"
	"github.com/inkwell-press/inkwell/src/drive"
	"github.com/inkwell-press/inkwell/src/dto"
	"github.com/inkwell-press/inkwell/src/events"
	"github.com/inkwell-press/inkwell/src/jobs"
	"github.com/inkwell-press/inkwell/src/logging"
	"github.com/inkwell-press/inkwell/src/models"
	"github.com/inkwell-press/inkwell/src/oops"
	"github.com/inkwell-press/inkwell/src/wordpress"
)

// Store is the persistence surface the service needs. *inkdata.Store is
// the real implementation.
type Store interface {
	FetchArticle(ctx context.Context, articleID uuid.UUID) (*models.Article, error)
	FetchAuthorByEmail(ctx context.Context, email string) (*models.Author, error)
	FetchEditor(ctx context.Context, editorID int) (*models.Editor, error)
	SaveArticle(ctx context.Context, article *models.Article) error
	UpdateArticle(ctx context.Context, article *models.Article) error
	DeleteArticle(ctx context.Context, articleID uuid.UUID) error
}

// Drive is the document-store surface the service needs. *drive.Client is
// the real implementation.
type Drive interface {
	CreateFolder(ctx context.Context, name string, parentID string) (string, error)
	CreateFile(ctx context.Context, name string, content []byte, mimeType string, parentID string) (string, error)
	Copy(ctx context.Context, sourceID string, destID string, name string) (string, error)
	ShareFile(ctx context.Context, fileID string, role string, email string) error
	ExportFile(ctx context.Context, fileID string, mimeType string) ([]byte, error)
}

// Publisher is the publishing-platform surface the service needs.
// *wordpress.Client is the real implementation.
type Publisher interface {
	PublishArticle(ctx context.Context, title string, content string) (*wordpress.Post, error)
	GetPost(ctx context.Context, postID int) (*wordpress.Post, error)
}

type Mailer interface {
	SendEditorAssignedEmail(toAddress, toName, articleTitle string) error
}

/*
Service orchestrates the article lifecycle: creation against the document
store, editor assignment, publishing, and deletion. It owns no state of
its own beyond in-flight share jobs; everything durable lives behind
Store.
*/
type Service struct {
	Store     Store
	Drive     Drive
	Publisher Publisher
	Mailer    Mailer
	Events    *events.Registry

	ParentFolderID     string
	MarkingGridFileID  string
	AllowedUploadTypes []string

	sharesMu  sync.Mutex
	shareJobs jobs.Jobs
}

func NewService(
	store Store,
	driveClient Drive,
	publisher Publisher,
	mailer Mailer,
	registry *events.Registry,
) *Service {
	return &Service{
		Store:     store,
		Drive:     driveClient,
		Publisher: publisher,
		Mailer:    mailer,
		Events:    registry,

		ParentFolderID:     config.Config.Drive.ParentFolderID,
		MarkingGridFileID:  config.Config.Drive.MarkingGridFileID,
		AllowedUploadTypes: config.Config.Articles.AllowedUploadTypes,
	}
}

/*
Creates an article from a validated submission: a folder in the document
store, the uploaded file converted to a store-native doc, a copy of the
marking grid template, and a database record tying it all to its authors.

Validation happens before anything else, so an invalid submission never
touches the document store or the database. Authors are reused by email;
a submission from a known email reuses that account rather than creating
a duplicate. Unknown emails become new author accounts, persisted
together with the article in a single transaction. Share grants for the
authors are fired off in the background and do not affect the result.

If a document-store call fails partway through, the files already created
are left behind in the store; nothing at all is recorded in the database,
so they are orphans to be cleaned up by hand.
*/
func (s *Service) Create(ctx context.Context, input dto.ArticleInput, upload dto.Upload) (*models.Article, error) {
	var violations []dto.FieldViolation
	violations = append(violations, input.Validate()...)
	violations = append(violations, upload.Validate(s.AllowedUploadTypes)...)
	if err := dto.ErrorFromViolations(violations); err != nil {
		return nil, err
	}

	authors := make([]*models.Author, 0, len(input.Authors))
	for _, authorInput := range input.Authors {
		author, err := s.Store.FetchAuthorByEmail(ctx, authorInput.Email)
		if err == db.NotFound {
			// Unresolved authors stay in memory until SaveArticle inserts
			// them alongside the article.
			author = &models.Author{
				Person: models.Person{
					Name:     authorInput.Name,
					Email:    authorInput.Email,
					Password: auth.HashPassword(uuid.NewString()).String(),
					Role:     models.RoleAuthor,
				},
				School:  authorInput.School,
				Bio:     authorInput.Bio,
				Country: authorInput.Country,
				Teacher: authorInput.Teacher,
			}
			err = nil
		}
		if err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}

	folderID, err := s.Drive.CreateFolder(ctx, input.Title, s.ParentFolderID)
	if err != nil {
		return nil, err
	}
	docID, err := s.Drive.CreateFile(ctx, upload.Filename, upload.Content, upload.ContentType, folderID)
	if err != nil {
		return nil, err
	}
	gridID, err := s.Drive.Copy(ctx, s.MarkingGridFileID, folderID, fmt.Sprintf("Marking Grid for %s", input.Title))
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		ID:              uuid.New(),
		Title:           input.Title,
		FolderID:        folderID,
		DocID:           docID,
		MarkingGridID:   gridID,
		CopyrightStatus: models.CopyrightPending,
		CreatedAt:       time.Now(),
		Authors:         authors,
	}
	if err := s.Store.SaveArticle(ctx, article); err != nil {
		return nil, err
	}

	s.shareWithAuthors(article)

	s.Events.Dispatch(ctx, events.ArticleCreated, events.ArticleCreatedPayload{
		Article: article,
	})

	return article, nil
}

// Grants every author write access to the article doc in the background.
// Failures are logged and otherwise ignored; the authors can always be
// re-shared by hand.
func (s *Service) shareWithAuthors(article *models.Article) {
	job := jobs.New(fmt.Sprintf("share article %s", article.ID))

	s.sharesMu.Lock()
	s.shareJobs = append(s.shareJobs.Prune(), job)
	s.sharesMu.Unlock()

	go func() {
		defer job.Finish()
		for _, author := range article.Authors {
			if err := s.Drive.ShareFile(job.Ctx, article.DocID, drive.RoleWriter, author.Email); err != nil {
				job.Logger.Error().Err(err).
					Str("email", author.Email).
					Msg("failed to share article doc with author")
			}
		}
	}()
}

// Cancels outstanding share jobs and waits for them, returning the names
// of any that did not finish in time. Called on server shutdown.
func (s *Service) ShutdownShares(timeout time.Duration) []string {
	s.sharesMu.Lock()
	inFlight := s.shareJobs
	s.sharesMu.Unlock()
	return inFlight.CancelAndWait(timeout)
}

// The article fields each role is allowed to update. Fields outside the
// acting role's whitelist are dropped, or abort the whole update when
// failOnDenied is set.
var updatableFields = map[models.Role][]string{
	models.RoleAuthor: {"title"},
	models.RoleEditor: {"title", "markingGridId"},
	models.RoleAdmin:  {"title", "markingGridId"},
}

/*
Applies a partial update to an article on behalf of someone with the
given role. Nil fields are left alone. With failOnDenied, a single field
outside the role's whitelist fails the whole update without writing
anything; otherwise denied fields are silently dropped and the rest
applied. Updating an article that does not exist is an error.
*/
func (s *Service) Update(
	ctx context.Context,
	articleID uuid.UUID,
	role models.Role,
	update dto.ArticleUpdate,
	failOnDenied bool,
) (*models.Article, error) {
	allowed := make(map[string]bool)
	for _, field := range updatableFields[role] {
		allowed[field] = true
	}

	var denied []string
	for _, field := range update.PresentFields() {
		if !allowed[field] {
			denied = append(denied, field)
		}
	}
	if len(denied) > 0 && failOnDenied {
		return nil, oops.New(nil, "role %s may not update fields %v", role, denied)
	}

	article, err := s.Store.FetchArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil && allowed["title"] {
		article.Title = *update.Title
	}
	if update.MarkingGridID != nil && allowed["markingGridId"] {
		article.MarkingGridID = *update.MarkingGridID
	}

	if err := s.Store.UpdateArticle(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Deletes the article record and its associations. The document-store
// files are deliberately untouched; deletion forgets the article without
// destroying anyone's writing.
func (s *Service) Delete(ctx context.Context, articleID uuid.UUID) error {
	return s.Store.DeleteArticle(ctx, articleID)
}

/*
Publishes the article's current text to the publishing platform and
records the resulting post id, returning the article alongside the
platform's view of the new post. Publishing is not idempotent:
publishing twice creates two posts, and the article only remembers the
latest one.
*/
func (s *Service) Publish(ctx context.Context, articleID uuid.UUID) (*models.Article, *wordpress.Post, error) {
	article, err := s.Store.FetchArticle(ctx, articleID)
	if err != nil {
		return nil, nil, err
	}

	text, err := s.exportText(ctx, article)
	if err != nil {
		return nil, nil, err
	}

	post, err := s.Publisher.PublishArticle(ctx, article.Title, text)
	if err != nil {
		return nil, nil, err
	}

	article.WordPressID = &post.ID
	if err := s.Store.UpdateArticle(ctx, article); err != nil {
		return nil, nil, err
	}
	return article, post, nil
}

// Fetches the published form of the article from the publishing
// platform, returning the article paired with its post. The post is nil,
// and the platform is not called at all, if the article has never been
// published.
func (s *Service) GetPublished(ctx context.Context, articleID uuid.UUID) (*models.Article, *wordpress.Post, error) {
	article, err := s.Store.FetchArticle(ctx, articleID)
	if err != nil {
		return nil, nil, err
	}

	if !article.IsPublished() {
		return article, nil, nil
	}

	post, err := s.Publisher.GetPost(ctx, *article.WordPressID)
	if err != nil {
		return nil, nil, err
	}
	return article, post, nil
}

/*
Assigns editors to, or removes them from, an article. Assignment is a
set union: editors already assigned stay assigned, duplicates in the
input collapse, and an assignment event (plus a notification email) fires
exactly once per editor who is actually new, in input order. Removal is
likewise idempotent and fires no events. Every referenced editor must
exist.
*/
func (s *Service) Assign(
	ctx context.Context,
	articleID uuid.UUID,
	editorIDs []int,
	remove bool,
) (*models.Article, error) {
	article, err := s.Store.FetchArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	assigned := make(map[int]bool)
	for _, editor := range article.Editors {
		assigned[editor.ID] = true
	}

	seen := make(map[int]bool)
	var newEditors []*models.Editor
	for _, editorID := range editorIDs {
		if seen[editorID] {
			continue
		}
		seen[editorID] = true

		editor, err := s.Store.FetchEditor(ctx, editorID)
		if err != nil {
			if err == db.NotFound {
				return nil, oops.New(nil, "no editor with id %d", editorID)
			}
			return nil, err
		}

		if remove {
			if assigned[editorID] {
				delete(assigned, editorID)
				editors := article.Editors[:0]
				for _, e := range article.Editors {
					if e.ID != editorID {
						editors = append(editors, e)
					}
				}
				article.Editors = editors
			}
		} else if !assigned[editorID] {
			assigned[editorID] = true
			article.Editors = append(article.Editors, editor)
			newEditors = append(newEditors, editor)
		}
	}

	if err := s.Store.UpdateArticle(ctx, article); err != nil {
		return nil, err
	}

	for _, editor := range newEditors {
		s.Events.Dispatch(ctx, events.ArticleAssigned, events.ArticleAssignedPayload{
			Article: article,
			Editor:  editor,
		})
		if err := s.Mailer.SendEditorAssignedEmail(editor.Email, editor.Name, article.Title); err != nil {
			logging.ExtractLogger(ctx).Error().Err(err).
				Str("email", editor.Email).
				Msg("failed to send editor assignment email")
		}
	}

	return article, nil
}

// Fetches the article's current text from the document store as plain
// text.
func (s *Service) GetText(ctx context.Context, articleID uuid.UUID) (string, error) {
	article, err := s.Store.FetchArticle(ctx, articleID)
	if err != nil {
		return "", err
	}
	return s.exportText(ctx, article)
}

func (s *Service) exportText(ctx context.Context, article *models.Article) (string, error) {
	text, err := s.Drive.ExportFile(ctx, article.DocID, drive.ExportTextMimeType)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// Records the outcome of a copyright check on the article.
func (s *Service) UpdateCopyright(
	ctx context.Context,
	articleID uuid.UUID,
	status models.CopyrightStatus,
	detail *string,
) error {
	article, err := s.Store.FetchArticle(ctx, articleID)
	if err != nil {
		return err
	}

	article.CopyrightStatus = status
	article.CopyrightDetail = detail
	return s.Store.UpdateArticle(ctx, article)
}
