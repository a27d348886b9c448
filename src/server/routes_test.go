package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/inkwell-press/inkwell/src/articles"
	"github.com/inkwell-press/inkwell/src/db"
	"github.com/inkwell-press/inkwell/src/events"
	"github.com/inkwell-press/inkwell/src/models"
	"github.com/inkwell-press/inkwell/src/wordpress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docxType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func TestRouting(t *testing.T) {
	router := &Router{}
	rb := RouteBuilder{Router: router}

	rb.GET(regexp.MustCompile(`^/things/(?P<id>[^/]+)$`), func(c *RequestContext) ResponseData {
		var res ResponseData
		res.WriteJson(map[string]any{"id": c.PathParams["id"]})
		return res
	})
	rb.AnyMethod(regexp.MustCompile(`^`), fourOhFour)

	srv := httptest.NewServer(router)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/things/abc123")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	body, _ := io.ReadAll(res.Body)
	assert.Contains(t, string(body), "abc123")

	res, err = http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	// Routing is method-aware
	res, err = http.Post(srv.URL+"/things/abc123", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

// In-memory stand-ins for the service's collaborators, so the HTTP layer
// can be exercised end to end without postgres or external services.

type memStore struct {
	articles map[uuid.UUID]*models.Article
	editors  map[int]*models.Editor
	nextID   int
}

func newMemStore() *memStore {
	return &memStore{
		articles: make(map[uuid.UUID]*models.Article),
		editors:  make(map[int]*models.Editor),
		nextID:   1,
	}
}

func (s *memStore) FetchArticle(ctx context.Context, articleID uuid.UUID) (*models.Article, error) {
	article, ok := s.articles[articleID]
	if !ok {
		return nil, db.NotFound
	}
	copied := *article
	return &copied, nil
}

func (s *memStore) FetchAuthorByEmail(ctx context.Context, email string) (*models.Author, error) {
	return nil, db.NotFound
}

func (s *memStore) FetchEditor(ctx context.Context, editorID int) (*models.Editor, error) {
	editor, ok := s.editors[editorID]
	if !ok {
		return nil, db.NotFound
	}
	return editor, nil
}

func (s *memStore) SaveArticle(ctx context.Context, article *models.Article) error {
	for _, author := range article.Authors {
		if author.ID == 0 {
			author.ID = s.nextID
			s.nextID++
		}
	}
	s.articles[article.ID] = article
	return nil
}

func (s *memStore) UpdateArticle(ctx context.Context, article *models.Article) error {
	if _, ok := s.articles[article.ID]; !ok {
		return db.NotFound
	}
	s.articles[article.ID] = article
	return nil
}

func (s *memStore) DeleteArticle(ctx context.Context, articleID uuid.UUID) error {
	if _, ok := s.articles[articleID]; !ok {
		return db.NotFound
	}
	delete(s.articles, articleID)
	return nil
}

type memDrive struct{}

func (memDrive) CreateFolder(ctx context.Context, name string, parentID string) (string, error) {
	return "folder-1", nil
}
func (memDrive) CreateFile(ctx context.Context, name string, content []byte, mimeType string, parentID string) (string, error) {
	return "doc-1", nil
}
func (memDrive) Copy(ctx context.Context, sourceID string, destID string, name string) (string, error) {
	return "grid-1", nil
}
func (memDrive) ShareFile(ctx context.Context, fileID string, role string, email string) error {
	return nil
}
func (memDrive) ExportFile(ctx context.Context, fileID string, mimeType string) ([]byte, error) {
	return []byte("the article text"), nil
}

type memPublisher struct {
	nextPostID int
}

func (p *memPublisher) PublishArticle(ctx context.Context, title string, content string) (*wordpress.Post, error) {
	p.nextPostID++
	return &wordpress.Post{
		ID:     p.nextPostID,
		Status: "publish",
		Title:  wordpress.RenderedText{Rendered: title},
	}, nil
}

func (p *memPublisher) GetPost(ctx context.Context, postID int) (*wordpress.Post, error) {
	return &wordpress.Post{
		ID:      postID,
		Status:  "publish",
		Content: wordpress.RenderedText{Rendered: "the article text"},
	}, nil
}

type memMailer struct{}

func (memMailer) SendEditorAssignedEmail(toAddress, toName, articleTitle string) error {
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	store := newMemStore()
	svc := &articles.Service{
		Store:     store,
		Drive:     memDrive{},
		Publisher: &memPublisher{},
		Mailer:    memMailer{},
		Events:    events.NewRegistry(),

		ParentFolderID:     "parent",
		MarkingGridFileID:  "grid-template",
		AllowedUploadTypes: []string{docxType},
	}
	srv := httptest.NewServer(NewApiRoutes(nil, svc))
	t.Cleanup(srv.Close)
	return srv, store
}

func postArticle(t *testing.T, srv *httptest.Server, articleField string) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("article", articleField))

	filePart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="file"; filename="essay.docx"`},
		"Content-Type":        {docxType},
	})
	require.NoError(t, err)
	filePart.Write([]byte("words"))
	require.NoError(t, writer.Close())

	res, err := http.Post(srv.URL+"/articles", writer.FormDataContentType(), &body)
	require.NoError(t, err)
	return res
}

const validArticleField = `{
	"title": "On Writing",
	"authors": [
		{"name": "Ann Author", "email": "ann@example.com", "school": "Northfield", "bio": "Writes.", "country": "UK"}
	]
}`

func TestArticleLifecycleOverHTTP(t *testing.T) {
	srv, store := newTestServer(t)
	store.editors[1] = &models.Editor{Person: models.Person{
		ID: 1, Name: "Ed One", Email: "ed1@example.com", Role: models.RoleEditor,
	}}

	// Create
	res := postArticle(t, srv, validArticleField)
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created articleJson
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	assert.Equal(t, "On Writing", created.Title)
	assert.Equal(t, "doc-1", created.DocID)
	assert.Equal(t, "pending", created.CopyrightStatus)
	require.Len(t, created.Authors, 1)

	base := fmt.Sprintf("%s/articles/%s", srv.URL, created.ID)

	// Unpublished articles have no published form
	res, err := http.Get(base + "/published")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	// Update title as an editor
	res, err = http.Post(base+"?role=editor", "application/json", strings.NewReader(`{"title": "On Rewriting"}`))
	require.NoError(t, err)
	var updated articleJson
	require.NoError(t, json.NewDecoder(res.Body).Decode(&updated))
	res.Body.Close()
	assert.Equal(t, "On Rewriting", updated.Title)

	// Assign an editor
	res, err = http.Post(base+"/editors", "application/json", strings.NewReader(`{"editorIds": [1]}`))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(res.Body).Decode(&updated))
	res.Body.Close()
	require.Len(t, updated.Editors, 1)
	assert.Equal(t, "Ed One", updated.Editors[0].Name)

	// Publish, then fetch the published form
	res, err = http.Post(base+"/publish", "application/json", nil)
	require.NoError(t, err)
	var publishResult struct {
		Article articleJson `json:"article"`
		Post    struct {
			ID int `json:"id"`
		} `json:"post"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&publishResult))
	res.Body.Close()
	require.NotNil(t, publishResult.Article.WordPressID)
	assert.Equal(t, publishResult.Post.ID, *publishResult.Article.WordPressID)

	res, err = http.Get(base + "/published")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Contains(t, string(body), "the article text")

	// Plain-text export
	res, err = http.Get(base + "/text")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/plain")
	body, _ = io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, "the article text", string(body))

	// Delete
	req, _ := http.NewRequest(http.MethodDelete, base, nil)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestArticleCreateValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	res := postArticle(t, srv, `{"title": "", "authors": []}`)
	defer res.Body.Close()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	var body struct {
		Error      string `json:"error"`
		Violations []struct {
			Field string `json:"field"`
			Rule  string `json:"rule"`
		} `json:"violations"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "validation failed", body.Error)
	assert.NotEmpty(t, body.Violations)
}
