package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-press/inkwell/src/db"
	"github.com/inkwell-press/inkwell/src/dto"
	"github.com/inkwell-press/inkwell/src/inkdata"
	"github.com/inkwell-press/inkwell/src/models"
	"github.com/inkwell-press/inkwell/src/oops"
	"github.com/inkwell-press/inkwell/src/wordpress"
)

const maxUploadBytes = 32 * 1024 * 1024

type personJson struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type articleJson struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	FolderID      string    `json:"folderId"`
	DocID         string    `json:"docId"`
	MarkingGridID string    `json:"markingGridId"`
	WordPressID   *int      `json:"wordpressId"`

	CopyrightStatus string  `json:"copyrightStatus"`
	CopyrightDetail *string `json:"copyrightDetail"`

	CreatedAt time.Time `json:"createdAt"`

	Authors []personJson `json:"authors"`
	Editors []personJson `json:"editors"`
}

func articleToJson(article *models.Article) articleJson {
	result := articleJson{
		ID:              article.ID,
		Title:           article.Title,
		FolderID:        article.FolderID,
		DocID:           article.DocID,
		MarkingGridID:   article.MarkingGridID,
		WordPressID:     article.WordPressID,
		CopyrightStatus: article.CopyrightStatus.String(),
		CopyrightDetail: article.CopyrightDetail,
		CreatedAt:       article.CreatedAt,
		Authors:         []personJson{},
		Editors:         []personJson{},
	}
	for _, author := range article.Authors {
		result.Authors = append(result.Authors, personJson{ID: author.ID, Name: author.Name, Email: author.Email})
	}
	for _, editor := range article.Editors {
		result.Editors = append(result.Editors, personJson{ID: editor.ID, Name: editor.Name, Email: editor.Email})
	}
	return result
}

func postToJson(post *wordpress.Post) map[string]any {
	return map[string]any{
		"id":      post.ID,
		"link":    post.Link,
		"title":   post.Title.Rendered,
		"content": post.Content.Rendered,
	}
}

func (c *RequestContext) articleID() (uuid.UUID, bool) {
	id, err := uuid.Parse(c.PathParams["id"])
	return id, err == nil
}

// Turns service errors into responses: validation problems get the full
// list of violations, missing records get a 404.
func articleError(c *RequestContext, err error) ResponseData {
	if vErr, ok := err.(*dto.ValidationError); ok {
		var res ResponseData
		res.StatusCode = http.StatusBadRequest
		res.WriteJson(map[string]any{
			"error":      "validation failed",
			"violations": vErr.Violations,
		})
		return res
	}
	if err == db.NotFound {
		return c.ErrorResponse(http.StatusNotFound, err)
	}
	return c.ErrorResponse(http.StatusInternalServerError, err)
}

func articleCreate(c *RequestContext) ResponseData {
	if err := c.Req.ParseMultipartForm(maxUploadBytes); err != nil {
		return c.RejectRequest("expected a multipart form with an 'article' field and a 'file'")
	}

	var input dto.ArticleInput
	if err := json.Unmarshal([]byte(c.Req.FormValue("article")), &input); err != nil {
		return c.RejectRequest("the 'article' field must be valid JSON")
	}

	file, header, err := c.Req.FormFile("file")
	if err != nil {
		return c.RejectRequest("missing uploaded 'file'")
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to read uploaded file"))
	}

	upload := dto.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}

	article, err := c.Articles.Create(c, input, upload)
	if err != nil {
		return articleError(c, err)
	}

	var res ResponseData
	res.StatusCode = http.StatusCreated
	res.WriteJson(articleToJson(article))
	return res
}

func articleIndex(c *RequestContext) ResponseData {
	all, err := inkdata.FetchArticles(c, c.Conn)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	result := []articleJson{}
	for _, article := range all {
		result = append(result, articleToJson(article))
	}

	var res ResponseData
	res.WriteJson(result)
	return res
}

func articleGet(c *RequestContext) ResponseData {
	articleID, ok := c.articleID()
	if !ok {
		return c.RejectRequest("bad article id")
	}

	article, err := inkdata.FetchArticle(c, c.Conn, articleID)
	if err != nil {
		return articleError(c, err)
	}

	var res ResponseData
	res.WriteJson(articleToJson(article))
	return res
}

var jsonRoles = map[string]models.Role{
	"author": models.RoleAuthor,
	"editor": models.RoleEditor,
	"admin":  models.RoleAdmin,
}

func articleUpdate(c *RequestContext) ResponseData {
	articleID, ok := c.articleID()
	if !ok {
		return c.RejectRequest("bad article id")
	}

	role, ok := jsonRoles[c.URL().Query().Get("role")]
	if !ok {
		return c.RejectRequest("the 'role' query parameter must be author, editor, or admin")
	}
	strict := c.URL().Query().Get("strict") == "true"

	var update dto.ArticleUpdate
	if err := json.NewDecoder(c.Req.Body).Decode(&update); err != nil {
		return c.RejectRequest("bad update body")
	}

	article, err := c.Articles.Update(c, articleID, role, update, strict)
	if err != nil {
		return articleError(c, err)
	}

	var res ResponseData
	res.WriteJson(articleToJson(article))
	return res
}

func articleDelete(c *RequestContext) ResponseData {
	articleID, ok := c.articleID()
	if !ok {
		return c.RejectRequest("bad article id")
	}

	if err := c.Articles.Delete(c, articleID); err != nil {
		return articleError(c, err)
	}

	var res ResponseData
	res.StatusCode = http.StatusNoContent
	return res
}

func articleAssign(c *RequestContext) ResponseData {
	articleID, ok := c.articleID()
	if !ok {
		return c.RejectRequest("bad article id")
	}

	var body struct {
		EditorIDs []int `json:"editorIds"`
		Remove    bool  `json:"remove"`
	}
	if err := json.NewDecoder(c.Req.Body).Decode(&body); err != nil {
		return c.RejectRequest("bad assignment body")
	}

	article, err := c.Articles.Assign(c, articleID, body.EditorIDs, body.Remove)
	if err != nil {
		return articleError(c, err)
	}

	var res ResponseData
	res.WriteJson(articleToJson(article))
	return res
}

func articlePublish(c *RequestContext) ResponseData {
	articleID, ok := c.articleID()
	if !ok {
		return c.RejectRequest("bad article id")
	}

	article, post, err := c.Articles.Publish(c, articleID)
	if err != nil {
		return articleError(c, err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"article": articleToJson(article),
		"post":    postToJson(post),
	})
	return res
}

func articlePublished(c *RequestContext) ResponseData {
	articleID, ok := c.articleID()
	if !ok {
		return c.RejectRequest("bad article id")
	}

	article, post, err := c.Articles.GetPublished(c, articleID)
	if err != nil {
		return articleError(c, err)
	}
	if post == nil {
		var res ResponseData
		res.StatusCode = http.StatusNotFound
		res.WriteJson(map[string]any{"error": "this article has not been published"})
		return res
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"article": articleToJson(article),
		"post":    postToJson(post),
	})
	return res
}

func articleText(c *RequestContext) ResponseData {
	articleID, ok := c.articleID()
	if !ok {
		return c.RejectRequest("bad article id")
	}

	text, err := c.Articles.GetText(c, articleID)
	if err != nil {
		return articleError(c, err)
	}

	var res ResponseData
	res.Header().Set("Content-Type", "text/plain; charset=utf-8")
	res.Write([]byte(text))
	return res
}

func editorIndex(c *RequestContext) ResponseData {
	editors, err := inkdata.FetchEditors(c, c.Conn)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	result := []personJson{}
	for _, editor := range editors {
		result = append(result, personJson{ID: editor.ID, Name: editor.Name, Email: editor.Email})
	}

	var res ResponseData
	res.WriteJson(result)
	return res
}

func fourOhFour(c *RequestContext) ResponseData {
	var res ResponseData
	res.StatusCode = http.StatusNotFound
	res.WriteJson(map[string]any{"error": "not found"})
	return res
}
