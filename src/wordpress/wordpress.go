package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/inkwell-press/inkwell/src/config"
	"github.com/inkwell-press/inkwell/src/logging"
	"github.com/inkwell-press/inkwell/src/oops"
)

var httpClient = &http.Client{}

// Client talks to a WordPress site over the REST API using an application
// password.
type Client struct {
	BaseUrl     string
	Username    string
	AppPassword string
}

func NewClient() *Client {
	return &Client{
		BaseUrl:     config.Config.WordPress.BaseUrl,
		Username:    config.Config.WordPress.Username,
		AppPassword: config.Config.WordPress.AppPassword,
	}
}

type Post struct {
	ID      int          `json:"id"`
	Link    string       `json:"link"`
	Status  string       `json:"status"`
	Title   RenderedText `json:"title"`
	Content RenderedText `json:"content"`
}

type RenderedText struct {
	Rendered string `json:"rendered"`
}

func (c *Client) makeRequest(ctx context.Context, method string, url string, body io.Reader) *http.Request {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		panic(err)
	}
	req.SetBasicAuth(c.Username, c.AppPassword)

	return req
}

// Publishes the article as a new public post and returns the created
// post. Always creates a fresh post; republishing an article makes a
// new one.
func (c *Client) PublishArticle(ctx context.Context, title string, content string) (*Post, error) {
	const opName = "Publish Article"

	payload, err := json.Marshal(map[string]any{
		"title":   title,
		"content": content,
		"status":  "publish",
	})
	if err != nil {
		panic(err)
	}

	req := c.makeRequest(ctx, http.MethodPost, fmt.Sprintf("%s/wp-json/wp/v2/posts", c.BaseUrl), bytes.NewReader(payload))
	req.Header.Add("Content-Type", "application/json")

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, oops.New(err, "failed to create post")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		logErrorResponse(ctx, opName, res)
		return nil, oops.New(nil, "received error from WordPress")
	}

	var post Post
	if err := json.NewDecoder(res.Body).Decode(&post); err != nil {
		return nil, oops.New(err, "failed to unmarshal WordPress response")
	}

	return &post, nil
}

// Fetches a published post by id.
func (c *Client) GetPost(ctx context.Context, id int) (*Post, error) {
	const opName = "Get Post"

	req := c.makeRequest(ctx, http.MethodGet, fmt.Sprintf("%s/wp-json/wp/v2/posts/%d", c.BaseUrl, id), nil)

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, oops.New(err, "failed to fetch post")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		logErrorResponse(ctx, opName, res)
		return nil, oops.New(nil, "received error from WordPress")
	}

	var post Post
	if err := json.NewDecoder(res.Body).Decode(&post); err != nil {
		return nil, oops.New(err, "failed to unmarshal WordPress response")
	}

	return &post, nil
}

func logErrorResponse(ctx context.Context, name string, res *http.Response) {
	body, _ := io.ReadAll(res.Body)
	logging.ExtractLogger(ctx).Error().
		Str("api", name).
		Int("status code", res.StatusCode).
		Str("body", string(body)).
		Msg("got an error response from WordPress")
}
