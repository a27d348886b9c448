package wordpress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/wp-json/wp/v2/posts", r.URL.Path)

		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "publisher", username)
		assert.Equal(t, "app-password", password)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "My Article", body["title"])
		assert.Equal(t, "the article text", body["content"])
		assert.Equal(t, "publish", body["status"])

		w.Write([]byte(`{"id": 42, "link": "https://example.com/?p=42", "status": "publish"}`))
	}))
	defer srv.Close()

	client := &Client{BaseUrl: srv.URL, Username: "publisher", AppPassword: "app-password"}
	post, err := client.PublishArticle(context.Background(), "My Article", "the article text")
	require.NoError(t, err)
	assert.Equal(t, 42, post.ID)
	assert.Equal(t, "https://example.com/?p=42", post.Link)
}

func TestGetPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/wp-json/wp/v2/posts/42", r.URL.Path)
		w.Write([]byte(`{
			"id": 42,
			"link": "https://example.com/?p=42",
			"status": "publish",
			"title": {"rendered": "My Article"},
			"content": {"rendered": "<p>the article text</p>"}
		}`))
	}))
	defer srv.Close()

	client := &Client{BaseUrl: srv.URL}
	post, err := client.GetPost(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, post.ID)
	assert.Equal(t, "My Article", post.Title.Rendered)
	assert.Equal(t, "<p>the article text</p>", post.Content.Rendered)
}

func TestErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code": "rest_cannot_create"}`))
	}))
	defer srv.Close()

	client := &Client{BaseUrl: srv.URL}
	_, err := client.PublishArticle(context.Background(), "My Article", "text")
	assert.Error(t, err)

	_, err = client.GetPost(context.Background(), 42)
	assert.Error(t, err)
}
