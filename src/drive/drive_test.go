package drive

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFolder(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/files", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id": "folder123"}`))
	}))
	defer srv.Close()

	client := &Client{BaseUrl: srv.URL, AccessToken: "test-token"}
	id, err := client.CreateFolder(context.Background(), "My Article", "parent1")
	require.NoError(t, err)
	assert.Equal(t, "folder123", id)
	assert.Equal(t, "My Article", gotBody["name"])
	assert.Equal(t, FolderMimeType, gotBody["mimeType"])
	assert.Equal(t, []any{"parent1"}, gotBody["parents"])
}

func TestCreateFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files", r.URL.Path)
		assert.Equal(t, "multipart", r.URL.Query().Get("uploadType"))

		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		require.Equal(t, "multipart/related", mediaType)

		reader := multipart.NewReader(r.Body, params["boundary"])

		metadataPart, err := reader.NextPart()
		require.NoError(t, err)
		var metadata map[string]any
		require.NoError(t, json.NewDecoder(metadataPart).Decode(&metadata))
		assert.Equal(t, "essay.docx", metadata["name"])
		assert.Equal(t, DocMimeType, metadata["mimeType"])

		mediaPart, err := reader.NextPart()
		require.NoError(t, err)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", mediaPart.Header.Get("Content-Type"))
		content, err := io.ReadAll(mediaPart)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), content)

		w.Write([]byte(`{"id": "doc456"}`))
	}))
	defer srv.Close()

	client := &Client{UploadBaseUrl: srv.URL, AccessToken: "test-token"}
	id, err := client.CreateFile(
		context.Background(),
		"essay.docx",
		[]byte("hello"),
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"folder123",
	)
	require.NoError(t, err)
	assert.Equal(t, "doc456", id)
}

func TestCopy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/grid-template/copy", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Marking grid", body["name"])
		assert.Equal(t, []any{"folder123"}, body["parents"])
		w.Write([]byte(`{"id": "grid789"}`))
	}))
	defer srv.Close()

	client := &Client{BaseUrl: srv.URL}
	id, err := client.Copy(context.Background(), "grid-template", "folder123", "Marking grid")
	require.NoError(t, err)
	assert.Equal(t, "grid789", id)
}

func TestShareFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/doc456/permissions", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, RoleWriter, body["role"])
		assert.Equal(t, "user", body["type"])
		assert.Equal(t, "author@example.com", body["emailAddress"])
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := &Client{BaseUrl: srv.URL}
	err := client.ShareFile(context.Background(), "doc456", RoleWriter, "author@example.com")
	require.NoError(t, err)
}

func TestExportFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/doc456/export", r.URL.Path)
		assert.Equal(t, ExportTextMimeType, r.URL.Query().Get("mimeType"))
		w.Write([]byte("the article text"))
	}))
	defer srv.Close()

	client := &Client{BaseUrl: srv.URL}
	body, err := client.ExportFile(context.Background(), "doc456", ExportTextMimeType)
	require.NoError(t, err)
	assert.Equal(t, []byte("the article text"), body)
}

func TestErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "insufficient permissions"}`))
	}))
	defer srv.Close()

	client := &Client{BaseUrl: srv.URL}
	_, err := client.CreateFolder(context.Background(), "My Article", "parent1")
	assert.Error(t, err)

	err = client.ShareFile(context.Background(), "doc456", RoleReader, "editor@example.com")
	assert.Error(t, err)
}
