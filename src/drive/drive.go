package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/inkwell-press/inkwell/src/config"
	"github.com/inkwell-press/inkwell/src/logging"
	"github.com/inkwell-press/inkwell/src/oops"
)

const (
	// The store-native document type. Uploaded files are converted to this
	// so they can be collaboratively edited and exported later.
	DocMimeType    = "application/vnd.google-apps.document"
	FolderMimeType = "application/vnd.google-apps.folder"

	ExportTextMimeType = "text/plain"

	RoleWriter = "writer"
	RoleReader = "reader"
)

var httpClient = &http.Client{}

// Client is a thin wrapper over the document store's REST API. One folder
// and one converted document per article, plus permission grants and
// plain-text export.
type Client struct {
	BaseUrl       string
	UploadBaseUrl string
	AccessToken   string
}

func NewClient() *Client {
	return &Client{
		BaseUrl:       config.Config.Drive.BaseUrl,
		UploadBaseUrl: config.Config.Drive.UploadBaseUrl,
		AccessToken:   config.Config.Drive.AccessToken,
	}
}

func (c *Client) makeRequest(ctx context.Context, method string, url string, body io.Reader) *http.Request {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		panic(err)
	}
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.AccessToken))

	return req
}

type fileResponse struct {
	ID string `json:"id"`
}

// Creates a folder under the given parent and returns its id.
func (c *Client) CreateFolder(ctx context.Context, name string, parentID string) (string, error) {
	const opName = "Create Folder"

	metadata := map[string]any{
		"name":     name,
		"mimeType": FolderMimeType,
		"parents":  []string{parentID},
	}
	payload, err := json.Marshal(metadata)
	if err != nil {
		panic(err)
	}

	req := c.makeRequest(ctx, http.MethodPost, fmt.Sprintf("%s/files", c.BaseUrl), bytes.NewReader(payload))
	req.Header.Add("Content-Type", "application/json")

	res, err := httpClient.Do(req)
	if err != nil {
		return "", oops.New(err, "failed to create folder")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		logErrorResponse(ctx, opName, res)
		return "", oops.New(nil, "received error from document store")
	}

	var folder fileResponse
	if err := json.NewDecoder(res.Body).Decode(&folder); err != nil {
		return "", oops.New(err, "failed to unmarshal document store response")
	}

	return folder.ID, nil
}

/*
Uploads the given file contents into the parent folder as a store-native
document, converting from the submitted MIME type. This is a
multipart/related upload: a JSON metadata part followed by the media part.
Returns the new document's id.
*/
func (c *Client) CreateFile(ctx context.Context, name string, content []byte, mimeType string, parentID string) (string, error) {
	const opName = "Create File"

	metadata := map[string]any{
		"name":     name,
		"mimeType": DocMimeType,
		"parents":  []string{parentID},
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		panic(err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	metadataPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"application/json; charset=UTF-8"},
	})
	if err != nil {
		panic(err)
	}
	metadataPart.Write(metadataJSON)

	mediaPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {mimeType},
	})
	if err != nil {
		panic(err)
	}
	mediaPart.Write(content)

	if err := writer.Close(); err != nil {
		panic(err)
	}

	req := c.makeRequest(ctx, http.MethodPost, fmt.Sprintf("%s/files?uploadType=multipart", c.UploadBaseUrl), &body)
	req.Header.Add("Content-Type", fmt.Sprintf("multipart/related; boundary=%s", writer.Boundary()))

	res, err := httpClient.Do(req)
	if err != nil {
		return "", oops.New(err, "failed to upload file")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		logErrorResponse(ctx, opName, res)
		return "", oops.New(nil, "received error from document store")
	}

	var file fileResponse
	if err := json.NewDecoder(res.Body).Decode(&file); err != nil {
		return "", oops.New(err, "failed to unmarshal document store response")
	}

	return file.ID, nil
}

// Copies an existing file into the destination folder under a new name and
// returns the copy's id. Used for the marking grid template.
func (c *Client) Copy(ctx context.Context, sourceID string, destID string, name string) (string, error) {
	const opName = "Copy File"

	metadata := map[string]any{
		"name":    name,
		"parents": []string{destID},
	}
	payload, err := json.Marshal(metadata)
	if err != nil {
		panic(err)
	}

	req := c.makeRequest(ctx, http.MethodPost, fmt.Sprintf("%s/files/%s/copy", c.BaseUrl, url.PathEscape(sourceID)), bytes.NewReader(payload))
	req.Header.Add("Content-Type", "application/json")

	res, err := httpClient.Do(req)
	if err != nil {
		return "", oops.New(err, "failed to copy file")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		logErrorResponse(ctx, opName, res)
		return "", oops.New(nil, "received error from document store")
	}

	var file fileResponse
	if err := json.NewDecoder(res.Body).Decode(&file); err != nil {
		return "", oops.New(err, "failed to unmarshal document store response")
	}

	return file.ID, nil
}

// Grants the given role on a file to the person with the given email.
func (c *Client) ShareFile(ctx context.Context, fileID string, role string, email string) error {
	const opName = "Share File"

	permission := map[string]any{
		"role":         role,
		"type":         "user",
		"emailAddress": email,
	}
	payload, err := json.Marshal(permission)
	if err != nil {
		panic(err)
	}

	req := c.makeRequest(ctx, http.MethodPost, fmt.Sprintf("%s/files/%s/permissions", c.BaseUrl, url.PathEscape(fileID)), bytes.NewReader(payload))
	req.Header.Add("Content-Type", "application/json")

	res, err := httpClient.Do(req)
	if err != nil {
		return oops.New(err, "failed to share file")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		logErrorResponse(ctx, opName, res)
		return oops.New(nil, "received error from document store")
	}

	return nil
}

// Exports a store-native document in the requested format and returns the
// raw bytes.
func (c *Client) ExportFile(ctx context.Context, fileID string, mimeType string) ([]byte, error) {
	const opName = "Export File"

	query := url.Values{}
	query.Add("mimeType", mimeType)
	req := c.makeRequest(ctx, http.MethodGet, fmt.Sprintf("%s/files/%s/export?%s", c.BaseUrl, url.PathEscape(fileID), query.Encode()), nil)

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, oops.New(err, "failed to export file")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		logErrorResponse(ctx, opName, res)
		return nil, oops.New(nil, "received error from document store")
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, oops.New(err, "failed to read export body")
	}

	return body, nil
}

func logErrorResponse(ctx context.Context, name string, res *http.Response) {
	body, _ := io.ReadAll(res.Body)
	logging.ExtractLogger(ctx).Error().
		Str("api", name).
		Int("status code", res.StatusCode).
		Str("body", string(body)).
		Msg("got an error response from the document store")
}
