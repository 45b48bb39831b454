package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/groblegark/knotes/internal/model"
)

// HTTPClient implements NotesClient using the knotes HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

var _ NotesClient = (*HTTPClient)(nil)

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Note CRUD ---

func (c *HTTPClient) ListNotes(ctx context.Context) ([]*model.Note, error) {
	var resp struct {
		Notes []*model.Note `json:"notes"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/notes", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Notes == nil {
		resp.Notes = []*model.Note{}
	}
	return resp.Notes, nil
}

func (c *HTTPClient) CreateNote(ctx context.Context, req *CreateNoteRequest) (*model.Note, error) {
	if req == nil {
		req = &CreateNoteRequest{}
	}
	var resp struct {
		Note *model.Note `json:"note"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/notes", req, &resp); err != nil {
		return nil, err
	}
	return resp.Note, nil
}

func (c *HTTPClient) UpdateNote(ctx context.Context, id string, patch *model.NotePatch) (*model.Note, error) {
	var resp struct {
		Note *model.Note `json:"note"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/v1/notes/"+url.PathEscape(id), patch, &resp); err != nil {
		return nil, err
	}
	return resp.Note, nil
}

func (c *HTTPClient) DeleteNote(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/notes/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) DeleteAllNotes(ctx context.Context) (int, error) {
	var resp struct {
		Success      bool `json:"success"`
		DeletedCount int  `json:"deletedCount"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/v1/notes", nil, &resp); err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}

// --- Images ---

func (c *HTTPClient) UploadImage(ctx context.Context, filename, contentType string, data []byte) (*UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename=%q`, filename)}
	if contentType != "" {
		hdr["Content-Type"] = []string{contentType}
	}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, fmt.Errorf("creating multipart form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("writing multipart form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/images/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, apiErrorFrom(resp.StatusCode, respBody)
	}

	var upload UploadResponse
	if err := json.Unmarshal(respBody, &upload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &upload, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func apiErrorFrom(status int, body []byte) *APIError {
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return &APIError{StatusCode: status, Message: errResp.Error}
	}
	return &APIError{StatusCode: status, Message: string(body)}
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return apiErrorFrom(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
