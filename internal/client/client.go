// Package client is a typed HTTP client for the notes service.
//
// Failures are classified the way the board expects them: anything that keeps
// a request from producing a usable response wraps [board.ErrNetwork], and
// every non-success status comes back as a [*board.RejectedError].
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"thinkvault/internal/board"
)

// RequestIDHeader carries the board operation id to the service.
const RequestIDHeader = "X-Request-ID"

// Client talks to the notes REST API.
//
// Client instances are safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Zero leaves the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client. baseURL includes scheme and host, e.g. "http://localhost:5001".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type reorderRequest struct {
	Notes []board.Note `json:"notes"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := board.OperationID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", board.ErrNetwork, method, path, err)
	}
	return resp, nil
}

// decodeResponse closes the body. target may be nil.
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		rejected := &board.RejectedError{StatusCode: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && (eb.Error != "" || eb.Message != "") {
			rejected.Message = eb.Error
			if rejected.Message == "" {
				rejected.Message = eb.Message
			}
		} else {
			rejected.Message = strings.TrimSpace(string(raw))
		}
		return rejected
	}

	if target == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decode response: %w", board.ErrNetwork, err)
	}
	return nil
}

// Health checks that the service answers.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

// List returns every note.
func (c *Client) List(ctx context.Context) ([]board.Note, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/notes", nil)
	if err != nil {
		return nil, err
	}

	var notes []board.Note
	if err := decodeResponse(resp, &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []board.Note{}
	}
	return notes, nil
}

// Search asks the service for notes whose title or content matches q.
func (c *Client) Search(ctx context.Context, q string) ([]board.Note, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/notes/search?q="+url.QueryEscape(q), nil)
	if err != nil {
		return nil, err
	}

	var notes []board.Note
	if err := decodeResponse(resp, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// Get retrieves a note by id.
func (c *Client) Get(ctx context.Context, id string) (board.Note, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/notes/"+url.PathEscape(id), nil)
	if err != nil {
		return board.Note{}, err
	}

	var note board.Note
	if err := decodeResponse(resp, &note); err != nil {
		return board.Note{}, err
	}
	return note, nil
}

// Create stores a new note. The service assigns id, status and timestamps.
func (c *Client) Create(ctx context.Context, title, content string) (board.Note, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/notes", createNoteRequest{Title: title, Content: content})
	if err != nil {
		return board.Note{}, err
	}

	var note board.Note
	if err := decodeResponse(resp, &note); err != nil {
		return board.Note{}, err
	}
	return note, nil
}

// Update applies a partial update.
func (c *Client) Update(ctx context.Context, id string, patch board.Patch) (board.Note, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, "/api/notes/"+url.PathEscape(id), patch)
	if err != nil {
		return board.Note{}, err
	}

	var note board.Note
	if err := decodeResponse(resp, &note); err != nil {
		return board.Note{}, err
	}
	return note, nil
}

// Delete removes a note.
func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

// Reorder sends the whole collection as the new status and position assignment.
func (c *Client) Reorder(ctx context.Context, notes []board.Note) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/notes/reorder", reorderRequest{Notes: notes})
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

var _ board.Remote = (*Client)(nil)
var _ board.Pinger = (*Client)(nil)
