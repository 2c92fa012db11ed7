package anki

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/wortschatz/internal/apperr"
)

const (
	// DefaultURL is where the AnkiConnect add-on listens by default
	DefaultURL = "http://localhost:8765"

	// APIVersion is the AnkiConnect protocol version spoken by the client
	APIVersion = 6

	serviceName = "ankiconnect"
)

// RemoteError is returned when AnkiConnect answers with a non-null error
type RemoteError struct {
	Action  string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("ankiconnect %s: %s", e.Action, e.Message)
}

// Is makes RemoteError match apperr.ErrRemote
func (e *RemoteError) Is(target error) bool {
	return target == apperr.ErrRemote
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// Client talks to the AnkiConnect automation endpoint
type Client struct {
	url        string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new AnkiConnect client
func NewClient(url string, opts ...Option) *Client {
	if url == "" {
		url = DefaultURL
	}

	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint the client posts to
func (c *Client) URL() string {
	return c.url
}

// invoke performs one request/response round trip and decodes the result
// into out (if out is non-nil).
func (c *Client) invoke(ctx context.Context, action string, params any, out any) error {
	if params == nil {
		params = struct{}{}
	}

	body, err := json.Marshal(request{Action: action, Version: APIVersion, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("ankiconnect request", "action", action, "bytes", len(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Network(serviceName, fmt.Errorf("%s: %w", action, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Network(serviceName, fmt.Errorf("%s: failed to read response: %w", action, err))
	}

	if resp.StatusCode != http.StatusOK {
		return apperr.Network(serviceName, fmt.Errorf("%s: unexpected status %d", action, resp.StatusCode))
	}

	var r response
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", action, err)
	}

	if r.Error != nil {
		return &RemoteError{Action: action, Message: *r.Error}
	}

	if out == nil || len(r.Result) == 0 {
		return nil
	}

	if err := json.Unmarshal(r.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", action, err)
	}

	return nil
}

// Version returns the AnkiConnect API version, which doubles as a ping
func (c *Client) Version(ctx context.Context) (int, error) {
	var v int
	if err := c.invoke(ctx, "version", nil, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// FindNotes returns the ids of all notes matching the search query
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	if err := c.invoke(ctx, "findNotes", map[string]any{"query": query}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// NotesInfo returns the notes with the given ids
func (c *Client) NotesInfo(ctx context.Context, ids []int64) ([]Note, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var notes []Note
	if err := c.invoke(ctx, "notesInfo", map[string]any{"notes": ids}, &notes); err != nil {
		return nil, err
	}

	// AnkiConnect answers with an empty object for unknown ids
	found := notes[:0]
	for _, n := range notes {
		if n.NoteID != 0 {
			found = append(found, n)
		}
	}
	return found, nil
}

// UpdateNoteFields overwrites the given fields of a note
func (c *Client) UpdateNoteFields(ctx context.Context, id int64, fields map[string]string) error {
	params := map[string]any{
		"note": map[string]any{
			"id":     id,
			"fields": fields,
		},
	}
	return c.invoke(ctx, "updateNoteFields", params, nil)
}

// AddNote creates a note and returns its id
func (c *Client) AddNote(ctx context.Context, note NewNote) (int64, error) {
	if note.Tags == nil {
		note.Tags = []string{}
	}

	var id int64
	if err := c.invoke(ctx, "addNote", map[string]any{"note": note}, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// StoreMediaFile uploads data into Anki's media folder and returns the
// name Anki stored it under
func (c *Client) StoreMediaFile(ctx context.Context, filename string, data []byte) (string, error) {
	params := map[string]any{
		"filename": filename,
		"data":     base64.StdEncoding.EncodeToString(data),
	}

	var stored string
	if err := c.invoke(ctx, "storeMediaFile", params, &stored); err != nil {
		return "", err
	}
	if stored == "" {
		stored = filename
	}
	return stored, nil
}

// StoreMediaFromPath uploads a local file under its base name
func (c *Client) StoreMediaFromPath(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("media file %s: %w", path, apperr.ErrNotFound)
		}
		return "", fmt.Errorf("failed to read media file: %w", err)
	}

	return c.StoreMediaFile(ctx, filepath.Base(path), data)
}
