// Package client talks to the task board API.
//
// Authentication is explicit: every call that needs it takes a Session, and
// no credentials are stored on the Client itself.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"taskboard/internal/model"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

var (
	ErrTransport    = errors.New("transport failure")
	ErrUnauthorized = errors.New("not authorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
)

// Session carries the credentials for a single user's calls.
type Session struct {
	Token string
}

func (s Session) authorize(req *http.Request) {
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
}

// APIError is a non-2xx answer from the API. It unwraps to one of the
// package's sentinel errors.
type APIError struct {
	StatusCode int
	Message    string
	kind       error
}

// NewAPIError builds the error returned for an HTTP status code.
func NewAPIError(code int, message string) *APIError {
	return &APIError{StatusCode: code, Message: message, kind: kindOf(code)}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Register(ctx context.Context, name, email, password string) (AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	err := c.do(ctx, Session{}, http.MethodPost, "/api/auth/register", body, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, Session{}, http.MethodPost, "/api/auth/login", body, &out)
	return out, err
}

func (c *Client) Me(ctx context.Context, sess Session) (User, error) {
	var out User
	err := c.do(ctx, sess, http.MethodGet, "/api/auth/user", nil, &out)
	return out, err
}

// FetchAll returns every task of the session's user.
func (c *Client) FetchAll(ctx context.Context, sess Session) ([]model.Task, error) {
	var out []model.Task
	if err := c.do(ctx, sess, http.MethodGet, "/api/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus persists a column change and returns the stored task.
func (c *Client) SetStatus(ctx context.Context, sess Session, id uuid.UUID, status model.Status) (model.Task, error) {
	var out model.Task
	body := map[string]string{"status": string(status)}
	err := c.do(ctx, sess, http.MethodPut, "/api/tasks/"+id.String(), body, &out)
	return out, err
}

func (c *Client) Create(ctx context.Context, sess Session, title, description string) (model.Task, error) {
	var out model.Task
	body := map[string]string{"title": title, "description": description}
	err := c.do(ctx, sess, http.MethodPost, "/api/tasks", body, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, sess Session, id uuid.UUID) error {
	return c.do(ctx, sess, http.MethodDelete, "/api/tasks/"+id.String(), nil, nil)
}

func (c *Client) do(ctx context.Context, sess Session, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := sonic.ConfigStd.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	sess.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := sonic.ConfigStd.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrTransport, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := NewAPIError(resp.StatusCode, "")

	var payload struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := sonic.ConfigStd.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func kindOf(code int) error {
	switch {
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return ErrValidation
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrTransport
	}
}
