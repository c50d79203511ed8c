// Package api is a thin client for the TeamJoin REST backend. Authenticated
// calls read the bearer token from a session.Store; every non-2xx response is
// turned into an *APIError carrying the server's detail message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamjoin/go-teamjoin/pkg/session"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// ErrNoToken is returned by authenticated calls when the store holds no
// access token.
var ErrNoToken = errors.New("api: no authentication token found")

// APIError is a non-2xx response.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Detail, e.Status)
}

// Doer issues HTTP requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithStore sets the token store.
func WithStore(store session.Store) Option {
	return func(c *Client) {
		if store != nil {
			c.store = store
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to the backend.
type Client struct {
	baseURL string
	http    Doer
	store   session.Store
	logger  *zap.Logger
}

// New constructs a Client.
func New(options ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    http.DefaultClient,
		store:   session.NewMemory(),
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// call describes one request.
type call struct {
	method   string
	path     string
	query    url.Values
	auth     bool
	body     any
	rawBody  io.Reader
	ctype    string
	fallback string
}

func (c *Client) do(ctx context.Context, in call, out any) error {
	target := c.baseURL + in.path
	if len(in.query) > 0 {
		target += "?" + in.query.Encode()
	}

	body := in.rawBody
	ctype := in.ctype
	if in.body != nil {
		encoded, err := json.Marshal(in.body)
		if err != nil {
			return fmt.Errorf("api: encode body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	if ctype == "" {
		ctype = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, in.method, target, body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in.auth {
		token, ok := c.store.Get(session.AccessTokenKey)
		if !ok || token == "" {
			return ErrNoToken
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", in.method, in.path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}
	c.logger.Debug("api: response",
		zap.String("method", in.method),
		zap.String("path", in.path),
		zap.Int("status", res.StatusCode))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &APIError{Status: res.StatusCode, Detail: detailOf(raw, in.fallback)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

// detailOf extracts FastAPI's detail field, accepting both the string form and
// the validation list form, and falls back when neither is usable.
func detailOf(raw []byte, fallback string) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &envelope) != nil || len(envelope.Detail) == 0 {
		return fallback
	}
	var text string
	if json.Unmarshal(envelope.Detail, &text) == nil && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text)
	}
	var issues []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(envelope.Detail, &issues) == nil {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			if m := strings.TrimSpace(issue.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return fallback
}

// Login exchanges credentials for a token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) (Token, error) {
	var tok Token
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     map[string]string{"email": email, "password": password},
		fallback: "Login failed",
	}, &tok)
	if err != nil {
		return Token{}, err
	}
	if err := c.store.Set(session.AccessTokenKey, tok.AccessToken); err != nil {
		return tok, fmt.Errorf("api: store token: %w", err)
	}
	return tok, nil
}

// Logout forgets the stored token.
func (c *Client) Logout() error {
	return c.store.Delete(session.AccessTokenKey)
}

// Signup starts registration; the backend emails an OTP.
func (c *Client) Signup(ctx context.Context, name, email, password string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/signup",
		body:     map[string]string{"name": name, "email": email, "password": password},
		fallback: "Signup failed",
	}, &out)
	return out, err
}

// FetchUserProfile returns the current user's profile.
func (c *Client) FetchUserProfile(ctx context.Context) (Profile, error) {
	var p Profile
	err := c.do(ctx, call{method: http.MethodGet, path: "/user/profile", auth: true, fallback: "Failed to fetch user profile"}, &p)
	return p, err
}

// UpdateUserProfile replaces the current user's profile data.
func (c *Client) UpdateUserProfile(ctx context.Context, update ProfileUpdate) (Profile, error) {
	var p Profile
	err := c.do(ctx, call{method: http.MethodPut, path: "/user/profile", auth: true, body: update, fallback: "Failed to update user profile"}, &p)
	return p, err
}

// FetchUserIdeas returns ideas the user owns or joined. The backend groups
// them, so the raw payload is returned.
func (c *Client) FetchUserIdeas(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.do(ctx, call{method: http.MethodGet, path: "/user/ideas", auth: true, fallback: "Failed to fetch user ideas"}, &raw)
	return raw, err
}

// FetchUserTeams returns the ideas the user leads.
func (c *Client) FetchUserTeams(ctx context.Context) ([]Idea, error) {
	var ideas []Idea
	err := c.do(ctx, call{method: http.MethodGet, path: "/user/teams", auth: true, fallback: "Failed to fetch user teams"}, &ideas)
	return ideas, err
}

// FetchFeed returns every idea. It does not require a token.
func (c *Client) FetchFeed(ctx context.Context) ([]Idea, error) {
	var ideas []Idea
	err := c.do(ctx, call{method: http.MethodGet, path: "/feed/", fallback: "Failed to fetch feed"}, &ideas)
	return ideas, err
}

// RequestToJoinIdea files a join request.
func (c *Client) RequestToJoinIdea(ctx context.Context, ideaID string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/ideas/" + url.PathEscape(ideaID) + "/join",
		auth:     true,
		fallback: "Failed to request to join idea",
	}, &out)
	return out, err
}

// CreateIdea publishes a new idea as a multipart form.
func (c *Client) CreateIdea(ctx context.Context, idea NewIdea) (Idea, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"title", idea.Title},
		{"sub_title", idea.SubTitle},
		{"full_explained_idea", idea.FullExplainedIdea},
	}
	if idea.ImageURL != "" {
		fields = append(fields, struct{ name, value string }{"image_url", idea.ImageURL})
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return Idea{}, fmt.Errorf("api: encode %s: %w", f.name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return Idea{}, fmt.Errorf("api: encode form: %w", err)
	}

	var out Idea
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/ideas/",
		auth:     true,
		rawBody:  &buf,
		ctype:    mw.FormDataContentType(),
		fallback: "Failed to create idea",
	}, &out)
	return out, err
}

// FetchIdeaByID returns one idea.
func (c *Client) FetchIdeaByID(ctx context.Context, ideaID string) (Idea, error) {
	var idea Idea
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/ideas/" + url.PathEscape(ideaID),
		auth:     true,
		fallback: "Failed to fetch idea",
	}, &idea)
	return idea, err
}

// Search queries ideas and users.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var results []SearchResult
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/search/",
		query:    url.Values{"q": {query}},
		auth:     true,
		fallback: "Failed to search",
	}, &results)
	return results, err
}
