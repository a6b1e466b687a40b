// Package client talks to the khana API and holds the client-side state:
// the recipe list, the chat session and the image picker.
package client

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
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pageza/khana/backend/internal/model"
	"github.com/pageza/khana/backend/internal/types"
	apperrors "github.com/pageza/khana/backend/pkg/errors"
)

// StatusError is a non-2xx API response
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("status %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// Client is an HTTP client for the khana API
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithAPIKey sends key as bearer token and apikey header
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the API at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   60 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListRecipes returns every recipe, newest first
func (c *Client) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	var resp types.RecipeListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/recipes", nil, &resp); err != nil {
		return nil, apperrors.NewStoreError("list recipes", err)
	}
	if resp.Recipes == nil {
		resp.Recipes = []model.Recipe{}
	}
	return resp.Recipes, nil
}

// SearchRecipes asks the server to apply filter
func (c *Client) SearchRecipes(ctx context.Context, filter model.RecipeFilter) ([]model.Recipe, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("q", filter.Search)
	}
	if filter.Category != "" {
		q.Set("category", string(filter.Category))
	}
	path := "/api/v1/recipes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp types.RecipeListResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, apperrors.NewStoreError("search recipes", err)
	}
	return resp.Recipes, nil
}

// GetRecipe returns one recipe
func (c *Client) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	var resp types.RecipeResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/recipes/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, apperrors.NewStoreError("get recipe", err)
	}
	return &resp.Recipe, nil
}

// CreateRecipe inserts a recipe
func (c *Client) CreateRecipe(ctx context.Context, in types.RecipeInput) (*model.Recipe, error) {
	var resp types.RecipeResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/recipes", in, &resp); err != nil {
		return nil, apperrors.NewStoreError("create recipe", err)
	}
	return &resp.Recipe, nil
}

// UpdateRecipe replaces every mutable field of a recipe
func (c *Client) UpdateRecipe(ctx context.Context, id string, in types.RecipeInput) (*model.Recipe, error) {
	var resp types.RecipeResponse
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/recipes/"+url.PathEscape(id), in, &resp); err != nil {
		return nil, apperrors.NewStoreError("update recipe", err)
	}
	return &resp.Recipe, nil
}

// DeleteRecipe removes a recipe
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/v1/recipes/"+url.PathEscape(id), nil, nil); err != nil {
		return apperrors.NewStoreError("delete recipe", err)
	}
	return nil
}

// Stats returns the collection summary
func (c *Client) Stats(ctx context.Context) (*types.RecipeStats, error) {
	var stats types.RecipeStats
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/dashboard/stats", nil, &stats); err != nil {
		return nil, apperrors.NewStoreError("recipe stats", err)
	}
	return &stats, nil
}

// UploadImage stores an image and returns its public URL
func (c *Client) UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", apperrors.NewStoreError("upload image", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", apperrors.NewStoreError("upload image", err)
	}
	if err := mw.Close(); err != nil {
		return "", apperrors.NewStoreError("upload image", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/images", &body)
	if err != nil {
		return "", apperrors.NewStoreError("upload image", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp types.ImageUploadResponse
	if err := c.do(req, &resp); err != nil {
		return "", apperrors.NewStoreError("upload image", err)
	}
	return resp.ImageURL, nil
}

// Chat posts one message to the chat function
func (c *Client) Chat(ctx context.Context, chatReq *types.ChatRequest) (*types.ChatResponse, error) {
	var resp types.ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/recipe-chat", chatReq, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Apikey", c.apiKey)
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		var errResp types.ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			statusErr.Code = errResp.Code
			statusErr.Message = errResp.Error
		}
		return statusErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
