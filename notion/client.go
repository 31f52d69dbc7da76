// Package notion provides a client for the Notion REST API.
// It integrates with the blocks package for creating pages and appending
// typed content blocks.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/agentplexus/mcp-notion/blocks"
)

// DefaultBaseURL is the public Notion API endpoint.
const DefaultBaseURL = "https://api.notion.com/v1"

// DefaultVersion is the Notion-Version header sent with every request.
const DefaultVersion = "2022-06-28"

// Client is a Notion REST API client.
type Client struct {
	baseURL    string
	version    string
	httpClient *http.Client
	auth       AuthMethod
}

// AuthMethod represents an authentication method.
type AuthMethod interface {
	Apply(req *http.Request)
}

// BearerAuth implements bearer token authentication with an integration secret.
type BearerAuth struct {
	Token string
}

// Apply implements AuthMethod.
func (b BearerAuth) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+b.Token)
}

// NewClient creates a new Notion client.
func NewClient(auth AuthMethod, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		version:    DefaultVersion,
		httpClient: http.DefaultClient,
		auth:       auth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithVersion overrides DefaultVersion.
func WithVersion(v string) Option {
	return func(c *Client) {
		c.version = v
	}
}

// APIError represents an error returned by the Notion API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("notion API error %d: %s", e.StatusCode, e.Message)
}

// CreatePage creates an empty sub-page of parentID and returns its ID.
func (c *Client) CreatePage(ctx context.Context, parentID, title string) (string, error) {
	payload := map[string]interface{}{
		"parent": map[string]string{"page_id": parentID},
		"properties": map[string]interface{}{
			"title": map[string]interface{}{
				"title": []map[string]interface{}{
					{"type": "text", "text": map[string]string{"content": title}},
				},
			},
		},
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/pages", payload, "failed to create page", &result); err != nil {
		return "", err
	}
	return result.ID, nil
}

// AppendChildren appends blocks to the end of a page or block and returns the
// number of blocks the API accepted.
func (c *Client) AppendChildren(ctx context.Context, blockID string, children []blocks.Block) (int, error) {
	rendered, err := blocks.Render(children)
	if err != nil {
		return 0, fmt.Errorf("render error: %w", err)
	}

	payload := map[string]interface{}{"children": rendered}

	var result struct {
		Results []json.RawMessage `json:"results"`
	}
	u := fmt.Sprintf("/blocks/%s/children", blockID)
	if err := c.do(ctx, http.MethodPatch, u, payload, "failed to append blocks", &result); err != nil {
		return 0, err
	}
	return len(result.Results), nil
}

// ArchivePage moves a page to the trash.
func (c *Client) ArchivePage(ctx context.Context, pageID string) error {
	payload := map[string]interface{}{"archived": true}
	return c.do(ctx, http.MethodPatch, "/pages/"+pageID, payload, "failed to archive page", nil)
}

// do sends a JSON request and decodes a JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}, failure string, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Notion-Version", c.version)
	c.auth.Apply(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    failure,
			Body:       string(respBody),
		}
		var envelope struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Message != "" {
			apiErr.Code = envelope.Code
			apiErr.Message = failure + ": " + envelope.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("json decode error: %w", err)
	}
	return nil
}
