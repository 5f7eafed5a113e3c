package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client represents a GitHub repository-contents API client.
// 대용량 JSON 데이터 파일을 버전 관리되는 저장소 컨텐츠로 읽고 쓴다.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new GitHub contents client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// FileContent is the contents-API representation of a repository file
type FileContent struct {
	Type    string `json:"type"`
	Content string `json:"content"` // base64
	SHA     string `json:"sha"`
	Path    string `json:"path"`
}

type updateRequest struct {
	Message string `json:"message"`
	Content string `json:"content"` // base64
	SHA     string `json:"sha,omitempty"`
}

type updateResponse struct {
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

// GetFile fetches a file's raw bytes and its blob SHA
func (c *Client) GetFile(ctx context.Context, path string) ([]byte, string, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}

	var file FileContent
	if err := json.Unmarshal(respBody, &file); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal content response: %w", err)
	}
	if file.Type != "file" {
		return nil, "", fmt.Errorf("%s is not a file (type: %s)", path, file.Type)
	}

	raw, err := base64.StdEncoding.DecodeString(file.Content)
	if err != nil {
		// GitHub returns base64 with embedded newlines
		raw, err = base64.StdEncoding.DecodeString(stripNewlines(file.Content))
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode file content: %w", err)
		}
	}

	return raw, file.SHA, nil
}

// PutFile creates or updates a file. sha must be the current blob SHA when
// updating an existing file; the API rejects stale SHAs, which surfaces
// concurrent writers as an APIError conflict.
func (c *Client) PutFile(ctx context.Context, path string, data []byte, message, sha string) (string, error) {
	req := updateRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(data),
		SHA:     sha,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal update request: %w", err)
	}

	respBody, err := c.doRequest(ctx, http.MethodPut, path, body)
	if err != nil {
		return "", err
	}

	var resp updateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal update response: %w", err)
	}

	return resp.Commit.SHA, nil
}

// doRequest performs an HTTP request against the contents endpoint
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.config.baseURL(), c.config.Owner, c.config.Repo, path)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewBuffer(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(respBody, &apiErr)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	return respBody, nil
}

func stripNewlines(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' && s[i] != '\r' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
