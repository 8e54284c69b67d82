// Package generate talks to the remote text-to-icon service.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/icogen/playground/internal/importer"
)

const statusSuccess = "success"

var (
	ErrEmptyPrompt      = errors.New("prompt is empty")
	ErrGenerationFailed = errors.New("icon generation failed")
)

// Generator produces svg markup from a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type request struct {
	Prompt string `json:"prompt"`
}

type response struct {
	Status  string `json:"status"`
	Data    string `json:"data"`
	Message string `json:"message"`
}

// Client calls the generation service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Generate asks the service for an icon. If the first answer does not
// contain an svg element the request is repeated once and the second answer
// is returned as is.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	markup, err := c.call(ctx, prompt)
	if err != nil {
		return "", err
	}
	if importer.LooksLikeSVG(markup) {
		return markup, nil
	}

	slog.Warn("generated markup has no svg element, retrying", "prompt", prompt)
	return c.call(ctx, prompt)
}

func (c *Client) call(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(request{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate_icon", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call generator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrGenerationFailed, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Status != statusSuccess {
		return "", fmt.Errorf("%w: %s", ErrGenerationFailed, out.Message)
	}
	if strings.TrimSpace(out.Data) == "" {
		return "", fmt.Errorf("%w: empty markup", ErrGenerationFailed)
	}
	return out.Data, nil
}
