package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNoAPIKey is returned when the extractor is not configured.
	ErrNoAPIKey = errors.New("generative API key not set")
	// ErrBadAPIKey is returned when the vendor rejects the configured key.
	ErrBadAPIKey = errors.New("generative API key rejected")
	// ErrQuota is returned when the vendor reports quota exhaustion.
	ErrQuota = errors.New("generative API quota exceeded")
)

// Extractor maps free-form text to a structured intent.
type Extractor interface {
	Extract(ctx context.Context, text string) (Intent, error)
}

// Client calls the hosted generative-language API over JSON/HTTP.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, model, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Extract sends text wrapped in the fixed prompt and parses the model's
// single JSON object reply. Model output that fails to parse is terminal;
// there are no retries.
func (c *Client) Extract(ctx context.Context, text string) (Intent, error) {
	raw, err := c.generate(ctx, BuildPrompt(text))
	if err != nil {
		return Intent{}, err
	}
	return Parse(raw)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call generative API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if out.Error != nil {
		msg := out.Error.Message
		switch {
		case strings.Contains(msg, "API key not valid"), strings.Contains(msg, "API_KEY_INVALID"):
			return "", ErrBadAPIKey
		case resp.StatusCode == http.StatusTooManyRequests, strings.Contains(strings.ToLower(msg), "quota"):
			return "", ErrQuota
		default:
			return "", fmt.Errorf("generative API error: %s", msg)
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generative API status %d", resp.StatusCode)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
