// Package genai is a minimal client for the generative text service:
// prompt in, text out.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"chronoplan/internal/resilience"
)

const (
	// DefaultBaseURL is the Gemini REST endpoint root.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel is the generation model used when none is configured.
	DefaultModel = "gemini-1.5-flash"
)

// ErrNoAPIKey reports a missing credential. Detectable and user-surfaced,
// never a crash.
var ErrNoAPIKey = errors.New("no API key configured")

// Client calls the generative text service over HTTP.
type Client struct {
	BaseURL string
	Model   string
	APIKey  string
	HTTP    *http.Client
}

// New returns a client with default endpoint and model.
func New(apiKey string) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		Model:   DefaultModel,
		APIKey:  apiKey,
		HTTP:    http.DefaultClient,
	}
}

// Configured reports whether a credential is present.
func (c *Client) Configured() bool { return c.APIKey != "" }

type request struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type response struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate posts prompt and returns the first candidate's text. An explicit
// error field in the body and an absent or malformed completion payload are
// permanent failures; network-level errors propagate as-is for the caller's
// retry policy.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", resilience.Permanent(ErrNoAPIKey)
	}

	body, err := json.Marshal(request{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", resilience.Permanent(err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, c.Model, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", resilience.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", resilience.Permanent(fmt.Errorf("decoding response: %w", err))
	}
	if parsed.Error != nil {
		return "", resilience.Permanent(fmt.Errorf("service error: %s", parsed.Error.Message))
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", resilience.Permanent(errors.New("invalid response from AI"))
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
