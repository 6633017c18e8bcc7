// Package llm talks to the Gemini generateContent REST endpoint.
package llm

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

	"github.com/rs/zerolog"

	"github.com/samzong/aicommit/internal/credstore"
)

// FallbackMessage is used when a successful response carries no candidate text.
const FallbackMessage = "Generated commit message"

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"
	DefaultTimeout = 60 * time.Second
)

// Options configures a Client. Zero values select the defaults above.
type Options struct {
	BaseURL     string
	Model       string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Credentials credstore.Store
	Logger      zerolog.Logger
}

// Client sends single-turn generateContent requests. It never retries.
type Client struct {
	baseURL     string
	model       string
	timeout     time.Duration
	httpClient  *http.Client
	credentials credstore.Store
	logger      zerolog.Logger
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// NewClient creates a completion client.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		model:       opts.Model,
		timeout:     opts.Timeout,
		httpClient:  opts.HTTPClient,
		credentials: opts.Credentials,
		logger:      opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.credentials == nil {
		c.credentials = credstore.NewFileStore("")
	}
	return c
}

// GenerateCommitMessage sends prompt as the only user turn and returns the
// trimmed text of the first candidate's first part.
func (c *Client) GenerateCommitMessage(ctx context.Context, prompt string) (string, error) {
	apiKey, err := c.credentials.Get(credstore.APIKeyName)
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint(apiKey), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &RemoteServiceError{Err: redactKey(err, apiKey)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RemoteServiceError{Status: resp.StatusCode, Err: redactKey(err, apiKey)}
	}

	c.logger.Debug().
		Str("model", c.model).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("completion response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RemoteServiceError{Status: resp.StatusCode, Body: string(raw)}
	}

	return parseMessage(resp.StatusCode, raw)
}

func (c *Client) endpoint(apiKey string) string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(apiKey))
}

func parseMessage(status int, raw []byte) (string, error) {
	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &RemoteServiceError{Status: status, Body: string(raw), Err: err}
	}

	if len(parsed.Candidates) == 0 {
		return FallbackMessage, nil
	}
	first := parsed.Candidates[0].Content
	if first == nil || len(first.Parts) == 0 || first.Parts[0].Text == nil {
		return FallbackMessage, nil
	}

	message := strings.TrimSpace(*first.Parts[0].Text)
	if message == "" {
		return FallbackMessage, nil
	}
	return message, nil
}

// redactKey strips the API key from transport errors, which quote the request URL.
func redactKey(err error, apiKey string) error {
	msg := err.Error()
	if apiKey == "" || !strings.Contains(msg, url.QueryEscape(apiKey)) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(msg, url.QueryEscape(apiKey), "REDACTED"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
