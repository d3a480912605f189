// Package textgen defines the optional text-completion provider contract.
//
// Only the intelligent strategy and Q&A benchmark generation consult a
// completion provider; every other code path must work when none is
// configured. NewFromEnv therefore returns (nil, nil) when no provider is
// available, and callers treat a nil Provider as "feature disabled".
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Provider generates a text completion for a prompt.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
	Close() error
}

var ErrProviderFailed = errors.New("completion provider failed")

const (
	// EnvModel selects the completion model; unset disables the provider.
	EnvModel  = "CHUNKSMITH_COMPLETION_MODEL"
	envAPIKey = "OPENAI_API_KEY"

	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
)

// NewFromEnv returns a provider when both OPENAI_API_KEY and
// CHUNKSMITH_COMPLETION_MODEL are set, and (nil, nil) otherwise.
func NewFromEnv() (Provider, error) {
	model := os.Getenv(EnvModel)
	key := os.Getenv(envAPIKey)
	if model == "" || key == "" {
		return nil, nil
	}
	return &openAIProvider{
		apiKey:   key,
		model:    model,
		endpoint: defaultEndpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

type openAIProvider struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

func (p *openAIProvider) Name() string { return "openai" }

func (p *openAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model": p.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: api error %d: %s", ErrProviderFailed, resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrProviderFailed)
	}
	return apiResp.Choices[0].Message.Content, nil
}

func (p *openAIProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
