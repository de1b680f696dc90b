package compressor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"
)

const maxRetries = 3

// RemoteCompressor calls an LLMLingua-style compression service over HTTP.
// The model is loaded once on the service side; this client is constructed
// once per process and reused for every chunk.
type RemoteCompressor struct {
	baseURL string
	apiKey  string
	model   string
	rate    float64
	client  *http.Client
}

type compressRequest struct {
	Model string  `json:"model,omitempty"`
	Text  string  `json:"text"`
	Rate  float64 `json:"rate"`
}

type compressResponse struct {
	CompressedText string    `json:"compressed_text"`
	Error          *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func NewRemoteCompressor(baseURL, apiKeyEnv, model string, rate float64, timeout time.Duration) (*RemoteCompressor, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("compressor base URL is required")
	}
	apiKey := ""
	if apiKeyEnv != "" {
		apiKey = os.Getenv(apiKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
		}
	}
	if rate <= 0 || rate > 1 {
		rate = 0.5
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &RemoteCompressor{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		rate:    rate,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (c *RemoteCompressor) Compress(ctx context.Context, text string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff(attempt - 1)):
			}
		}

		out, err := c.compressOnce(ctx, text)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("compression failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *RemoteCompressor) compressOnce(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(compressRequest{
		Model: c.model,
		Text:  text,
		Rate:  c.rate,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/compress", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("compression api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("compression api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp compressResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("compression error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if apiResp.CompressedText == "" {
		return "", fmt.Errorf("empty response from compressor")
	}

	return apiResp.CompressedText, nil
}

func (c *RemoteCompressor) ModelName() string {
	return c.model
}

func (c *RemoteCompressor) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// RetryableError indicates a transient failure worth retrying.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func isRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// backoff returns a duration for attempt n (0-indexed) with jitter.
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
