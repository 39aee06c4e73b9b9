package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vocabscan/internal/services"
)

const (
	defaultOllamaBaseURL  = "http://127.0.0.1:11434"
	defaultHTTPTimeout    = 120 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryAttempts  = 3

	// Inference settings matched to the qwen2.5-vl vocabulary extraction
	// workload: near-deterministic sampling, context large enough for a
	// dense page of entries.
	inferenceTemperature = 0.1
	inferenceNumCtx      = 8192
)

// OllamaConfig captures the runtime settings required to talk to a local
// Ollama server.
type OllamaConfig struct {
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// OllamaClient wraps the Ollama chat API for vision inference.
type OllamaClient struct {
	cfg        OllamaConfig
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// OllamaOption customizes the client.
type OllamaOption func(*OllamaClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) OllamaOption {
	return func(c *OllamaClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the default retry count (defaults to 3).
func WithRetryMaxAttempts(attempts int) OllamaOption {
	return func(c *OllamaClient) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) OllamaOption {
	return func(c *OllamaClient) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) OllamaOption {
	return func(c *OllamaClient) {
		c.sleeper = sleeper
	}
}

// NewOllamaClient constructs an Ollama vision client using the supplied
// configuration.
func NewOllamaClient(cfg OllamaConfig, opts ...OllamaOption) *OllamaClient {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &OllamaClient{
		cfg: OllamaConfig{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultOllamaBaseURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Name identifies the backend in logs and summaries.
func (c *OllamaClient) Name() string {
	return "ollama/" + c.cfg.Model
}

// Close releases backend resources. The Ollama client holds none.
func (c *OllamaClient) Close() error {
	return nil
}

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("ollama request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  ollamaChatOptions   `json:"options"`
}

type ollamaChatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaChatOptions struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error"`
}

// ExtractText sends the image and prompt to the model and returns its raw
// textual reply. Failures are tagged with the inference error marker.
func (c *OllamaClient) ExtractText(ctx context.Context, req Request) (string, error) {
	if len(req.ImageData) == 0 {
		return "", services.Wrap(services.ErrInference, "vision", "extract", "empty image payload", nil)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", services.Wrap(services.ErrInference, "vision", "extract", "prompt required", nil)
	}
	if c.cfg.Model == "" {
		return "", services.Wrap(services.ErrInference, "vision", "extract", "model required", nil)
	}

	payload := ollamaChatRequest{
		Model: c.cfg.Model,
		Messages: []ollamaChatMessage{
			{
				Role:    "user",
				Content: req.Prompt,
				Images:  []string{base64.StdEncoding.EncodeToString(req.ImageData)},
			},
		},
		Stream: false,
		Options: ollamaChatOptions{
			Temperature: inferenceTemperature,
			NumCtx:      inferenceNumCtx,
		},
	}

	content, err := c.chatWithRetry(ctx, payload)
	if err != nil {
		return "", services.Wrap(services.ErrInference, "vision", "extract", "chat request", err)
	}
	return content, nil
}

func (c *OllamaClient) chatWithRetry(ctx context.Context, payload ollamaChatRequest) (string, error) {
	attempts := c.retryAttempts()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		content, err := c.sendChatRequestOnce(ctx, payload)
		if err == nil {
			if strings.TrimSpace(content) == "" {
				err = errors.New("empty model reply")
			} else {
				return content, nil
			}
		}

		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			return "", err
		}
		if err := c.sleep(ctx, delay); err != nil {
			return "", err
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("unknown retry failure")
	}
	return "", fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

func (c *OllamaClient) sendChatRequestOnce(ctx context.Context, payload ollamaChatRequest) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ollama request: encode body: %w", err)
	}
	endpoint := c.cfg.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("ollama request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request: http error (timeout=%s): %w", c.timeoutDuration(), err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return "", &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: retryAfter,
		}
	}
	var chat ollamaChatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return "", fmt.Errorf("ollama request: decode response: %w", err)
	}
	if chat.Error != "" {
		return "", fmt.Errorf("ollama request: api error: %s", strings.TrimSpace(chat.Error))
	}
	return chat.Message.Content, nil
}

func (c *OllamaClient) timeoutDuration() time.Duration {
	if c == nil || c.httpClient == nil || c.httpClient.Timeout <= 0 {
		return defaultHTTPTimeout
	}
	return c.httpClient.Timeout
}

func (c *OllamaClient) retryAttempts() int {
	if c == nil || c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *OllamaClient) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil || ctx == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			if statusErr.RetryAfter > 0 {
				return c.capDelay(statusErr.RetryAfter), true
			}
			return c.backoffDelay(attempt), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return c.backoffDelay(attempt), true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// Connection refused while the Ollama server is warming up is the
		// common transient failure here.
		return c.backoffDelay(attempt), true
	}

	return 0, false
}

func (c *OllamaClient) backoffDelay(attempt int) time.Duration {
	base := defaultRetryBaseDelay
	maxDelay := defaultRetryMaxDelay
	if c != nil {
		if c.retryBaseDelay >= 0 {
			base = c.retryBaseDelay
		}
		if c.retryMaxDelay > 0 {
			maxDelay = c.retryMaxDelay
		}
	}
	if base <= 0 {
		return 0
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			delay = maxDelay
			break
		}
		delay *= 2
	}
	return c.capDelay(delay)
}

func (c *OllamaClient) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	maxDelay := defaultRetryMaxDelay
	if c != nil && c.retryMaxDelay > 0 {
		maxDelay = c.retryMaxDelay
	}
	if maxDelay > 0 && delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (c *OllamaClient) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c != nil && c.sleeper != nil {
		c.sleeper(delay)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}
