package vision

import (
	"context"
	"fmt"

	"vocabscan/internal/config"
)

// Request carries one preprocessed image to the vision backend.
type Request struct {
	ImageData []byte
	MIMEType  string
	Prompt    string
}

// Client is the inference boundary. Implementations send one image to a
// vision-capable model and return its raw textual reply; interpreting that
// reply is the caller's job.
type Client interface {
	ExtractText(ctx context.Context, req Request) (string, error)
	Name() string
	Close() error
}

// NewFromConfig constructs the backend selected by vision.provider.
func NewFromConfig(ctx context.Context, cfg config.Vision) (Client, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaClient(OllamaConfig{
			BaseURL:        cfg.BaseURL,
			Model:          cfg.Model,
			TimeoutSeconds: cfg.TimeoutSeconds,
		}), nil
	case "gemini":
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})
	default:
		return nil, fmt.Errorf("unknown vision provider %q", cfg.Provider)
	}
}
