package vision

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"vocabscan/internal/services"
)

// GeminiConfig captures the settings required to talk to the Gemini API.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiClient wraps the Gemini API for vision inference. The underlying
// connection is created once and reused for every image in the run.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

// NewGeminiClient constructs a Gemini vision client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrInference, "vision", "gemini", "api key required", nil)
	}
	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		return nil, services.Wrap(services.ErrInference, "vision", "gemini", "model required", nil)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, services.Wrap(services.ErrInference, "vision", "gemini", "create client", err)
	}

	model := client.GenerativeModel(modelName)
	temperature := float32(inferenceTemperature)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: &temperature,
	}

	return &GeminiClient{
		client: client,
		model:  model,
		name:   "gemini/" + modelName,
	}, nil
}

// Name identifies the backend in logs and summaries.
func (c *GeminiClient) Name() string {
	return c.name
}

// Close releases the API connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// ExtractText sends the image and prompt to the model and returns its raw
// textual reply. Failures are tagged with the inference error marker.
func (c *GeminiClient) ExtractText(ctx context.Context, req Request) (string, error) {
	if len(req.ImageData) == 0 {
		return "", services.Wrap(services.ErrInference, "vision", "extract", "empty image payload", nil)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", services.Wrap(services.ErrInference, "vision", "extract", "prompt required", nil)
	}

	parts := []genai.Part{
		genai.Text(req.Prompt),
		&genai.Blob{MIMEType: req.MIMEType, Data: req.ImageData},
	}

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", services.Wrap(services.ErrInference, "vision", "extract", "generate content", err)
	}
	text := firstText(resp)
	if strings.TrimSpace(text) == "" {
		return "", services.Wrap(services.ErrInference, "vision", "extract", "empty model reply", nil)
	}
	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				return string(text)
			}
		}
	}
	return ""
}
