package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"threadchat/internal/logger"
)

// GeminiConfig configures the Gemini client.
type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint; empty uses the SDK default.
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiClient implements Client over the Gemini generateContent API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient builds a client for the Gemini Developer API.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model}, nil
}

// Complete sends message as one user-role content and returns the reply text.
func (g *GeminiClient) Complete(ctx context.Context, message string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(message), nil)
	if err != nil {
		upstreamErr := classify(err)
		logger.ErrorWithFields("completion failed", logger.Fields{
			"kind":   string(upstreamErr.Kind),
			"status": upstreamErr.StatusCode,
			"model":  g.model,
			"error":  err.Error(),
		})
		return "", upstreamErr
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		logger.WarnWithFields("completion returned no text", logger.Fields{
			"kind":  string(FailureEmpty),
			"model": g.model,
		})
		return FallbackReply, nil
	}
	return text, nil
}

func classify(err error) *UpstreamError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Kind: FailureStatus, StatusCode: apiErr.Code, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &UpstreamError{Kind: FailureStatus, StatusCode: apiErrPtr.Code, Err: err}
	}
	return &UpstreamError{Kind: FailureTransport, Err: err}
}
