package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// Gemini generates text with the Google Gemini API.
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini provider. baseURL and httpClient are optional.
func NewGemini(ctx context.Context, apiKey, baseURL string, httpClient *http.Client) (*Gemini, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions.BaseURL = baseURL
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Generate(ctx context.Context, prompt string, s Settings) (string, error) {
	var genCfg *genai.GenerateContentConfig
	if s.MaxTokens > 0 || s.Schema != nil {
		genCfg = &genai.GenerateContentConfig{MaxOutputTokens: int32(s.MaxTokens)}
		if s.Schema != nil {
			genCfg.ResponseMIMEType = "application/json"
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, s.Model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", classify(g.Name(), geminiStatus(err), err)
	}
	if result == nil {
		return "", EmptyResponse(g.Name())
	}

	text := result.Text()
	if text == "" {
		return "", EmptyResponse(g.Name())
	}
	return text, nil
}

func geminiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code
	}
	return 0
}
