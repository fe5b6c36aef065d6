// Package answer provides the natural-language answering service backed by Gemini.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrNotConfigured is returned when no API key was supplied for the model backend.
var ErrNotConfigured = errors.New("answer service not configured")

// ErrEmptyAnswer is returned when the model produced no text.
var ErrEmptyAnswer = errors.New("model returned an empty answer")

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// singleWordPrompt wraps question in the instruction sent to the model.
func singleWordPrompt(question string) string {
	return "Answer the following question with a SINGLE WORD only. " +
		"Do not provide explanations, just one word.\n\n" +
		"Question: " + question + "\n\nAnswer:"
}

// GeminiGenerator generates text using Google's Gemini API.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiGenerator{
		client:      client,
		model:       model,
		temperature: 0.3,
	}, nil
}

// Generate sends prompt to the model and returns the response text.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(g.temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", ErrEmptyAnswer
	}
	return text, nil
}

// Model returns the configured model name.
func (g *GeminiGenerator) Model() string {
	return g.model
}
