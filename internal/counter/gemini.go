package counter

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const geminiModel = "gemini-2.5-flash"

// Gemini counts with a Gemini vision model.
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini counter.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	return newGemini(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

func newGemini(ctx context.Context, cc *genai.ClientConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

func (g *Gemini) Name() string {
	return string(KindGemini)
}

func (g *Gemini) CountHeads(ctx context.Context, image []byte) (*Result, error) {
	return g.count(ctx, image, headsPrompt)
}

func (g *Gemini) CountSignatures(ctx context.Context, image []byte) (*Result, error) {
	return g.count(ctx, image, signaturesPrompt)
}

func (g *Gemini) count(ctx context.Context, image []byte, prompt string) (*Result, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}

	resized, err := Downscale(image, maxImageSide)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{InlineData: &genai.Blob{Data: resized, MIMEType: "image/jpeg"}},
			},
		},
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	var lastErr error
	var lastResponse string

	for range maxAttempts {
		resp, err := g.client.Models.GenerateContent(ctx, geminiModel, contents, config)
		if err != nil {
			return nil, fmt.Errorf("gemini API error: %w", err)
		}

		content := resp.Text()
		if content == "" {
			return nil, errors.New("no response from Gemini")
		}
		lastResponse = content

		result, err := parseCountResponse(content)
		if err != nil {
			lastErr = err
			contents = append(contents,
				&genai.Content{Role: "model", Parts: []*genai.Part{{Text: content}}},
				&genai.Content{Role: "user", Parts: []*genai.Part{{Text: retryFeedback(err)}}},
			)
			continue
		}

		return result, nil
	}

	return nil, fmt.Errorf("invalid count response after %d attempts: %w (last response: %s)", maxAttempts, lastErr, lastResponse)
}
