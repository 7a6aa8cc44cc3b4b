// Package counter turns images into head and signature counts.
package counter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyImage is returned when a counter receives no image bytes.
var ErrEmptyImage = errors.New("empty image")

// Result is a count produced from a single image.
type Result struct {
	Count      int     `json:"count"`
	Confidence float64 `json:"confidence"`
}

// HeadCounter counts the people visible in a lecture hall image.
type HeadCounter interface {
	Name() string
	CountHeads(ctx context.Context, image []byte) (*Result, error)
}

// SignatureCounter counts the signatures on a sign-in sheet image.
type SignatureCounter interface {
	Name() string
	CountSignatures(ctx context.Context, image []byte) (*Result, error)
}

// Counter counts both heads and signatures.
type Counter interface {
	HeadCounter
	SignatureCounter
}

// Kind names a counter implementation.
type Kind string

const (
	KindSimulated Kind = "simulated"
	KindOpenAI    Kind = "openai"
	KindGemini    Kind = "gemini"
)

// Options configures New.
type Options struct {
	Kind Kind

	// HeadDelay and SignatureDelay only apply to the simulated counter.
	HeadDelay      time.Duration
	SignatureDelay time.Duration
	// Seed makes the simulated counter deterministic when non-zero.
	Seed uint64

	OpenAIToken  string
	GeminiAPIKey string
}

// New creates the counter selected by opts.Kind.
func New(ctx context.Context, opts Options) (Counter, error) {
	switch opts.Kind {
	case "", KindSimulated:
		return NewSimulated(opts.HeadDelay, opts.SignatureDelay, opts.Seed), nil
	case KindOpenAI:
		if opts.OpenAIToken == "" {
			return nil, errors.New("openai counter requires an API token")
		}
		return NewOpenAI(opts.OpenAIToken), nil
	case KindGemini:
		if opts.GeminiAPIKey == "" {
			return nil, errors.New("gemini counter requires an API key")
		}
		return NewGemini(ctx, opts.GeminiAPIKey)
	default:
		return nil, fmt.Errorf("unknown counter %q", opts.Kind)
	}
}

// parseCountResponse decodes a model reply of the form {"count": n, "confidence": c}.
func parseCountResponse(content string) (*Result, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw struct {
		Count      *int     `json:"count"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, err
	}
	if raw.Count == nil {
		return nil, errors.New(`missing "count" field`)
	}
	if *raw.Count < 0 {
		return nil, fmt.Errorf("count must be non-negative, got %d", *raw.Count)
	}

	confidence := 0.0
	if raw.Confidence != nil {
		confidence = min(max(*raw.Confidence, 0), 1)
	}

	return &Result{Count: *raw.Count, Confidence: confidence}, nil
}
