package counter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

func createTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		for y := range height {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestSimulated_CountsInRange(t *testing.T) {
	c := NewSimulated(0, 0, 42)
	ctx := context.Background()

	for i := range 200 {
		heads, err := c.CountHeads(ctx, []byte{1})
		if err != nil {
			t.Fatalf("CountHeads failed: %v", err)
		}
		sigs, err := c.CountSignatures(ctx, []byte{1})
		if err != nil {
			t.Fatalf("CountSignatures failed: %v", err)
		}
		for _, r := range []*Result{heads, sigs} {
			if r.Count < 10 || r.Count >= 60 {
				t.Fatalf("iteration %d: count %d out of [10, 60)", i, r.Count)
			}
			if r.Confidence < 0.7 || r.Confidence >= 1.0 {
				t.Fatalf("iteration %d: confidence %v out of [0.7, 1.0)", i, r.Confidence)
			}
		}
	}
}

func TestSimulated_Seeded(t *testing.T) {
	a := NewSimulated(0, 0, 7)
	b := NewSimulated(0, 0, 7)
	ctx := context.Background()

	for range 10 {
		ra, _ := a.CountHeads(ctx, []byte{1})
		rb, _ := b.CountHeads(ctx, []byte{1})
		if *ra != *rb {
			t.Fatalf("same seed produced %+v and %+v", ra, rb)
		}
	}
}

func TestSimulated_EmptyImage(t *testing.T) {
	c := NewSimulated(0, 0, 1)
	if _, err := c.CountHeads(context.Background(), nil); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
	if _, err := c.CountSignatures(context.Background(), []byte{}); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
}

func TestSimulated_Cancellation(t *testing.T) {
	c := NewSimulated(time.Minute, time.Minute, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.CountHeads(ctx, []byte{1})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took %v", elapsed)
	}

	canceled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	if _, err := NewSimulated(0, 0, 1).CountSignatures(canceled, []byte{1}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected Canceled, got %v", err)
	}
}

func TestParseCountResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Result
		wantErr bool
	}{
		{"plain", `{"count": 42, "confidence": 0.91}`, Result{Count: 42, Confidence: 0.91}, false},
		{"fenced", "```json\n{\"count\": 3, \"confidence\": 0.5}\n```", Result{Count: 3, Confidence: 0.5}, false},
		{"confidence clamped high", `{"count": 5, "confidence": 1.7}`, Result{Count: 5, Confidence: 1}, false},
		{"confidence clamped low", `{"count": 5, "confidence": -0.2}`, Result{Count: 5, Confidence: 0}, false},
		{"missing confidence", `{"count": 0}`, Result{Count: 0, Confidence: 0}, false},
		{"negative count", `{"count": -4, "confidence": 0.9}`, Result{}, true},
		{"missing count", `{"confidence": 0.9}`, Result{}, true},
		{"not json", `about forty people`, Result{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCountResponse(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCountResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && *got != tt.want {
				t.Errorf("parseCountResponse() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestDownscale(t *testing.T) {
	t.Run("large image is resized", func(t *testing.T) {
		data := createTestPNG(t, 1600, 800)

		out, err := Downscale(data, 800)
		if err != nil {
			t.Fatalf("Downscale failed: %v", err)
		}

		img, format, err := image.Decode(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("failed to decode result: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("format = %s, want jpeg", format)
		}
		if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 400 {
			t.Errorf("size = %dx%d, want 800x400", b.Dx(), b.Dy())
		}
	})

	t.Run("portrait image", func(t *testing.T) {
		out, err := Downscale(createTestPNG(t, 300, 1200), 600)
		if err != nil {
			t.Fatalf("Downscale failed: %v", err)
		}
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("failed to decode result: %v", err)
		}
		if cfg.Width != 150 || cfg.Height != 600 {
			t.Errorf("size = %dx%d, want 150x600", cfg.Width, cfg.Height)
		}
	})

	t.Run("small image keeps size", func(t *testing.T) {
		out, err := Downscale(createTestPNG(t, 120, 90), 800)
		if err != nil {
			t.Fatalf("Downscale failed: %v", err)
		}
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("failed to decode result: %v", err)
		}
		if cfg.Width != 120 || cfg.Height != 90 {
			t.Errorf("size = %dx%d, want 120x90", cfg.Width, cfg.Height)
		}
	})

	t.Run("invalid data", func(t *testing.T) {
		if _, err := Downscale([]byte("not an image"), 800); !errors.Is(err, ErrInvalidImage) {
			t.Errorf("expected ErrInvalidImage, got %v", err)
		}
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Name() != "simulated" {
		t.Errorf("Name() = %q, want simulated", c.Name())
	}

	if _, err := New(ctx, Options{Kind: KindOpenAI}); err == nil {
		t.Error("expected error for openai without token")
	}
	if _, err := New(ctx, Options{Kind: KindGemini}); err == nil {
		t.Error("expected error for gemini without key")
	}
	if _, err := New(ctx, Options{Kind: "abacus"}); err == nil {
		t.Error("expected error for unknown kind")
	}

	c, err = New(ctx, Options{Kind: KindOpenAI, OpenAIToken: "sk-test"})
	if err != nil {
		t.Fatalf("New(openai) error = %v", err)
	}
	if c.Name() != "openai" {
		t.Errorf("Name() = %q, want openai", c.Name())
	}
}

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 0,
		"model":   "gpt-4.1-mini",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	}
}

func TestOpenAI_RetriesMalformedResponse(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		content := `{"count": 37, "confidence": 0.88}`
		if n == 1 {
			content = "thirty-seven"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(content))
	}))
	defer srv.Close()

	c := NewOpenAI("sk-test", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))

	got, err := c.CountHeads(context.Background(), createTestPNG(t, 64, 64))
	if err != nil {
		t.Fatalf("CountHeads failed: %v", err)
	}
	if got.Count != 37 || got.Confidence != 0.88 {
		t.Errorf("got %+v, want count 37 confidence 0.88", *got)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestOpenAI_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"count": -1}`))
	}))
	defer srv.Close()

	c := NewOpenAI("sk-test", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))

	if _, err := c.CountSignatures(context.Background(), createTestPNG(t, 32, 32)); err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != maxAttempts {
		t.Errorf("expected %d calls, got %d", maxAttempts, got)
	}
}

func TestOpenAI_UndecodableImage(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewOpenAI("sk-test", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	if _, err := c.CountHeads(context.Background(), []byte("not an image")); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("expected ErrInvalidImage, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no API calls, got %d", calls.Load())
	}
}

func TestOpenAI_EmptyImage(t *testing.T) {
	c := NewOpenAI("sk-test")
	_, err := c.CountHeads(context.Background(), nil)
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
}

func geminiReply(content string) map[string]any {
	parts := []map[string]any{}
	if content != "" {
		parts = append(parts, map[string]any{"text": content})
	}
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content":      map[string]any{"role": "model", "parts": parts},
				"finishReason": "STOP",
			},
		},
	}
}

// newTestGemini points a Gemini counter at a local server replying with the given contents in turn.
func newTestGemini(t *testing.T, replies ...string) (*Gemini, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1))
		if !strings.HasSuffix(r.URL.Path, geminiModel+":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		content := replies[min(n, len(replies))-1]
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(geminiReply(content))
	}))
	t.Cleanup(srv.Close)

	g, err := newGemini(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL + "/"},
	})
	if err != nil {
		t.Fatalf("newGemini failed: %v", err)
	}
	return g, &calls
}

func TestGemini_Count(t *testing.T) {
	tests := []struct {
		name      string
		replies   []string
		want      Result
		wantErr   bool
		wantCalls int32
	}{
		{
			name:      "valid reply",
			replies:   []string{`{"count": 24, "confidence": 0.75}`},
			want:      Result{Count: 24, Confidence: 0.75},
			wantCalls: 1,
		},
		{
			name:      "retries malformed reply",
			replies:   []string{"twenty-four", `{"count": 24, "confidence": 0.75}`},
			want:      Result{Count: 24, Confidence: 0.75},
			wantCalls: 2,
		},
		{
			name:      "gives up after max attempts",
			replies:   []string{`{"count": -1}`},
			wantErr:   true,
			wantCalls: maxAttempts,
		},
		{
			name:      "empty reply",
			replies:   []string{""},
			wantErr:   true,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, calls := newTestGemini(t, tt.replies...)

			got, err := g.CountSignatures(context.Background(), createTestPNG(t, 32, 32))
			if (err != nil) != tt.wantErr {
				t.Fatalf("CountSignatures() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && *got != tt.want {
				t.Errorf("CountSignatures() = %+v, want %+v", *got, tt.want)
			}
			if calls.Load() != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, calls.Load())
			}
		})
	}
}

func TestGemini_InputErrors(t *testing.T) {
	g, calls := newTestGemini(t, `{"count": 1}`)

	if _, err := g.CountHeads(context.Background(), nil); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
	if _, err := g.CountHeads(context.Background(), []byte("not an image")); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("expected ErrInvalidImage, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no API calls, got %d", calls.Load())
	}
}
