package counter

import (
	"context"
	_ "embed"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

//go:embed prompts/heads.txt
var headsPrompt string

//go:embed prompts/signatures.txt
var signaturesPrompt string

const (
	openAIModel = openai.ChatModelGPT4_1Mini
	maxAttempts = 3
)

// OpenAI counts with an OpenAI vision model.
type OpenAI struct {
	client *openai.Client
}

// NewOpenAI creates an OpenAI counter. Extra request options are passed to the client.
func NewOpenAI(apiKey string, opts ...option.RequestOption) *OpenAI {
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAI{client: &client}
}

func (o *OpenAI) Name() string {
	return string(KindOpenAI)
}

func (o *OpenAI) CountHeads(ctx context.Context, image []byte) (*Result, error) {
	return o.count(ctx, image, headsPrompt, "Count the people in this lecture hall.")
}

func (o *OpenAI) CountSignatures(ctx context.Context, image []byte) (*Result, error) {
	return o.count(ctx, image, signaturesPrompt, "Count the signatures on this sheet.")
}

func (o *OpenAI) count(ctx context.Context, image []byte, systemPrompt, instruction string) (*Result, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}

	resized, err := Downscale(image, maxImageSide)
	if err != nil {
		return nil, err
	}
	imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(resized)

	messages := []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(systemPrompt),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						openai.TextContentPart(instruction),
						openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
							URL:    imageURL,
							Detail: "high",
						}),
					},
				},
			},
		},
	}

	var lastErr error
	var lastResponse string

	for range maxAttempts {
		resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    openAIModel,
			Messages: messages,
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			},
			MaxTokens: openai.Int(100),
		})
		if err != nil {
			return nil, fmt.Errorf("OpenAI API error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, errors.New("no response from OpenAI")
		}

		content := resp.Choices[0].Message.Content
		lastResponse = content

		result, err := parseCountResponse(content)
		if err != nil {
			lastErr = err
			messages = append(messages,
				openai.ChatCompletionMessageParamUnion{
					OfAssistant: &openai.ChatCompletionAssistantMessageParam{
						Content: openai.ChatCompletionAssistantMessageParamContentUnion{
							OfString: openai.String(content),
						},
					},
				},
				openai.ChatCompletionMessageParamUnion{
					OfUser: &openai.ChatCompletionUserMessageParam{
						Content: openai.ChatCompletionUserMessageParamContentUnion{
							OfString: openai.String(retryFeedback(err)),
						},
					},
				},
			)
			continue
		}

		return result, nil
	}

	return nil, fmt.Errorf("invalid count response after %d attempts: %w (last response: %s)", maxAttempts, lastErr, lastResponse)
}

func retryFeedback(err error) string {
	return fmt.Sprintf(`Invalid response: %v. Reply with only {"count": <non-negative integer>, "confidence": <0..1>}.`, err)
}
