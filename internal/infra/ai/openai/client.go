package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	domai "github.com/wearcheck/compliance-api/internal/domain/ai"
	"github.com/wearcheck/compliance-api/internal/domain/rules"
	"github.com/wearcheck/compliance-api/internal/infra/ai/prompt"
)

const maxTokens = 1024

// Client sends one outfit through the chat-completions endpoint with
// vision content parts and returns the raw candidate result JSON.
type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

func (c *Client) Infer(ctx context.Context, req domai.Request) ([]byte, error) {
	model := c.Model
	if model == "" {
		model = openai.GPT4o
	}

	r, err := rules.RulesFor(req.Industry)
	if err != nil {
		return nil, err
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: prompt.System(req.Industry, r)},
	}

	switch {
	case req.ImageBase64 != "":
		parts := []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt.ImageIntro(req.Industry)},
			{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: dataURL(req.ImageBase64)},
			},
		}
		if len(req.ReferenceImagesBase64) > 0 {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: prompt.ReferenceIntro(),
			})
			for _, ref := range req.ReferenceImagesBase64 {
				parts = append(parts, openai.ChatMessagePart{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: dataURL(ref)},
				})
			}
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:         openai.ChatMessageRoleUser,
			MultiContent: parts,
		})
	case req.Description != "":
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt.UserText(req.Industry, req.Description),
		})
	default:
		return nil, fmt.Errorf("%w: neither image nor description supplied", domai.ErrUnavailable)
	}

	resp, err := c.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", domai.ErrMalformedReply)
	}

	return ExtractJSON(resp.Choices[0].Message.Content)
}

func dataURL(b64 string) string {
	return "data:image/jpeg;base64," + b64
}

// classify maps transport errors onto the domain error taxonomy: quota
// errors so the orchestrator can mask them, missing/bad credentials as
// unconfigured, everything else as unavailable.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %v", domai.ErrUnconfigured, err)
		}
		if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
			return fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
		}
	}
	return fmt.Errorf("%w: %v", domai.ErrUnavailable, err)
}
