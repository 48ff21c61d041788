package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"

	domai "github.com/wearcheck/compliance-api/internal/domain/ai"
	"github.com/wearcheck/compliance-api/internal/domain/rules"
	"github.com/wearcheck/compliance-api/internal/infra/ai/prompt"
)

// AssistantClient drives the asynchronous job model of the backend: upload
// images, create a thread, submit a run, then poll for completion with
// bounded exponential backoff.
type AssistantClient struct {
	client *openai.Client
	model  string
	poll   PollPolicy

	mu         sync.Mutex
	assistants map[string]string // industry -> assistant id
}

func NewAssistantClient(apiKey, model string, poll PollPolicy) *AssistantClient {
	return &AssistantClient{
		client:     openai.NewClient(apiKey),
		model:      model,
		poll:       poll,
		assistants: make(map[string]string),
	}
}

func (c *AssistantClient) Infer(ctx context.Context, req domai.Request) ([]byte, error) {
	assistantID, err := c.ensureAssistant(ctx, req)
	if err != nil {
		return nil, err
	}

	thread, err := c.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return nil, classify(err)
	}

	// uploaded files cannot be rolled back once the caller disconnects, so
	// cancellation past this point is best-effort only
	attachments, err := c.uploadImages(ctx, req)
	if err != nil {
		return nil, err
	}

	var lines []string
	if req.Description != "" {
		lines = append(lines, prompt.UserText(req.Industry, req.Description))
	}
	if req.ImageBase64 != "" {
		lines = append(lines, prompt.ImageIntro(req.Industry))
	}
	if len(req.ReferenceImagesBase64) > 0 {
		lines = append(lines, prompt.ReferenceIntro())
	}

	if _, err := c.client.CreateMessage(ctx, thread.ID, openai.MessageRequest{
		Role:        openai.ChatMessageRoleUser,
		Content:     strings.Join(lines, "\n\n"),
		Attachments: attachments,
	}); err != nil {
		return nil, classify(err)
	}

	run, err := c.client.CreateRun(ctx, thread.ID, openai.RunRequest{
		AssistantID:  assistantID,
		Instructions: prompt.RunInstructions(req.Industry),
	})
	if err != nil {
		return nil, classify(err)
	}

	if err := Poll(ctx, c.poll, func(ctx context.Context) (bool, error) {
		status, err := c.client.RetrieveRun(ctx, thread.ID, run.ID)
		if err != nil {
			return false, classify(err)
		}
		switch status.Status {
		case openai.RunStatusCompleted:
			return true, nil
		case openai.RunStatusFailed, openai.RunStatusExpired, openai.RunStatusCancelled:
			return false, fmt.Errorf("%w: run ended with status %s", domai.ErrUnavailable, status.Status)
		default:
			return false, nil
		}
	}); err != nil {
		return nil, err
	}

	return c.lastAssistantReply(ctx, thread.ID, run.ID)
}

// ensureAssistant creates (once) and caches one assistant per industry.
func (c *AssistantClient) ensureAssistant(ctx context.Context, req domai.Request) (string, error) {
	key := string(req.Industry)

	c.mu.Lock()
	id, ok := c.assistants[key]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	r, err := rules.RulesFor(req.Industry)
	if err != nil {
		return "", err
	}

	model := c.model
	if model == "" {
		model = openai.GPT4o
	}
	name := fmt.Sprintf("%s dress code compliance assistant", req.Industry)
	instructions := prompt.System(req.Industry, r)

	assistant, err := c.client.CreateAssistant(ctx, openai.AssistantRequest{
		Model:        model,
		Name:         &name,
		Instructions: &instructions,
		Tools:        []openai.AssistantTool{{Type: openai.AssistantToolTypeCodeInterpreter}},
	})
	if err != nil {
		return "", classify(err)
	}

	c.mu.Lock()
	c.assistants[key] = assistant.ID
	c.mu.Unlock()
	return assistant.ID, nil
}

func (c *AssistantClient) uploadImages(ctx context.Context, req domai.Request) ([]openai.ThreadAttachment, error) {
	var attachments []openai.ThreadAttachment
	images := make([]string, 0, 1+len(req.ReferenceImagesBase64))
	if req.ImageBase64 != "" {
		images = append(images, req.ImageBase64)
	}
	images = append(images, req.ReferenceImagesBase64...)

	for i, b64 := range images {
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("%w: image %d is not valid base64", domai.ErrUnavailable, i)
		}
		file, err := c.client.CreateFileBytes(ctx, openai.FileBytesRequest{
			Name:    fmt.Sprintf("outfit-%d.jpg", i),
			Bytes:   raw,
			Purpose: openai.PurposeAssistants,
		})
		if err != nil {
			return nil, classify(err)
		}
		attachments = append(attachments, openai.ThreadAttachment{
			FileID: file.ID,
			Tools:  []openai.ThreadAttachmentTool{{Type: "code_interpreter"}},
		})
	}
	return attachments, nil
}

func (c *AssistantClient) lastAssistantReply(ctx context.Context, threadID, runID string) ([]byte, error) {
	messages, err := c.client.ListMessage(ctx, threadID, nil, nil, nil, nil, &runID)
	if err != nil {
		return nil, classify(err)
	}
	for _, msg := range messages.Messages {
		if msg.Role != openai.ChatMessageRoleAssistant {
			continue
		}
		for _, part := range msg.Content {
			if part.Text != nil {
				return ExtractJSON(part.Text.Value)
			}
		}
	}
	return nil, fmt.Errorf("%w: no assistant reply in thread", domai.ErrMalformedReply)
}
