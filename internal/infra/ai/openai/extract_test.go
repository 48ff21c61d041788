package openai

import (
	"errors"
	"testing"

	domai "github.com/wearcheck/compliance-api/internal/domain/ai"
)

func TestExtractJSON_FencedBlock(t *testing.T) {
	reply := "Here is the assessment:\n```json\n{\"isCompliant\": true}\n```\nLet me know if you need more."
	got, err := ExtractJSON(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"isCompliant": true}` {
		t.Fatalf("unexpected extraction: %s", got)
	}
}

func TestExtractJSON_FenceWithoutLanguage(t *testing.T) {
	reply := "```\n{\"ok\": 1}\n```"
	got, err := ExtractJSON(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"ok": 1}` {
		t.Fatalf("unexpected extraction: %s", got)
	}
}

func TestExtractJSON_BareObjectWithProse(t *testing.T) {
	reply := `Based on the image, {"isCompliant": false, "issues": []} is my verdict.`
	got, err := ExtractJSON(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"isCompliant": false, "issues": []}` {
		t.Fatalf("unexpected extraction: %s", got)
	}
}

func TestExtractJSON_NoObject(t *testing.T) {
	if _, err := ExtractJSON("I cannot assess this image."); !errors.Is(err, domai.ErrMalformedReply) {
		t.Fatalf("expected ErrMalformedReply, got %v", err)
	}
}

func TestExtractJSON_InvalidObject(t *testing.T) {
	if _, err := ExtractJSON(`{"isCompliant": }`); !errors.Is(err, domai.ErrMalformedReply) {
		t.Fatalf("expected ErrMalformedReply, got %v", err)
	}
}
