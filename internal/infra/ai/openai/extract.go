package openai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	domai "github.com/wearcheck/compliance-api/internal/domain/ai"
)

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSON locates the candidate result object inside a backend reply.
// Replies are free-form text and may wrap the JSON in a fenced code block.
func ExtractJSON(reply string) ([]byte, error) {
	if m := fencedJSON.FindStringSubmatch(reply); m != nil {
		candidate := strings.TrimSpace(m[1])
		if json.Valid([]byte(candidate)) {
			return []byte(candidate), nil
		}
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in reply", domai.ErrMalformedReply)
	}
	candidate := reply[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, fmt.Errorf("%w: reply JSON does not parse", domai.ErrMalformedReply)
	}
	return []byte(candidate), nil
}
