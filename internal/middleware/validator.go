package middleware

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Input validation and sanitization utilities

// ValidateIndustry checks the industry name against the allowed list
func ValidateIndustry(industry string) error {
	allowed := map[string]bool{
		"healthcare":   true,
		"construction": true,
	}

	if !allowed[strings.ToLower(industry)] {
		return fmt.Errorf("invalid industry: %s (allowed: healthcare, construction)", industry)
	}
	return nil
}

// ValidateBase64Image checks that a payload is decodable base64 and that
// the decoded size stays within maxBytes.
func ValidateBase64Image(b64 string, maxBytes int64) error {
	if b64 == "" {
		return nil // optional field
	}
	if int64(base64.StdEncoding.DecodedLen(len(b64))) > maxBytes {
		return fmt.Errorf("image exceeds the %d byte limit", maxBytes)
	}
	if _, err := base64.StdEncoding.DecodeString(b64); err != nil {
		return fmt.Errorf("image is not valid base64: %w", err)
	}
	return nil
}

// ValidateRecordID parses a record id path parameter
func ValidateRecordID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id: %s", raw)
	}
	return id, nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidatePage validates a page number
func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}
