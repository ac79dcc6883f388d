package upstream

import (
	"encoding/json"
	"strings"

	"github.com/dentacare-id/backend/internal/model/diag"
)

// PlaceholderText is substituted when no assistant text can be extracted
// from an upstream reply.
const PlaceholderText = "Maaf, saya tidak dapat memproses respons saat ini. Silakan coba lagi."

// contentFields is the fixed priority order used to unwrap a structured
// reply body into plain text.
var contentFields = []string{"content", "message", "text", "response"}

// ChatResponse is the reply envelope from the analysis backend. Response is
// kept raw because upstream sometimes sends a bare string and sometimes an
// object with varying field names.
type ChatResponse struct {
	Success   bool            `json:"success"`
	Response  json.RawMessage `json:"response"`
	Analysis  json.RawMessage `json:"analysis,omitempty"`
	Resources []diag.Resource `json:"resources"`
	Error     string          `json:"error,omitempty"`
}

// HealthResponse is the reply envelope from the analysis backend's /health.
type HealthResponse struct {
	Success      bool            `json:"success"`
	Status       string          `json:"status"`
	Dependencies map[string]bool `json:"dependencies"`
	Version      string          `json:"version"`
	Uptime       string          `json:"uptime"`
}

// AssistantText coerces the raw reply body to a renderable string. The raw
// shape never leaves this package.
func (r ChatResponse) AssistantText() string {
	if text, ok := extractText(r.Response, 0); ok {
		return text
	}
	return PlaceholderText
}

func extractText(raw json.RawMessage, depth int) (string, bool) {
	if len(raw) == 0 || depth > 3 {
		return "", false
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if strings.TrimSpace(text) == "" {
			return "", false
		}
		return text, true
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	for _, field := range contentFields {
		if inner, ok := obj[field]; ok {
			if text, ok := extractText(inner, depth+1); ok {
				return text, true
			}
		}
	}
	return "", false
}
