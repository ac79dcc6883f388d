package diag

import (
	"encoding/json"
	"time"
)

// Roles recorded on a stored turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message persists individual turns for audit/history. Content is always a
// plain string; structured upstream payloads are unwrapped before a Message
// is ever built.
type Message struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	ImageID   string          `json:"image_id,omitempty"`
	Resources []Resource      `json:"resources,omitempty"`
	Analysis  json.RawMessage `json:"analysis,omitempty"`
	Fallback  bool            `json:"fallback_mode,omitempty"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
