package upstream

// Fixed identification carried on every outbound chat request so upstream
// traces can attribute calls to this service.
const (
	ContextTag    = "dentacare_mobile_app"
	ClientVersion = "1.0.0"
)

// ChatRequest is the envelope sent to the analysis backend's /chat endpoint.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	ImageID   string `json:"image_id,omitempty"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
	Context   string `json:"context"`
	Version   string `json:"version"`
}
