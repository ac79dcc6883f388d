// Package resource fetches generated visualizations from the analysis
// backend in the representation the caller asks for.
package resource

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dentacare-id/backend/internal/upstream"
)

// Supported representations. Callers must request one explicitly.
const (
	ReprFile   = "file"
	ReprBase64 = "base64"
	ReprURL    = "url"
)

// ErrUnknownRepresentation rejects formats outside file/base64/url.
var ErrUnknownRepresentation = errors.New("unknown resource representation")

// NotFoundError distinguishes a missing or unreachable artifact from a
// generic failure so UI layers can render a placeholder instead of crashing.
// StatusCode carries the upstream HTTP status when one was received.
type NotFoundError struct {
	ID         string
	StatusCode int
	cause      error
}

func (e *NotFoundError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("resource %s not found (upstream status %d)", e.ID, e.StatusCode)
	}
	return fmt.Sprintf("resource %s not available: %v", e.ID, e.cause)
}

func (e *NotFoundError) Unwrap() error { return e.cause }

// Artifact is a fetched visualization in exactly one representation.
type Artifact struct {
	Data   []byte
	Base64 string
	URL    string
}

// Retriever resolves artifact ids against the upstream backend.
type Retriever struct {
	client *upstream.Client
}

// NewRetriever builds a retriever over the shared upstream client.
func NewRetriever(client *upstream.Client) *Retriever {
	return &Retriever{client: client}
}

// Fetch retrieves the artifact in the requested representation. Upstream
// failures of any kind surface as NotFoundError per the error contract of
// introspection calls.
func (r *Retriever) Fetch(ctx context.Context, id, repr string) (Artifact, error) {
	switch repr {
	case ReprFile:
		body, err := r.client.Resource(ctx, id, ReprFile)
		if err != nil {
			return Artifact{}, notFound(id, err)
		}
		return Artifact{Data: body}, nil

	case ReprBase64:
		body, err := r.client.Resource(ctx, id, ReprBase64)
		if err != nil {
			return Artifact{}, notFound(id, err)
		}
		encoded, err := cleanBase64(body)
		if err != nil {
			return Artifact{}, fmt.Errorf("resource %s: %w", id, err)
		}
		return Artifact{Base64: encoded}, nil

	case ReprURL:
		// The id must resolve upstream before a URL is handed out; a
		// nonexistent artifact is NotFound, never an empty success.
		body, err := r.client.Resource(ctx, id, ReprURL)
		if err != nil {
			return Artifact{}, notFound(id, err)
		}
		var envelope struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.URL != "" {
			return Artifact{URL: envelope.URL}, nil
		}
		return Artifact{URL: r.client.ResourceURL(id)}, nil

	default:
		return Artifact{}, fmt.Errorf("%w: %q", ErrUnknownRepresentation, repr)
	}
}

// cleanBase64 normalizes an upstream base64 payload. Upstream sometimes
// wraps the text in a {"data": ...} envelope and is known to include
// incidental whitespace and newlines inside the encoded text.
func cleanBase64(body []byte) (string, error) {
	text := string(body)

	var envelope struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != "" {
		text = envelope.Data
	}

	stripped := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, text)

	if _, err := base64.StdEncoding.DecodeString(stripped); err != nil {
		return "", fmt.Errorf("invalid base64 payload: %w", err)
	}
	return stripped, nil
}

func notFound(id string, err error) error {
	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		return &NotFoundError{ID: id, StatusCode: statusErr.StatusCode, cause: err}
	}
	return &NotFoundError{ID: id, cause: err}
}
