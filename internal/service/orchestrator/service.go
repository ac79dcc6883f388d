// Package orchestrator drives one diagnostic chat turn end to end: session
// resolution, validation, the upstream call, reply normalization, and the
// degraded path when the backend is unreachable.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dentacare-id/backend/internal/analysis/fallback"
	"github.com/dentacare-id/backend/internal/model/diag"
	upstreammodel "github.com/dentacare-id/backend/internal/model/upstream"
	"github.com/dentacare-id/backend/internal/service/image"
	"github.com/dentacare-id/backend/internal/service/session"
	"github.com/dentacare-id/backend/internal/upstream"
	"github.com/dentacare-id/backend/pkg/logger"
)

var (
	// ErrEmptyMessage rejects blank turn text before any upstream call.
	ErrEmptyMessage = errors.New("message text is empty")
	// ErrInvalidImageReference rejects an explicit image id that does not
	// resolve. Silently dropping the image would change diagnostic intent.
	ErrInvalidImageReference = errors.New("referenced image does not exist")
)

// Service composes the stores and the upstream client into the turn pipeline.
type Service struct {
	sessions *session.Store
	images   *image.Store
	client   *upstream.Client
}

// NewService wires the orchestrator.
func NewService(sessions *session.Store, images *image.Store, client *upstream.Client) *Service {
	return &Service{sessions: sessions, images: images, client: client}
}

// SendTurn processes one chat turn. Upstream failures never surface as
// errors; the caller always receives an assistant turn, degraded if needed.
// Only validation failures return an error.
func (s *Service) SendTurn(ctx context.Context, sessionID, text, imageID string) (diag.ChatResult, error) {
	if strings.TrimSpace(text) == "" {
		return diag.ChatResult{}, ErrEmptyMessage
	}
	if imageID != "" && !s.images.Exists(imageID) {
		return diag.ChatResult{}, ErrInvalidImageReference
	}

	sess, err := s.resolveSession(ctx, sessionID)
	if err != nil {
		return diag.ChatResult{}, err
	}

	result := s.callUpstream(ctx, sess.ID, text, imageID)

	userTurn := diag.Message{
		Role:    diag.RoleUser,
		Content: text,
		ImageID: imageID,
	}
	assistantTurn := diag.Message{
		Role:      diag.RoleAssistant,
		Content:   result.Content,
		Resources: result.Resources,
		Analysis:  result.Analysis,
		Fallback:  result.Fallback,
		Note:      result.Note,
	}

	if err := s.sessions.Append(ctx, sess.ID, userTurn); err != nil {
		return diag.ChatResult{}, err
	}
	if err := s.sessions.Append(ctx, sess.ID, assistantTurn); err != nil {
		return diag.ChatResult{}, err
	}

	return result, nil
}

// Transcript exposes the stored turn sequence for audit surfaces.
func (s *Service) Transcript(ctx context.Context, sessionID string) ([]diag.Message, error) {
	return s.sessions.Transcript(ctx, sessionID)
}

// resolveSession fetches the session or transparently creates a replacement,
// preserving conversation continuity when a client holds a stale id.
func (s *Service) resolveSession(ctx context.Context, sessionID string) (diag.Session, error) {
	if sessionID != "" {
		sess, err := s.sessions.Get(ctx, sessionID)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, session.ErrSessionNotFound) {
			return diag.Session{}, err
		}
		logger.Infof("[orchestrator] session %s unknown or expired, creating replacement", sessionID)
	}
	return s.sessions.Create(ctx)
}

// callUpstream performs the traced backend call and normalizes the reply.
// Every failure routes through the fallback responder.
func (s *Service) callUpstream(ctx context.Context, sessionID, text, imageID string) diag.ChatResult {
	req := upstreammodel.ChatRequest{
		Message:   text,
		SessionID: sessionID,
		ImageID:   imageID,
		RequestID: uuid.NewString(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Context:   upstreammodel.ContextTag,
		Version:   upstreammodel.ClientVersion,
	}

	resp, err := s.client.Chat(ctx, req)
	if err != nil {
		logger.Warnf("[orchestrator] upstream call failed, using fallback: %v", err)
		reply := fallback.Respond(text, imageID != "")
		return diag.ChatResult{
			SessionID: sessionID,
			Content:   reply.Content,
			Analysis:  reply.Analysis,
			Resources: []diag.Resource{},
			Fallback:  true,
			Note:      "AI backend unavailable: " + err.Error(),
		}
	}

	resources := resp.Resources
	if resources == nil {
		resources = []diag.Resource{}
	}

	return diag.ChatResult{
		SessionID: sessionID,
		Content:   resp.AssistantText(),
		Analysis:  resp.Analysis,
		Resources: resources,
	}
}
