// Package client is the consumer-facing surface used by chat screens. It
// composes the orchestration services and keeps the small piece of per-client
// state (current session id, current image id) across calls.
package client

import (
	"context"
	"sync"

	"github.com/dentacare-id/backend/internal/model/diag"
	"github.com/dentacare-id/backend/internal/service/health"
	"github.com/dentacare-id/backend/internal/service/image"
	"github.com/dentacare-id/backend/internal/service/orchestrator"
	"github.com/dentacare-id/backend/internal/service/session"
	"github.com/dentacare-id/backend/pkg/logger"
)

// Facade owns no business logic beyond composition and client-lifetime state.
type Facade struct {
	orch     *orchestrator.Service
	sessions *session.Store
	images   *image.Store
	monitor  *health.Monitor

	mu        sync.Mutex
	sessionID string
}

// NewFacade wires a façade for one client lifetime.
func NewFacade(orch *orchestrator.Service, sessions *session.Store, images *image.Store, monitor *health.Monitor) *Facade {
	return &Facade{orch: orch, sessions: sessions, images: images, monitor: monitor}
}

// EnsureSession returns the current session id, creating or replacing the
// session when none is held or the held one expired.
func (f *Facade) EnsureSession(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ensureSessionLocked(ctx)
}

func (f *Facade) ensureSessionLocked(ctx context.Context) (string, error) {
	if f.sessionID != "" {
		if _, err := f.sessions.Get(ctx, f.sessionID); err == nil {
			return f.sessionID, nil
		}
	}

	sess, err := f.sessions.Create(ctx)
	if err != nil {
		return "", err
	}
	f.sessionID = sess.ID
	return sess.ID, nil
}

// UploadAndRememberImage stores the payload and marks it as the session's
// implicit current image for subsequent turns.
func (f *Facade) UploadAndRememberImage(ctx context.Context, data []byte, filename string) (diag.ImageResource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sessionID, err := f.ensureSessionLocked(ctx)
	if err != nil {
		return diag.ImageResource{}, err
	}

	img, err := f.images.Upload(ctx, data, filename)
	if err != nil {
		return diag.ImageResource{}, err
	}
	if err := f.images.Remember(sessionID, img.ID); err != nil {
		return diag.ImageResource{}, err
	}
	return img, nil
}

// Send submits a turn using the remembered image, if any.
func (f *Facade) Send(ctx context.Context, text string) (diag.ChatResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sessionID, err := f.ensureSessionLocked(ctx)
	if err != nil {
		return diag.ChatResult{}, err
	}

	imageID, _ := f.images.CurrentFor(sessionID)
	return f.sendLocked(ctx, sessionID, text, imageID)
}

// SendWithImage submits a turn with an explicit image reference.
func (f *Facade) SendWithImage(ctx context.Context, text, imageID string) (diag.ChatResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sessionID, err := f.ensureSessionLocked(ctx)
	if err != nil {
		return diag.ChatResult{}, err
	}
	return f.sendLocked(ctx, sessionID, text, imageID)
}

func (f *Facade) sendLocked(ctx context.Context, sessionID, text, imageID string) (diag.ChatResult, error) {
	result, err := f.orch.SendTurn(ctx, sessionID, text, imageID)
	if err != nil {
		return diag.ChatResult{}, err
	}

	// The orchestrator may have replaced a stale session; adopt the id it
	// answered with and carry the remembered image across.
	if result.SessionID != sessionID {
		logger.Infof("[client] session migrated %s -> %s", sessionID, result.SessionID)
		if current, ok := f.images.CurrentFor(sessionID); ok {
			_ = f.images.Remember(result.SessionID, current)
			f.images.Forget(sessionID)
		}
		f.sessionID = result.SessionID
	}
	return result, nil
}

// ForgetImage clears the remembered image so the next turn goes out without
// an attachment.
func (f *Facade) ForgetImage() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionID != "" {
		f.images.Forget(f.sessionID)
	}
}

// CheckAvailability runs exactly one fresh probe and reports the resulting
// tri-state signal. Retry is the caller's decision, one probe per call.
func (f *Facade) CheckAvailability(ctx context.Context) diag.Availability {
	f.monitor.Probe(ctx)
	return f.monitor.Availability()
}
