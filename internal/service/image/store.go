// Package image stores uploaded diagnostic images in memory and serves them
// back as raw bytes or base64 text.
package image

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dentacare-id/backend/internal/model/diag"
	"github.com/dentacare-id/backend/pkg/logger"
)

var (
	// ErrImageNotFound signals an unknown image identifier.
	ErrImageNotFound = errors.New("image not found")
	// ErrEmptyImage rejects uploads with no payload.
	ErrEmptyImage = errors.New("image payload is empty")
)

// Store keeps uploaded images until process restart. Records are append-only;
// a re-upload always produces a new identifier.
type Store struct {
	mu       sync.RWMutex
	maxItems int
	images   map[string]diag.ImageResource
	// current tracks the most recently uploaded image per owner (session or
	// client scope), replacing the hidden client-side singleton the mobile
	// app used to carry.
	current map[string]string
}

// NewStore builds an in-memory image store. maxItems <= 0 disables the cap.
func NewStore(maxItems int) *Store {
	return &Store{
		maxItems: maxItems,
		images:   make(map[string]diag.ImageResource),
		current:  make(map[string]string),
	}
}

// Upload stores an image payload and returns its record. The identifier is
// time-seeded so concurrent uploads from the same client stay distinguishable
// in upstream traces.
func (s *Store) Upload(_ context.Context, data []byte, filename string) (diag.ImageResource, error) {
	if len(data) == 0 {
		return diag.ImageResource{}, ErrEmptyImage
	}
	if filename == "" {
		filename = "upload.jpg"
	}

	now := time.Now().UTC()
	img := diag.ImageResource{
		ID:         fmt.Sprintf("img_%d_%s", now.UnixNano(), uuid.NewString()[:8]),
		Filename:   filename,
		Size:       int64(len(data)),
		Data:       append([]byte(nil), data...),
		UploadedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictIfFullLocked()
	s.images[img.ID] = img

	return img, nil
}

// Fetch returns the stored record, payload included.
func (s *Store) Fetch(_ context.Context, id string) (diag.ImageResource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	img, ok := s.images[id]
	if !ok {
		return diag.ImageResource{}, ErrImageNotFound
	}
	return img, nil
}

// FetchBase64 returns the payload as standard base64 text.
func (s *Store) FetchBase64(ctx context.Context, id string) (string, error) {
	img, err := s.Fetch(ctx, id)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(img.Data), nil
}

// Exists reports whether an image id resolves, without copying the payload.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.images[id]
	return ok
}

// Remember marks id as the owner's implicit current image for subsequent
// chat turns that omit an explicit reference.
func (s *Store) Remember(owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.images[id]; !ok {
		return ErrImageNotFound
	}
	s.current[owner] = id
	return nil
}

// CurrentFor returns the owner's remembered image id, if any.
func (s *Store) CurrentFor(owner string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.current[owner]
	return id, ok
}

// Forget clears the owner's remembered image.
func (s *Store) Forget(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.current, owner)
}

// Count returns the number of stored images.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}

// evictIfFullLocked drops the oldest upload once the cap is reached. The
// store is otherwise append-only until process restart.
func (s *Store) evictIfFullLocked() {
	if s.maxItems <= 0 || len(s.images) < s.maxItems {
		return
	}

	var oldestID string
	var oldestSeen time.Time
	for id, img := range s.images {
		if oldestID == "" || img.UploadedAt.Before(oldestSeen) {
			oldestID = id
			oldestSeen = img.UploadedAt
		}
	}
	if oldestID != "" {
		logger.Warnf("[image] store full, evicting oldest upload %s", oldestID)
		delete(s.images, oldestID)
		// Drop any current-image entry referencing the evicted id so later
		// turns don't go out with a dangling reference.
		for owner, id := range s.current {
			if id == oldestID {
				delete(s.current, owner)
			}
		}
	}
}
