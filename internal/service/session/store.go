// Package session owns diagnostic session state: TTL-stamped records and
// their append-only message history.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dentacare-id/backend/internal/model/diag"
	"github.com/dentacare-id/backend/pkg/logger"
)

// ErrSessionNotFound signals an unknown or expired session id.
var ErrSessionNotFound = errors.New("session not found")

// DefaultTTL applies when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Store keeps sessions in memory. All mutation goes through the store mutex,
// which also serializes message appends within a session.
type Store struct {
	mu       sync.RWMutex
	ttl      time.Duration
	maxItems int
	sessions map[string]diag.Session
	messages map[string][]diag.Message
}

// NewStore builds an in-memory store. maxItems <= 0 disables the cap.
func NewStore(ttl time.Duration, maxItems int) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:      ttl,
		maxItems: maxItems,
		sessions: make(map[string]diag.Session),
		messages: make(map[string][]diag.Message),
	}
}

// Create provisions a fresh session with a TTL-stamped record.
func (s *Store) Create(_ context.Context) (diag.Session, error) {
	now := time.Now().UTC()

	session := diag.Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
		LastActivity: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(now)
	s.evictIfFullLocked()

	s.sessions[session.ID] = session
	s.messages[session.ID] = make([]diag.Message, 0, 16)

	return session, nil
}

// Get retrieves a session by identifier. Expired sessions are removed on
// access and reported as not found.
func (s *Store) Get(_ context.Context, id string) (diag.Session, error) {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return diag.Session{}, ErrSessionNotFound
	}
	if session.Expired(now) {
		s.removeLocked(id)
		return diag.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Touch refreshes the session's last-activity timestamp.
func (s *Store) Touch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	session.LastActivity = time.Now().UTC()
	s.sessions[id] = session
	return nil
}

// Append adds a message to the session history, assigning it an id and a
// timestamp, and refreshes last-activity. Ordering within a session follows
// append order under the store lock.
func (s *Store) Append(_ context.Context, id string, message diag.Message) error {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok || session.Expired(now) {
		return ErrSessionNotFound
	}

	message.ID = uuid.NewString()
	message.SessionID = id
	if message.CreatedAt.IsZero() {
		message.CreatedAt = now
	}

	s.messages[id] = append(s.messages[id], message)
	session.LastActivity = now
	s.sessions[id] = session
	return nil
}

// Transcript returns a copy of the stored turns for the session.
func (s *Store) Transcript(_ context.Context, id string) ([]diag.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]diag.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

// Clear removes a session and its history.
func (s *Store) Clear(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// sweepLocked drops every session past its TTL. Runs opportunistically on
// access instead of a background scheduler.
func (s *Store) sweepLocked(now time.Time) {
	for id, session := range s.sessions {
		if session.Expired(now) {
			s.removeLocked(id)
		}
	}
}

// evictIfFullLocked drops the least recently active session once the cap is
// reached, keeping memory bounded.
func (s *Store) evictIfFullLocked() {
	if s.maxItems <= 0 || len(s.sessions) < s.maxItems {
		return
	}

	var oldestID string
	var oldestSeen time.Time
	for id, session := range s.sessions {
		if oldestID == "" || session.LastActivity.Before(oldestSeen) {
			oldestID = id
			oldestSeen = session.LastActivity
		}
	}
	if oldestID != "" {
		logger.Warnf("[session] store full, evicting least recently active session %s", oldestID)
		s.removeLocked(oldestID)
	}
}

func (s *Store) removeLocked(id string) {
	delete(s.sessions, id)
	delete(s.messages, id)
}
