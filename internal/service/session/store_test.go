package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/dentacare-id/backend/internal/model/diag"
	"github.com/dentacare-id/backend/internal/service/session"
)

func TestStoreCreateAndGet(t *testing.T) {
	store := session.NewStore(time.Hour, 0)
	ctx := context.Background()

	created, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a session id")
	}
	if !created.ExpiresAt.After(created.CreatedAt) {
		t.Fatal("expected expiry after creation")
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("unexpected session ID: got %s want %s", got.ID, created.ID)
	}
}

func TestStoreGetNotFound(t *testing.T) {
	store := session.NewStore(time.Hour, 0)

	if _, err := store.Get(context.Background(), "missing"); err != session.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStoreExpiry(t *testing.T) {
	store := session.NewStore(10*time.Millisecond, 0)
	ctx := context.Background()

	created, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, err := store.Get(ctx, created.ID); err != session.ErrSessionNotFound {
		t.Fatalf("expected expired session to be gone, got %v", err)
	}
	if store.Count() != 0 {
		t.Fatalf("expected expired session removed on access, count=%d", store.Count())
	}
}

func TestStoreAppendOrdering(t *testing.T) {
	store := session.NewStore(time.Hour, 0)
	ctx := context.Background()

	created, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}

	const turns = 3
	for i := 0; i < turns; i++ {
		if err := store.Append(ctx, created.ID, diag.Message{Role: diag.RoleUser, Content: "q"}); err != nil {
			t.Fatalf("Append user err: %v", err)
		}
		if err := store.Append(ctx, created.ID, diag.Message{Role: diag.RoleAssistant, Content: "a"}); err != nil {
			t.Fatalf("Append assistant err: %v", err)
		}
	}

	transcript, err := store.Transcript(ctx, created.ID)
	if err != nil {
		t.Fatalf("Transcript err: %v", err)
	}
	if len(transcript) != 2*turns {
		t.Fatalf("expected %d messages after %d turns, got %d", 2*turns, turns, len(transcript))
	}

	for i, msg := range transcript {
		wantRole := diag.RoleUser
		if i%2 == 1 {
			wantRole = diag.RoleAssistant
		}
		if msg.Role != wantRole {
			t.Fatalf("message %d: expected role %s, got %s", i, wantRole, msg.Role)
		}
		if i > 0 && msg.CreatedAt.Before(transcript[i-1].CreatedAt) {
			t.Fatalf("message %d timestamp precedes its predecessor", i)
		}
		if msg.ID == "" {
			t.Fatalf("message %d has no id", i)
		}
	}
}

func TestStoreAppendUnknownSession(t *testing.T) {
	store := session.NewStore(time.Hour, 0)

	err := store.Append(context.Background(), "ghost", diag.Message{Role: diag.RoleUser, Content: "q"})
	if err != session.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStoreTouchRefreshesActivity(t *testing.T) {
	store := session.NewStore(time.Hour, 0)
	ctx := context.Background()

	created, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if err := store.Touch(ctx, created.ID); err != nil {
		t.Fatalf("Touch err: %v", err)
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if !got.LastActivity.After(created.LastActivity) {
		t.Fatal("expected Touch to advance last-activity")
	}
}

func TestStoreEvictsLeastRecentlyActive(t *testing.T) {
	store := session.NewStore(time.Hour, 2)
	ctx := context.Background()

	first, _ := store.Create(ctx)
	time.Sleep(2 * time.Millisecond)
	second, _ := store.Create(ctx)
	time.Sleep(2 * time.Millisecond)

	// Touch the first so the second becomes the eviction candidate.
	if err := store.Touch(ctx, first.ID); err != nil {
		t.Fatalf("Touch err: %v", err)
	}

	third, _ := store.Create(ctx)

	if _, err := store.Get(ctx, second.ID); err != session.ErrSessionNotFound {
		t.Fatalf("expected least recently active session evicted, got %v", err)
	}
	if _, err := store.Get(ctx, first.ID); err != nil {
		t.Fatalf("expected touched session kept: %v", err)
	}
	if _, err := store.Get(ctx, third.ID); err != nil {
		t.Fatalf("expected new session kept: %v", err)
	}
}

func TestStoreClear(t *testing.T) {
	store := session.NewStore(time.Hour, 0)
	ctx := context.Background()

	created, _ := store.Create(ctx)
	store.Clear(ctx, created.ID)

	if _, err := store.Get(ctx, created.ID); err != session.ErrSessionNotFound {
		t.Fatalf("expected cleared session gone, got %v", err)
	}
}
