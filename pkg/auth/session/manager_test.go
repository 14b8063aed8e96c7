package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeStore) AccessSessionKey(accessID string) string {
	return "sc:session:access:" + accessID
}

func newTestManager(store *fakeStore) *Manager {
	return &Manager{store: store, keyer: store, ttl: time.Hour}
}

func TestGenerateStoresToken(t *testing.T) {
	store := newFakeStore()
	mgr := newTestManager(store)

	token, err := mgr.Generate(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}
	if stored := store.values[store.AccessSessionKey("access-1")]; stored != token {
		t.Fatalf("expected stored token %q, got %q", token, stored)
	}

	if _, err := mgr.Generate(context.Background(), "  "); err == nil {
		t.Fatal("expected blank access id to be rejected")
	}
}

func TestRotateReplacesSession(t *testing.T) {
	store := newFakeStore()
	mgr := newTestManager(store)
	ctx := context.Background()

	token, err := mgr.Generate(ctx, "access-old")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	newAccessID, newToken, err := mgr.Rotate(ctx, "access-old", token)
	if err != nil {
		t.Fatalf("Rotate returned error: %v", err)
	}
	if newAccessID == "" || newToken == "" {
		t.Fatal("expected rotated credentials")
	}
	if newToken == token {
		t.Fatal("expected a fresh refresh token")
	}
	if _, ok := store.values[store.AccessSessionKey("access-old")]; ok {
		t.Fatal("expected old session to be deleted")
	}
	if stored := store.values[store.AccessSessionKey(newAccessID)]; stored != newToken {
		t.Fatal("expected new session to be stored")
	}
}

func TestRotateRejectsBadToken(t *testing.T) {
	store := newFakeStore()
	mgr := newTestManager(store)
	ctx := context.Background()

	if _, _, err := mgr.Rotate(ctx, "missing", "whatever"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken for missing session, got %v", err)
	}

	if _, err := mgr.Generate(ctx, "access-1"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, _, err := mgr.Rotate(ctx, "access-1", "wrong-token"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken for mismatched token, got %v", err)
	}
}

func TestRevokeAndHasSession(t *testing.T) {
	store := newFakeStore()
	mgr := newTestManager(store)
	ctx := context.Background()

	if _, err := mgr.Generate(ctx, "access-1"); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	ok, err := mgr.HasSession(ctx, "access-1")
	if err != nil {
		t.Fatalf("HasSession returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected active session")
	}

	if err := mgr.Revoke(ctx, "access-1"); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	ok, err = mgr.HasSession(ctx, "access-1")
	if err != nil {
		t.Fatalf("HasSession returned error: %v", err)
	}
	if ok {
		t.Fatal("expected session to be gone after revoke")
	}
}
