package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newRedisBackend(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func backends(t *testing.T) map[string]Backend {
	return map[string]Backend{
		"memory": NewMemoryStore(),
		"redis":  newRedisBackend(t),
	}
}

func TestBucketSetGetRemove(t *testing.T) {
	ctx := context.Background()
	for name, be := range backends(t) {
		t.Run(name, func(t *testing.T) {
			b := be.Bucket("browser-1")

			if _, ok, err := b.Get(ctx, KeyToken); err != nil || ok {
				t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
			}

			if err := b.Set(ctx, KeyToken, "abc123"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := b.Set(ctx, KeyToken, "def456"); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}

			v, ok, err := b.Get(ctx, KeyToken)
			if err != nil || !ok || v != "def456" {
				t.Fatalf("expected def456, got %q ok=%v err=%v", v, ok, err)
			}

			if err := b.Remove(ctx, KeyToken); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if _, ok, _ := b.Get(ctx, KeyToken); ok {
				t.Fatalf("expected key to be removed")
			}

			// Removing an absent key is not an error.
			if err := b.Remove(ctx, KeyEmail); err != nil {
				t.Fatalf("Remove absent: %v", err)
			}
		})
	}
}

func TestBucketsAreIsolated(t *testing.T) {
	ctx := context.Background()
	for name, be := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a := be.Bucket("a")
			b := be.Bucket("b")

			if err := a.Set(ctx, KeyEmail, "a@b.com"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if _, ok, _ := b.Get(ctx, KeyEmail); ok {
				t.Fatalf("bucket b must not see bucket a's keys")
			}
			if v, ok, _ := be.Bucket("a").Get(ctx, KeyEmail); !ok || v != "a@b.com" {
				t.Fatalf("a fresh view of bucket a must see its keys, got %q", v)
			}
		})
	}
}

func TestNewRedisStoreBadURL(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), "not-a-url"); err == nil {
		t.Fatalf("expected error for malformed url")
	}
}
