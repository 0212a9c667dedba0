package kv

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newRedisStoreForTest(t *testing.T, prefix string) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mini.Close()
	})
	return NewRedisStore(client, prefix), mini
}

func TestRedisStoreContract(t *testing.T) {
	store, _ := newRedisStoreForTest(t, "loveconnect:")
	exerciseStore(t, store)
}

func TestRedisStoreUsesPrefix(t *testing.T) {
	store, mini := newRedisStoreForTest(t, "device-1:")

	if err := store.Set(context.Background(), "theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := mini.Get("device-1:theme")
	if err != nil {
		t.Fatalf("miniredis get: %v", err)
	}
	if got != "dark" {
		t.Fatalf("expected dark under prefixed key, got %q", got)
	}
	if mini.Exists("theme") {
		t.Fatal("did not expect unprefixed key")
	}
}

func TestRedisStoreBackendDown(t *testing.T) {
	store, mini := newRedisStoreForTest(t, "")
	mini.Close()

	if _, _, err := store.Get(context.Background(), "user"); err == nil {
		t.Fatal("expected error when redis is down")
	}
	if err := store.Set(context.Background(), "user", "x"); err == nil {
		t.Fatal("expected error when redis is down")
	}
}

func TestRedisStoreNilClient(t *testing.T) {
	store := NewRedisStore(nil, "")
	if _, _, err := store.Get(context.Background(), "user"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := store.Remove(context.Background(), "user"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
