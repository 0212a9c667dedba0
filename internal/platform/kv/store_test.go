package kv

import (
	"context"
	"testing"
)

// exerciseStore runs the Store contract against s.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "user"); err != nil || ok {
		t.Fatalf("expected absent key without error, got ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "user", `{"id":"1"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "user")
	if err != nil || !ok {
		t.Fatalf("expected stored key, got ok=%v err=%v", ok, err)
	}
	if v != `{"id":"1"}` {
		t.Fatalf("unexpected value %q", v)
	}

	if err := s.Set(ctx, "user", `{"id":"2"}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _, _ := s.Get(ctx, "user"); v != `{"id":"2"}` {
		t.Fatalf("expected overwritten value, got %q", v)
	}

	if err := s.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if err := s.Remove(ctx, "user"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "user"); ok {
		t.Fatal("expected key removed")
	}
	if v, ok, _ := s.Get(ctx, "theme"); !ok || v != "dark" {
		t.Fatalf("expected unrelated key untouched, got %q ok=%v", v, ok)
	}

	if err := s.Remove(ctx, "user"); err != nil {
		t.Fatalf("remove of absent key should succeed: %v", err)
	}
}
