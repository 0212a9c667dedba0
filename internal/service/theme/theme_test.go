package theme

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/janisto/loveconnect/internal/platform/kv"
	applog "github.com/janisto/loveconnect/internal/platform/logging"
)

func TestRehydrateDefaultsToLight(t *testing.T) {
	h := NewHolder(kv.NewMemoryStore())
	h.Rehydrate(context.Background())

	if h.IsDark() || h.Mode() != ModeLight {
		t.Fatal("expected light mode with no stored preference")
	}
	if h.Palette().Background != "#FFFFFF" {
		t.Fatalf("expected light palette, got %+v", h.Palette())
	}
}

func TestRehydrateStoredValues(t *testing.T) {
	tests := []struct {
		stored string
		dark   bool
	}{
		{"dark", true},
		{"light", false},
		{"DARK", false},
		{"", false},
		{"blue", false},
	}
	for _, tt := range tests {
		store := kv.NewMemoryStore()
		_ = store.Set(context.Background(), Key, tt.stored)
		h := NewHolder(store)
		h.Rehydrate(context.Background())
		if h.IsDark() != tt.dark {
			t.Fatalf("stored %q: expected dark=%v", tt.stored, tt.dark)
		}
	}
}

func TestRehydrateReadFailure(t *testing.T) {
	store := kv.NewMemoryStore()
	store.GetErr = errors.New("corrupted")
	h := NewHolder(store)
	h.Rehydrate(context.Background())

	if h.IsDark() {
		t.Fatal("expected light mode on read failure")
	}
}

func TestTogglePersists(t *testing.T) {
	store := kv.NewMemoryStore()
	h := NewHolder(store)
	h.Rehydrate(context.Background())

	if mode := h.Toggle(context.Background()); mode != ModeDark || !h.IsDark() {
		t.Fatalf("expected dark, got %s", mode)
	}
	if v, _, _ := store.Get(context.Background(), Key); v != "dark" {
		t.Fatalf("expected stored dark, got %q", v)
	}
	if h.Palette().Background != "#0F172A" {
		t.Fatalf("expected dark palette, got %+v", h.Palette())
	}

	h.Toggle(context.Background())
	if v, _, _ := store.Get(context.Background(), Key); v != "light" || h.IsDark() {
		t.Fatalf("expected stored light, got %q", v)
	}
}

func TestToggleKeepsChangeWhenWriteFails(t *testing.T) {
	store := kv.NewMemoryStore()
	store.SetErr = errors.New("disk full")
	h := NewHolder(store)

	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := applog.WithLogger(context.Background(), zap.New(core))

	if mode := h.Toggle(ctx); mode != ModeDark || !h.IsDark() {
		t.Fatal("expected optimistic toggle to stick")
	}
	if recorded.FilterMessage("theme toggle: store write failed").Len() != 1 {
		t.Fatal("expected write failure to be logged")
	}
	audits := recorded.FilterMessage("Audit event").All()
	if len(audits) != 1 || audits[0].ContextMap()["audit.result"] != "failure" {
		t.Fatalf("expected failed audit event, got %+v", audits)
	}
}

func TestPaletteFor(t *testing.T) {
	if PaletteFor(ModeDark).Text != "#F1F5F9" || PaletteFor(ModeLight).Text != "#1F2937" {
		t.Fatal("unexpected palette text colors")
	}
	if PaletteFor("other") != PaletteFor(ModeLight) {
		t.Fatal("expected unknown mode to fall back to light")
	}
}
