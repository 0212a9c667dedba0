// Package theme holds the light/dark appearance preference.
package theme

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/janisto/loveconnect/internal/platform/kv"
	applog "github.com/janisto/loveconnect/internal/platform/logging"
)

// Key is the store key holding the preference.
const Key = "theme"

// Mode is the persisted preference value.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// Palette is the set of colors the app shell renders with.
type Palette struct {
	Primary       string    `json:"primary"`
	Secondary     string    `json:"secondary"`
	Accent        string    `json:"accent"`
	Background    string    `json:"background"`
	Surface       string    `json:"surface"`
	Card          string    `json:"card"`
	Text          string    `json:"text"`
	TextSecondary string    `json:"textSecondary"`
	Border        string    `json:"border"`
	Success       string    `json:"success"`
	Warning       string    `json:"warning"`
	Error         string    `json:"error"`
	Gradient      [2]string `json:"gradient"`
}

var (
	lightPalette = Palette{
		Primary:       "#FF6B6B",
		Secondary:     "#4ECDC4",
		Accent:        "#45B7D1",
		Background:    "#FFFFFF",
		Surface:       "#F8FAFC",
		Card:          "#FFFFFF",
		Text:          "#1F2937",
		TextSecondary: "#6B7280",
		Border:        "#E5E7EB",
		Success:       "#10B981",
		Warning:       "#F59E0B",
		Error:         "#EF4444",
		Gradient:      [2]string{"#FF6B6B", "#4ECDC4"},
	}
	darkPalette = Palette{
		Primary:       "#FF6B6B",
		Secondary:     "#4ECDC4",
		Accent:        "#45B7D1",
		Background:    "#0F172A",
		Surface:       "#1E293B",
		Card:          "#334155",
		Text:          "#F1F5F9",
		TextSecondary: "#94A3B8",
		Border:        "#475569",
		Success:       "#10B981",
		Warning:       "#F59E0B",
		Error:         "#EF4444",
		Gradient:      [2]string{"#FF6B6B", "#4ECDC4"},
	}
)

// PaletteFor returns the colors for mode.
func PaletteFor(mode Mode) Palette {
	if mode == ModeDark {
		return darkPalette
	}
	return lightPalette
}

// Holder is the in-process theme preference. It owns the "theme" key.
// The zero preference is light.
type Holder struct {
	store kv.Store

	mu   sync.RWMutex
	dark bool
}

// NewHolder creates a holder that reports light until Rehydrate runs.
func NewHolder(store kv.Store) *Holder {
	return &Holder{store: store}
}

// Rehydrate loads the stored preference. Only the exact value "dark" selects
// dark mode; an absent key, any other value or a read error selects light.
func (h *Holder) Rehydrate(ctx context.Context) {
	v, ok, err := h.store.Get(ctx, Key)
	if err != nil {
		applog.LogWarn(ctx, "theme rehydrate: store read failed", zap.Error(err))
	}
	dark := err == nil && ok && Mode(v) == ModeDark

	h.mu.Lock()
	h.dark = dark
	h.mu.Unlock()
}

// IsDark reports whether dark mode is selected.
func (h *Holder) IsDark() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dark
}

// Mode returns the selected mode.
func (h *Holder) Mode() Mode {
	if h.IsDark() {
		return ModeDark
	}
	return ModeLight
}

// Palette returns the colors of the selected mode.
func (h *Holder) Palette() Palette {
	return PaletteFor(h.Mode())
}

// Toggle flips the preference and returns the new mode. The in-memory value
// changes immediately; a failed write is logged and the change kept.
func (h *Holder) Toggle(ctx context.Context) Mode {
	// The lock is held across the write so concurrent toggles persist in order.
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dark = !h.dark
	mode := ModeLight
	if h.dark {
		mode = ModeDark
	}

	result := applog.ResultSuccess
	var details map[string]any
	if err := h.store.Set(ctx, Key, string(mode)); err != nil {
		applog.LogError(ctx, "theme toggle: store write failed", err, zap.String("mode", string(mode)))
		result = applog.ResultFailure
		details = map[string]any{"error": "store_error"}
	}
	applog.LogAuditEvent(ctx, "theme_toggle", "", "theme", result, details)
	return mode
}
