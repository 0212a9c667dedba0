// Package profilesetup accumulates the answers of the multi-step profile
// wizard and merges them into the signed-in user when the wizard completes.
package profilesetup

import (
	"context"
	"sync"

	"go.uber.org/zap"

	applog "github.com/janisto/loveconnect/internal/platform/logging"
	"github.com/janisto/loveconnect/internal/service/session"
)

// Updater applies a patch to the signed-in user. *session.Holder implements it.
type Updater interface {
	UpdateUser(ctx context.Context, patch session.UserPatch) (bool, error)
}

// Step is a page of the wizard.
type Step int

const (
	StepBasicInfo Step = iota
	StepLocation
	StepPhotos
	StepBio
	StepInterests
	StepPreferences
)

// StepCount is the number of wizard steps.
const StepCount = 6

var stepMeta = [StepCount]struct {
	slug  string
	title string
}{
	{"basic-info", "Basic Info"},
	{"location", "Location"},
	{"photos", "Photos"},
	{"bio", "About You"},
	{"interests", "Interests"},
	{"preferences", "Preferences"},
}

// String returns the step's slug, e.g. "basic-info".
func (s Step) String() string {
	if !s.valid() {
		return "unknown"
	}
	return stepMeta[s].slug
}

// Title returns the heading shown for the step.
func (s Step) Title() string {
	if !s.valid() {
		return ""
	}
	return stepMeta[s].title
}

// Number is the 1-based position of the step.
func (s Step) Number() int {
	return int(s) + 1
}

// IsLast reports whether s is the final step.
func (s Step) IsLast() bool {
	return s == StepCount-1
}

func (s Step) valid() bool {
	return s >= 0 && s < StepCount
}

// DefaultPreferences are the preferences the preferences step starts from.
func DefaultPreferences() session.Preferences {
	return session.Preferences{AgeRange: [2]int{22, 35}, MaxDistance: 50}
}

// State is a copy of the wizard's cursor and draft.
type State struct {
	Step  Step
	Draft session.UserPatch
}

// Wizard holds the cursor and the draft patch. Field values are not validated
// here; each step's input layer is responsible for that.
type Wizard struct {
	updater Updater

	mu    sync.Mutex
	step  Step
	draft session.UserPatch
}

// New creates a wizard positioned on the first step with an empty draft.
func New(updater Updater) *Wizard {
	return &Wizard{updater: updater}
}

// State returns a copy of the current cursor and draft.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{Step: w.step, Draft: w.draft.Clone()}
}

// Update merges patch into the draft; fields present in patch win.
func (w *Wizard) Update(patch session.UserPatch) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft = w.draft.Merge(patch.Clone())
}

// Advance moves to the next step. On the last step it completes the wizard
// instead and reports whether completion succeeded.
func (w *Wizard) Advance(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.step.IsLast() {
		w.step++
		return false, nil
	}
	if err := w.complete(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Retreat moves to the previous step. It is a no-op on the first step.
func (w *Wizard) Retreat() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > 0 {
		w.step--
	}
}

// Complete merges the draft into the signed-in user and marks the profile
// complete. On failure the draft and cursor are kept so the caller can retry;
// session.ErrNoSession is returned when nobody is signed in.
func (w *Wizard) Complete(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.complete(ctx)
}

func (w *Wizard) complete(ctx context.Context) error {
	patch := w.draft.Clone()
	patch.IsProfileComplete = session.Ptr(true)

	ok, err := w.updater.UpdateUser(ctx, patch)
	if err != nil {
		applog.LogError(ctx, "profile setup: completion failed", err, zap.Stringer("step", w.step))
		return err
	}
	if !ok {
		applog.LogWarn(ctx, "profile setup: completion without a session")
		return session.ErrNoSession
	}

	applog.LogInfo(ctx, "profile setup completed", zap.Strings("fields", patch.Fields()))
	w.draft = session.UserPatch{}
	w.step = StepBasicInfo
	return nil
}
