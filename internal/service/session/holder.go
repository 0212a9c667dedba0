// Package session holds the signed-in user and the operations that move the
// app between unauthenticated, unverified, profile-incomplete and active.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/janisto/loveconnect/internal/platform/kv"
	applog "github.com/janisto/loveconnect/internal/platform/logging"
	"github.com/janisto/loveconnect/internal/platform/timeutil"
	"github.com/janisto/loveconnect/internal/service/verification"
)

// UserKey is the store key holding the serialized current user.
const UserKey = "user"

const resourceType = "session"

// ErrStore wraps failures of the underlying key-value store.
var ErrStore = errors.New("session store failure")

// ErrNoSession is returned when an operation needs a signed-in user and there is none.
var ErrNoSession = errors.New("no active session")

// Config holds the simulated latencies of the remote calls the session stands in for.
type Config struct {
	LoginDelay    time.Duration
	RegisterDelay time.Duration
	VerifyDelay   time.Duration
	ResendDelay   time.Duration
}

// DefaultConfig returns the latencies the app shell was designed around.
func DefaultConfig() Config {
	return Config{
		LoginDelay:    1500 * time.Millisecond,
		RegisterDelay: 1500 * time.Millisecond,
		VerifyDelay:   time.Second,
		ResendDelay:   500 * time.Millisecond,
	}
}

// Holder is the authoritative in-process session. It owns the "user" key of
// the store; nothing else may write it.
//
// Mutating operations run one at a time. A store write completes before the
// in-memory state changes, so a failed write leaves the session as it was.
type Holder struct {
	store    kv.Store
	auth     Authenticator
	verifier verification.Provider
	cfg      Config
	now      func() time.Time
	newID    func() string

	opMu sync.Mutex

	mu      sync.RWMutex
	user    *User
	loading bool
}

// NewHolder creates a session that reports IsLoading until Rehydrate runs.
func NewHolder(store kv.Store, auth Authenticator, verifier verification.Provider, cfg Config) *Holder {
	return &Holder{
		store:    store,
		auth:     auth,
		verifier: verifier,
		cfg:      cfg,
		now:      func() time.Time { return timeutil.Truncate(time.Now()) },
		newID:    uuid.NewString,
		loading:  true,
	}
}

// Snapshot returns a copy of the current session state.
func (h *Holder) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Snapshot{
		User:            h.user.Clone(),
		IsLoading:       h.loading,
		IsAuthenticated: h.user != nil,
	}
}

// Rehydrate restores the session from the store. Any failure to read or
// decode the stored user resolves to a signed-out session; it is logged and
// never returned, so the app always leaves the loading state.
func (h *Holder) Rehydrate(ctx context.Context) {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	var user *User
	raw, ok, err := h.store.Get(ctx, UserKey)
	switch {
	case err != nil:
		applog.LogWarn(ctx, "session rehydrate: store read failed", zap.Error(err))
	case ok:
		user, err = decodeUser(raw)
		if err != nil {
			applog.LogWarn(ctx, "session rehydrate: stored user unreadable", zap.Error(err))
		}
	}

	h.mu.Lock()
	h.user = user
	h.loading = false
	h.mu.Unlock()

	applog.LogInfo(ctx, "session rehydrated", zap.Stringer("state", h.Snapshot().State()))
}

// Login signs in an existing account. A rejected credential returns false
// with a nil error and leaves the session unchanged.
func (h *Holder) Login(ctx context.Context, identifier, credential string) (bool, error) {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	if err := sleep(ctx, h.cfg.LoginDelay); err != nil {
		h.audit(ctx, "login", "", err)
		return false, err
	}

	account, err := h.auth.Authenticate(ctx, identifier, credential)
	if err != nil {
		h.audit(ctx, "login", "", err)
		if errors.Is(err, ErrInvalidCredentials) {
			return false, nil
		}
		return false, err
	}
	if account == nil {
		h.audit(ctx, "login", "", ErrInvalidCredentials)
		return false, nil
	}

	now := h.now()
	user := account.Clone()
	user.IsVerified = true
	user.IsProfileComplete = true
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	if err := h.persist(ctx, user); err != nil {
		h.audit(ctx, "login", user.ID, err)
		return false, err
	}
	h.commit(user)
	h.audit(ctx, "login", user.ID, nil)
	return true, nil
}

// Register creates a new unverified account from patch and signs it in.
// Callers are expected to supply an email or phone number; an account with
// neither is still created.
func (h *Holder) Register(ctx context.Context, patch UserPatch) (bool, error) {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	if err := sleep(ctx, h.cfg.RegisterDelay); err != nil {
		h.audit(ctx, "register", "", err)
		return false, err
	}

	now := h.now()
	user := &User{ID: h.newID()}
	apply(user, patch)
	user.IsVerified = false
	user.IsProfileComplete = false
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.Email == "" && user.PhoneNumber == "" {
		applog.LogWarn(ctx, "registering account without email or phone number", zap.String("user_id", user.ID))
	}

	if err := h.persist(ctx, user); err != nil {
		h.audit(ctx, "register", user.ID, err)
		return false, err
	}
	h.commit(user)
	h.audit(ctx, "register", user.ID, nil)

	if r := recipientOf(user); r.Channel() != "" {
		if _, err := h.verifier.Resend(ctx, r); err != nil {
			applog.LogWarn(ctx, "initial verification code not sent", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	return true, nil
}

// Logout removes the stored user and signs out. Signing out with no session is a no-op.
func (h *Holder) Logout(ctx context.Context) error {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	cur := h.current()
	if cur == nil {
		return nil
	}

	if err := h.store.Remove(ctx, UserKey); err != nil {
		err = fmt.Errorf("%w: %w", ErrStore, err)
		h.audit(ctx, "logout", cur.ID, err)
		return err
	}
	h.commit(nil)
	h.audit(ctx, "logout", cur.ID, nil)
	return nil
}

// UpdateUser merges patch into the current user. It reports false with a nil
// error when nobody is signed in.
func (h *Holder) UpdateUser(ctx context.Context, patch UserPatch) (bool, error) {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	updated, err := h.update(ctx, patch, nil)
	if updated || err != nil {
		details := map[string]any{"fields": patch.Fields()}
		if err != nil {
			details["error"] = categorizeError(err)
		}
		h.auditDetails(ctx, "update", h.currentID(), err, details)
	}
	return updated, err
}

// VerifyOTP checks code with the verification provider and marks the user
// verified on success. A wrong code returns false with a nil error.
func (h *Holder) VerifyOTP(ctx context.Context, code string) (bool, error) {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	if err := sleep(ctx, h.cfg.VerifyDelay); err != nil {
		h.audit(ctx, "verify", h.currentID(), err)
		return false, err
	}

	cur := h.current()
	if cur == nil {
		return false, nil
	}

	ok, err := h.verifier.Verify(ctx, recipientOf(cur), code)
	if err != nil {
		h.audit(ctx, "verify", cur.ID, err)
		return false, err
	}
	if !ok {
		h.auditDetails(ctx, "verify", cur.ID, nil, map[string]any{"error": "invalid_code"})
		return false, nil
	}

	updated, err := h.update(ctx, UserPatch{}, func(u *User) { u.IsVerified = true })
	if updated {
		h.verifier.Consume(ctx, recipientOf(cur))
	}
	h.audit(ctx, "verify", cur.ID, err)
	return updated, err
}

// ResendOTP asks the verification provider to issue a new code to the current user.
func (h *Holder) ResendOTP(ctx context.Context) (bool, error) {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	if err := sleep(ctx, h.cfg.ResendDelay); err != nil {
		return false, err
	}

	cur := h.current()
	if cur == nil {
		return false, nil
	}

	ok, err := h.verifier.Resend(ctx, recipientOf(cur))
	h.audit(ctx, "resend", cur.ID, err)
	return ok, err
}

// update applies patch and mutate to a copy of the current user, persists
// it, then commits. Callers hold opMu.
func (h *Holder) update(ctx context.Context, patch UserPatch, mutate func(*User)) (bool, error) {
	user := h.current()
	if user == nil {
		return false, nil
	}
	apply(user, patch)
	if mutate != nil {
		mutate(user)
	}
	user.UpdatedAt = h.now()

	if err := h.persist(ctx, user); err != nil {
		return false, err
	}
	h.commit(user)
	return true, nil
}

func (h *Holder) persist(ctx context.Context, u *User) error {
	raw, err := encodeUser(u)
	if err != nil {
		return fmt.Errorf("%w: encode user: %w", ErrStore, err)
	}
	if err := h.store.Set(ctx, UserKey, raw); err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	return nil
}

func (h *Holder) commit(u *User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = u
	h.loading = false
}

// current returns a private copy of the current user, or nil.
func (h *Holder) current() *User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.user.Clone()
}

func (h *Holder) currentID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return ""
	}
	return h.user.ID
}

func (h *Holder) audit(ctx context.Context, action, userID string, err error) {
	var details map[string]any
	if err != nil {
		details = map[string]any{"error": categorizeError(err)}
	}
	h.auditDetails(ctx, action, userID, err, details)
}

func (h *Holder) auditDetails(ctx context.Context, action, userID string, err error, details map[string]any) {
	result := applog.ResultSuccess
	if err != nil || details["error"] != nil {
		result = applog.ResultFailure
	}
	applog.LogAuditEvent(ctx, action, userID, resourceType, result, details)
}

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrStore):
		return "store_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, verification.ErrNoRecipient):
		return "no_recipient"
	default:
		return "internal_error"
	}
}

func recipientOf(u *User) verification.Recipient {
	return verification.Recipient{UserID: u.ID, Email: u.Email, PhoneNumber: u.PhoneNumber}
}

// sleep waits d, returning early with the context's error if it is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
