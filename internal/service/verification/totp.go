package verification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpPeriod = 30

var totpOpts = totp.ValidateOpts{
	Period:    totpPeriod,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// TOTPProvider issues time-based codes per account and validates them.
// Secrets live in memory for the lifetime of the process; Consume discards
// the account's secret so a verified code cannot be reused.
type TOTPProvider struct {
	mu       sync.Mutex
	issuer   string
	secrets  map[string]string
	notifier Notifier
	now      func() time.Time
}

// NewTOTPProvider creates a provider that delivers codes through notifier.
func NewTOTPProvider(issuer string, notifier Notifier) *TOTPProvider {
	return &TOTPProvider{
		issuer:   issuer,
		secrets:  make(map[string]string),
		notifier: notifier,
		now:      time.Now,
	}
}

// Resend issues a fresh code for r, creating the account secret on first use.
func (p *TOTPProvider) Resend(ctx context.Context, r Recipient) (bool, error) {
	if r.Channel() == "" {
		return false, ErrNoRecipient
	}

	p.mu.Lock()
	secret, ok := p.secrets[r.UserID]
	if !ok {
		key, err := totp.Generate(totp.GenerateOpts{
			Issuer:      p.issuer,
			AccountName: r.Address(),
			Period:      totpPeriod,
			Digits:      otp.DigitsSix,
			Algorithm:   otp.AlgorithmSHA1,
		})
		if err != nil {
			p.mu.Unlock()
			return false, fmt.Errorf("generate totp secret: %w", err)
		}
		secret = key.Secret()
		p.secrets[r.UserID] = secret
	}
	now := p.now()
	p.mu.Unlock()

	code, err := totp.GenerateCodeCustom(secret, now, totpOpts)
	if err != nil {
		return false, fmt.Errorf("generate totp code: %w", err)
	}
	if err := p.notifier.Deliver(ctx, r, code); err != nil {
		return false, fmt.Errorf("deliver code: %w", err)
	}
	return true, nil
}

// Verify validates code against the account's current secret.
func (p *TOTPProvider) Verify(_ context.Context, r Recipient, code string) (bool, error) {
	code = strings.TrimSpace(code)
	if len(code) != CodeLength {
		return false, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	secret, ok := p.secrets[r.UserID]
	if !ok {
		return false, nil
	}
	valid, err := totp.ValidateCustom(code, secret, p.now(), totpOpts)
	if err != nil || !valid {
		return false, nil
	}
	return true, nil
}

// Consume forgets the account's secret. Codes issued before are no longer accepted.
func (p *TOTPProvider) Consume(_ context.Context, r Recipient) {
	p.mu.Lock()
	delete(p.secrets, r.UserID)
	p.mu.Unlock()
}

// Compile-time interface check
var _ Provider = (*TOTPProvider)(nil)
