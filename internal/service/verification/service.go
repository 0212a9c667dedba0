// Package verification confirms the one-time codes that move a new account
// from unverified to verified.
package verification

import (
	"context"
	"errors"
)

// CodeLength is the number of digits in a verification code.
const CodeLength = 6

// ErrNoRecipient indicates the account has neither an email nor a phone number to send a code to.
var ErrNoRecipient = errors.New("recipient has no email or phone number")

// Recipient identifies the account a code is issued to.
type Recipient struct {
	UserID      string
	Email       string
	PhoneNumber string
}

// Channel returns "email" or "sms" depending on which contact is present, preferring email.
func (r Recipient) Channel() string {
	switch {
	case r.Email != "":
		return "email"
	case r.PhoneNumber != "":
		return "sms"
	default:
		return ""
	}
}

// Address returns the contact the code is delivered to.
func (r Recipient) Address() string {
	if r.Email != "" {
		return r.Email
	}
	return r.PhoneNumber
}

// Provider checks and (re)issues verification codes.
//
// Verify reports false with a nil error for a wrong code; errors are reserved
// for failures of the provider itself. Verify does not spend the code: the
// caller invokes Consume once the verified state has been saved.
type Provider interface {
	Verify(ctx context.Context, r Recipient, code string) (bool, error)
	Consume(ctx context.Context, r Recipient)
	Resend(ctx context.Context, r Recipient) (bool, error)
}

// Notifier delivers an issued code to the recipient.
type Notifier interface {
	Deliver(ctx context.Context, r Recipient, code string) error
}
