package verification

import (
	"context"
	"sync/atomic"
)

// StubProvider accepts or rejects every code according to Accept.
// It stands in for a verification backend during development and tests.
type StubProvider struct {
	Accept bool
	Error  error

	resends  atomic.Int64
	consumed atomic.Int64
}

// NewStubProvider returns a provider that accepts any code.
func NewStubProvider() *StubProvider {
	return &StubProvider{Accept: true}
}

// Verify returns the configured outcome or error.
func (s *StubProvider) Verify(_ context.Context, _ Recipient, _ string) (bool, error) {
	if s.Error != nil {
		return false, s.Error
	}
	return s.Accept, nil
}

// Consume counts spent codes.
func (s *StubProvider) Consume(_ context.Context, _ Recipient) {
	s.consumed.Add(1)
}

// Resend counts the request and reports it accepted unless Error is set.
func (s *StubProvider) Resend(_ context.Context, _ Recipient) (bool, error) {
	if s.Error != nil {
		return false, s.Error
	}
	s.resends.Add(1)
	return true, nil
}

// Resends returns how many codes were issued.
func (s *StubProvider) Resends() int {
	return int(s.resends.Load())
}

// Consumed returns how many verified codes were spent.
func (s *StubProvider) Consumed() int {
	return int(s.consumed.Load())
}

// Compile-time interface check
var _ Provider = (*StubProvider)(nil)
