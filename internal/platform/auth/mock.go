package auth

import "context"

// MockVerifier returns a fixed identity or error for any token.
type MockVerifier struct {
	Identity *Identity
	Error    error

	Tokens []string
}

// Verify records token and returns the configured result.
func (m *MockVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	m.Tokens = append(m.Tokens, token)
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Identity, nil
}

// TestIdentity returns a standard verified identity.
func TestIdentity() *Identity {
	return &Identity{
		UID:           "firebase-uid-123",
		Email:         "jane@example.com",
		EmailVerified: true,
		Name:          "Jane Doe",
	}
}

// Compile-time interface check
var _ Verifier = (*MockVerifier)(nil)
