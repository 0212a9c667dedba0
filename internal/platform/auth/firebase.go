// Package auth verifies identity tokens issued by Firebase Authentication.
package auth

import (
	"context"
	"errors"

	fbauth "firebase.google.com/go/v4/auth"
)

// Identity is the account an ID token was issued for.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
	PhoneNumber   string
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrUserDisabled = errors.New("user disabled")

	// ErrCertificateFetch means the signing keys could not be fetched; the
	// token itself may be fine.
	ErrCertificateFetch = errors.New("failed to fetch certificates")
)

// Verifier validates ID tokens.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// FirebaseVerifier implements Verifier using the Firebase Admin SDK.
type FirebaseVerifier struct {
	client *fbauth.Client
}

func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

// Verify validates idToken, including revocation.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	if idToken == "" {
		return nil, ErrInvalidToken
	}
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, classify(err)
	}
	return identityFromClaims(token.UID, token.Claims), nil
}

func classify(err error) error {
	switch {
	case fbauth.IsCertificateFetchFailed(err):
		return ErrCertificateFetch
	case fbauth.IsIDTokenExpired(err):
		return ErrTokenExpired
	case fbauth.IsIDTokenRevoked(err):
		return ErrTokenRevoked
	case fbauth.IsUserDisabled(err):
		return ErrUserDisabled
	default:
		return ErrInvalidToken
	}
}

func identityFromClaims(uid string, claims map[string]any) *Identity {
	id := &Identity{UID: uid}
	id.Email, _ = claims["email"].(string)
	id.EmailVerified, _ = claims["email_verified"].(bool)
	id.Name, _ = claims["name"].(string)
	id.PhoneNumber, _ = claims["phone_number"].(string)
	return id
}

// Compile-time interface check
var _ Verifier = (*FirebaseVerifier)(nil)
