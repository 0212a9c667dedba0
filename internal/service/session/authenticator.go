package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/janisto/loveconnect/internal/platform/auth"
)

// ErrInvalidCredentials is returned by an Authenticator that rejects the identifier or credential.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator resolves login credentials to an existing account.
// Rejections return ErrInvalidCredentials; other errors are treated as failures of the backend.
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, credential string) (*User, error)
}

// DemoAccountID is the id of the account StubAuthenticator signs in.
const DemoAccountID = "1"

// StubAuthenticator accepts any non-empty identifier and credential and signs
// in the demo account. It stands in for an authentication backend.
type StubAuthenticator struct{}

func (StubAuthenticator) Authenticate(_ context.Context, identifier, credential string) (*User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || credential == "" {
		return nil, ErrInvalidCredentials
	}
	u := &User{ID: DemoAccountID, FullName: "John Doe"}
	if strings.Contains(identifier, "@") {
		u.Email = strings.ToLower(identifier)
	} else {
		u.PhoneNumber = identifier
	}
	return u, nil
}

// Account is a known login for PasswordAuthenticator.
type Account struct {
	Identifier   string
	PasswordHash string
	User         User
}

// PasswordAuthenticator checks credentials against bcrypt hashes of a fixed account list.
type PasswordAuthenticator struct {
	accounts map[string]Account
}

// NewPasswordAuthenticator indexes accounts by normalized identifier.
func NewPasswordAuthenticator(accounts []Account) *PasswordAuthenticator {
	a := &PasswordAuthenticator{accounts: make(map[string]Account, len(accounts))}
	for _, acc := range accounts {
		a.accounts[normalizeIdentifier(acc.Identifier)] = acc
	}
	return a
}

// HashPassword returns the bcrypt hash stored for an Account.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *PasswordAuthenticator) Authenticate(_ context.Context, identifier, credential string) (*User, error) {
	acc, ok := a.accounts[normalizeIdentifier(identifier)]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return acc.User.Clone(), nil
}

func normalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TokenAuthenticator signs in with an identity token as the credential. When
// the identifier is non-empty it must match the token's email or phone number.
type TokenAuthenticator struct {
	verifier auth.Verifier
}

func NewTokenAuthenticator(verifier auth.Verifier) *TokenAuthenticator {
	return &TokenAuthenticator{verifier: verifier}
}

func (a *TokenAuthenticator) Authenticate(ctx context.Context, identifier, credential string) (*User, error) {
	id, err := a.verifier.Verify(ctx, strings.TrimSpace(credential))
	if err != nil {
		if errors.Is(err, auth.ErrCertificateFetch) {
			return nil, fmt.Errorf("verify token: %w", err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	if id == nil || id.UID == "" {
		return nil, ErrInvalidCredentials
	}

	if ident := normalizeIdentifier(identifier); ident != "" &&
		ident != strings.ToLower(id.Email) && ident != id.PhoneNumber {
		return nil, ErrInvalidCredentials
	}
	return &User{
		ID:          id.UID,
		Email:       strings.ToLower(id.Email),
		PhoneNumber: id.PhoneNumber,
		FullName:    id.Name,
	}, nil
}

// Compile-time interface checks
var (
	_ Authenticator = StubAuthenticator{}
	_ Authenticator = (*PasswordAuthenticator)(nil)
	_ Authenticator = (*TokenAuthenticator)(nil)
)
