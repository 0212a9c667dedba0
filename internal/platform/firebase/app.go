package firebase

import (
	"context"
	"errors"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// ErrNoClients is returned when Config requests neither client.
var ErrNoClients = errors.New("firebase: no clients requested")

// Config holds Firebase configuration and the clients to build.
type Config struct {
	ProjectID                    string
	GoogleApplicationCredentials string // Path to service account JSON (optional)

	Auth      bool // token verification for the firebase authenticator
	Firestore bool // document storage for the firestore kv backend
}

// Clients holds the requested Firebase clients. Unrequested clients are nil.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// InitializeClients sets up one Firebase app and builds the clients cfg asks for.
func InitializeClients(ctx context.Context, cfg Config) (*Clients, error) {
	if !cfg.Auth && !cfg.Firestore {
		return nil, ErrNoClients
	}

	var opts []option.ClientOption
	if cfg.GoogleApplicationCredentials != "" {
		creds, err := os.ReadFile(cfg.GoogleApplicationCredentials)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, err
	}

	clients := &Clients{}
	if cfg.Auth {
		if clients.Auth, err = app.Auth(ctx); err != nil {
			return nil, err
		}
	}
	if cfg.Firestore {
		if clients.Firestore, err = app.Firestore(ctx); err != nil {
			return nil, err
		}
	}
	return clients, nil
}

// Close releases the Firestore client if one was built.
func (c *Clients) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}
