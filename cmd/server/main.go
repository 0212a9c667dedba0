package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/janisto/loveconnect/internal/http/health"
	"github.com/janisto/loveconnect/internal/http/v1/routes"
	"github.com/janisto/loveconnect/internal/platform/auth"
	"github.com/janisto/loveconnect/internal/platform/config"
	"github.com/janisto/loveconnect/internal/platform/firebase"
	"github.com/janisto/loveconnect/internal/platform/kv"
	applog "github.com/janisto/loveconnect/internal/platform/logging"
	appmiddleware "github.com/janisto/loveconnect/internal/platform/middleware"
	"github.com/janisto/loveconnect/internal/platform/respond"
	"github.com/janisto/loveconnect/internal/service/profilesetup"
	"github.com/janisto/loveconnect/internal/service/session"
	"github.com/janisto/loveconnect/internal/service/theme"
	"github.com/janisto/loveconnect/internal/service/verification"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const (
	apiPrefix = "/v1"
	docsPath  = "/api-docs"
)

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	if err := run(); err != nil {
		applog.LogError(context.Background(), "server failed", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applog.SetLevel(cfg.Log.Level); err != nil {
		return err
	}

	ctx := context.Background()
	fb, err := newFirebase(ctx, cfg)
	if err != nil {
		return err
	}
	if fb != nil {
		defer func() {
			if err := fb.Close(); err != nil {
				applog.LogError(context.Background(), "firebase close error", err)
			}
		}()
	}

	store, closeStore, err := newStore(cfg.Store, fb)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			applog.LogError(context.Background(), "store close error", err)
		}
	}()

	authenticator, err := newAuthenticator(cfg.Auth, fb)
	if err != nil {
		return err
	}
	sessions := session.NewHolder(store, authenticator, newVerifier(cfg.Verification), session.Config{
		LoginDelay:    cfg.Session.LoginDelay,
		RegisterDelay: cfg.Session.RegisterDelay,
		VerifyDelay:   cfg.Session.VerifyDelay,
		ResendDelay:   cfg.Session.ResendDelay,
	})
	themes := theme.NewHolder(store)
	go sessions.Rehydrate(ctx)
	go themes.Rehydrate(ctx)

	handler := newRouter(routes.Services{
		Session:      sessions,
		ProfileSetup: profilesetup.New(sessions),
		Theme:        themes,
	}, func() bool { return !sessions.Snapshot().IsLoading }, cfg.Firebase.ProjectID)

	srv := newServer(cfg.Port, handler)
	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.Store.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-stop:
		applog.LogInfo(context.Background(), "shutdown signal received")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		applog.LogError(shutdownCtx, "server shutdown error", err)
	}
	applog.LogInfo(context.Background(), "server exited")
	return nil
}

// newFirebase builds the Firebase clients the config needs, or returns nil
// when neither the store nor auth uses Firebase.
func newFirebase(ctx context.Context, cfg config.Config) (*firebase.Clients, error) {
	fbCfg := firebase.Config{
		ProjectID:                    cfg.Firebase.ProjectID,
		GoogleApplicationCredentials: cfg.Firebase.Credentials,
		Auth:                         cfg.Auth.Mode == config.ModeFirebase,
		Firestore:                    cfg.Store.Backend == config.BackendFirestore,
	}
	if !fbCfg.Auth && !fbCfg.Firestore {
		return nil, nil
	}
	clients, err := firebase.InitializeClients(ctx, fbCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase: %w", err)
	}
	return clients, nil
}

// newStore opens the configured key-value backend. The returned func releases
// what newStore opened; Firebase clients are closed by their owner.
func newStore(cfg config.StoreConfig, fb *firebase.Clients) (kv.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return kv.NewRedisStore(client, cfg.Redis.Prefix), client.Close, nil
	case config.BackendFirestore:
		if fb == nil || fb.Firestore == nil {
			return nil, nil, errors.New("firestore backend needs a firestore client")
		}
		return kv.NewFirestoreStore(fb.Firestore, cfg.Firestore.Collection), func() error { return nil }, nil
	case config.BackendMemory, "":
		return kv.NewMemoryStore(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func newAuthenticator(cfg config.AuthConfig, fb *firebase.Clients) (session.Authenticator, error) {
	switch cfg.Mode {
	case config.ModeFirebase:
		if fb == nil || fb.Auth == nil {
			return nil, errors.New("firebase auth needs an auth client")
		}
		return session.NewTokenAuthenticator(auth.NewFirebaseVerifier(fb.Auth)), nil
	case config.ModePassword:
		accounts := make([]session.Account, 0, len(cfg.Accounts))
		for _, a := range cfg.Accounts {
			accounts = append(accounts, session.Account{
				Identifier:   a.Identifier,
				PasswordHash: a.PasswordHash,
				User: session.User{
					ID:          a.ID,
					FullName:    a.FullName,
					Email:       a.Email,
					PhoneNumber: a.PhoneNumber,
				},
			})
		}
		return session.NewPasswordAuthenticator(accounts), nil
	case config.ModeStub, "":
		return session.StubAuthenticator{}, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

func newVerifier(cfg config.VerificationConfig) verification.Provider {
	if cfg.Mode == config.ModeTOTP {
		return verification.NewTOTPProvider(cfg.Issuer, verification.LogNotifier{})
	}
	return verification.NewStubProvider()
}

func newRouter(svc routes.Services, ready func() bool, projectID string) http.Handler {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Base middleware stack
	router.Use(
		appmiddleware.Security(apiPrefix+docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Real-IP and X-Forwarded-For; run behind a trusted proxy only.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		applog.RequestLogger(projectID),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler(ready))
	router.Route(apiPrefix, func(r chi.Router) {
		r.NotFound(respond.NotFoundHandler())
		r.MethodNotAllowed(respond.MethodNotAllowedHandler())
		api := humachi.New(r, newAPIConfig())
		addCBORContent(api.OpenAPI())
		routes.Register(api, svc)
	})
	return router
}

func newAPIConfig() huma.Config {
	cfg := huma.DefaultConfig("LoveConnect API", Version)
	cfg.DocsPath = docsPath
	cfg.Servers = []*huma.Server{{URL: apiPrefix}}
	return cfg
}

// addCBORContent documents application/cbor next to every JSON request and response body.
func addCBORContent(oapi *huma.OpenAPI) {
	oapi.OnAddOperation = append(oapi.OnAddOperation,
		func(_ *huma.OpenAPI, op *huma.Operation) {
			if op.RequestBody != nil && op.RequestBody.Content != nil {
				if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
					op.RequestBody.Content["application/cbor"] = jsonContent
				}
			}
			for _, resp := range op.Responses {
				if resp.Content == nil {
					continue
				}
				if jsonContent, ok := resp.Content["application/json"]; ok {
					resp.Content["application/cbor"] = jsonContent
				}
			}
		},
	)
}

func newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}
}
