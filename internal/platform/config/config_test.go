package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		FileEnv,
		"PORT",
		"LOG_LEVEL",
		"STORE_BACKEND",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"REDIS_PREFIX",
		"FIREBASE_PROJECT_ID",
		"GOOGLE_APPLICATION_CREDENTIALS",
		"FIRESTORE_COLLECTION",
		"SESSION_LOGIN_DELAY",
		"SESSION_REGISTER_DELAY",
		"SESSION_VERIFY_DELAY",
		"SESSION_RESEND_DELAY",
		"VERIFICATION_MODE",
		"VERIFICATION_ISSUER",
		"AUTH_MODE",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != "8080" || cfg.Store.Backend != BackendMemory {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Session.LoginDelay != 1500*time.Millisecond || cfg.Session.ResendDelay != 500*time.Millisecond {
		t.Fatalf("unexpected session delays: %+v", cfg.Session)
	}
	if cfg.Verification.Mode != ModeStub || cfg.Auth.Mode != ModeStub {
		t.Fatalf("unexpected modes: %+v %+v", cfg.Verification, cfg.Auth)
	}
}

func TestLoadFileYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	path := writeConfig(t, `
port: "9090"
store:
  backend: redis
  redis:
    addr: redis:6379
    db: 2
session:
  login_delay: 0s
  verify_delay: 250ms
verification:
  mode: totp
auth:
  mode: password
  accounts:
    - identifier: jane@example.com
      password_hash: "$2a$10$abcdefghijklmnopqrstuv"
      id: "42"
      full_name: Jane
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != "9090" || cfg.Store.Backend != BackendRedis || cfg.Store.Redis.Addr != "redis:6379" || cfg.Store.Redis.DB != 2 {
		t.Fatalf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Store.Redis.Prefix != "loveconnect:" {
		t.Fatalf("expected default prefix kept, got %q", cfg.Store.Redis.Prefix)
	}
	if cfg.Session.LoginDelay != 0 || cfg.Session.VerifyDelay != 250*time.Millisecond {
		t.Fatalf("unexpected session delays: %+v", cfg.Session)
	}
	if cfg.Session.RegisterDelay != 1500*time.Millisecond {
		t.Fatalf("expected default register delay kept, got %s", cfg.Session.RegisterDelay)
	}
	if cfg.Verification.Mode != ModeTOTP || cfg.Verification.Issuer != "LoveConnect" {
		t.Fatalf("unexpected verification config: %+v", cfg.Verification)
	}
	if len(cfg.Auth.Accounts) != 1 || cfg.Auth.Accounts[0].FullName != "Jane" {
		t.Fatalf("unexpected accounts: %+v", cfg.Auth.Accounts)
	}
}

func TestLoadFileEnvOverridesYAML(t *testing.T) {
	clearConfigEnv(t)

	path := writeConfig(t, "port: \"9090\"\n")
	t.Setenv("PORT", "7070")
	t.Setenv("SESSION_RESEND_DELAY", "2s")
	t.Setenv("REDIS_DB", "5")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != "7070" || cfg.Session.ResendDelay != 2*time.Second || cfg.Store.Redis.DB != 5 {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
}

func TestLoadFileMissingFileIgnored(t *testing.T) {
	clearConfigEnv(t)

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Fatalf("expected missing file ignored, got %v", err)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
		want string
	}{
		{name: "bad yaml", yaml: "port: [", want: "unmarshal config yaml"},
		{name: "bad duration", env: map[string]string{"SESSION_LOGIN_DELAY": "soon"}, want: "SESSION_LOGIN_DELAY"},
		{name: "bad int", env: map[string]string{"REDIS_DB": "two"}, want: "REDIS_DB"},
		{name: "unknown backend", env: map[string]string{"STORE_BACKEND": "sqlite"}, want: "unknown store backend"},
		{name: "firestore without project", env: map[string]string{"STORE_BACKEND": "firestore"}, want: "project_id"},
		{name: "unknown verification", env: map[string]string{"VERIFICATION_MODE": "sms"}, want: "unknown verification mode"},
		{name: "password without accounts", env: map[string]string{"AUTH_MODE": "password"}, want: "at least one account"},
		{name: "unknown auth", env: map[string]string{"AUTH_MODE": "oauth"}, want: "unknown auth mode"},
		{name: "firebase auth without project", env: map[string]string{"AUTH_MODE": "firebase"}, want: "firebase.project_id"},
		{name: "negative delay", yaml: "session:\n  verify_delay: -1s\n", want: "verify_delay"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = writeConfig(t, tt.yaml)
			}
			_, err := LoadFile(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadReadsConfigPathFromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Chdir(t.TempDir())

	path := writeConfig(t, "port: \"6060\"\n")
	t.Setenv(FileEnv, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != "6060" {
		t.Fatalf("expected port from file, got %q", cfg.Port)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	os.Unsetenv("PORT")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=5050\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("PORT") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != "5050" {
		t.Fatalf("expected port from .env, got %q", cfg.Port)
	}
}

func TestLoadFileFirebaseSettings(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("AUTH_MODE", "firebase")
	t.Setenv("FIREBASE_PROJECT_ID", "demo-loveconnect")

	path := writeConfig(t, "store:\n  backend: firestore\n  firestore:\n    collection: devices\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Firebase.ProjectID != "demo-loveconnect" || cfg.Store.Firestore.Collection != "devices" {
		t.Fatalf("unexpected firebase settings: %+v %+v", cfg.Firebase, cfg.Store.Firestore)
	}
	if cfg.Auth.Mode != ModeFirebase {
		t.Fatalf("expected firebase auth, got %s", cfg.Auth.Mode)
	}
}
