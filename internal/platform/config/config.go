// Package config loads server settings from defaults, an optional YAML file
// and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable holding the YAML config path.
const FileEnv = "LOVECONNECT_CONFIG"

// Store backends.
const (
	BackendMemory    = "memory"
	BackendRedis     = "redis"
	BackendFirestore = "firestore"
)

// Verification and auth modes.
const (
	ModeStub     = "stub"
	ModeTOTP     = "totp"
	ModePassword = "password"
	ModeFirebase = "firebase"
)

type Config struct {
	Port         string             `yaml:"port"`
	Log          LogConfig          `yaml:"log"`
	Store        StoreConfig        `yaml:"store"`
	Firebase     FirebaseConfig     `yaml:"firebase"`
	Session      SessionConfig      `yaml:"session"`
	Verification VerificationConfig `yaml:"verification"`
	Auth         AuthConfig         `yaml:"auth"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type StoreConfig struct {
	Backend   string          `yaml:"backend"`
	Redis     RedisConfig     `yaml:"redis"`
	Firestore FirestoreConfig `yaml:"firestore"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type FirestoreConfig struct {
	Collection string `yaml:"collection"`
}

// FirebaseConfig is shared by the firestore backend and firebase auth.
type FirebaseConfig struct {
	ProjectID   string `yaml:"project_id"`
	Credentials string `yaml:"credentials"`
}

// SessionConfig holds the simulated latencies of session operations.
type SessionConfig struct {
	LoginDelay    time.Duration `yaml:"login_delay"`
	RegisterDelay time.Duration `yaml:"register_delay"`
	VerifyDelay   time.Duration `yaml:"verify_delay"`
	ResendDelay   time.Duration `yaml:"resend_delay"`
}

type VerificationConfig struct {
	Mode   string `yaml:"mode"`
	Issuer string `yaml:"issuer"`
}

type AuthConfig struct {
	Mode     string          `yaml:"mode"`
	Accounts []AccountConfig `yaml:"accounts"`
}

// AccountConfig is a login known to the password authenticator.
type AccountConfig struct {
	Identifier   string `yaml:"identifier"`
	PasswordHash string `yaml:"password_hash"`
	ID           string `yaml:"id"`
	FullName     string `yaml:"full_name"`
	Email        string `yaml:"email"`
	PhoneNumber  string `yaml:"phone_number"`
}

func Default() Config {
	return Config{
		Port: "8080",
		Log:  LogConfig{Level: "info"},
		Store: StoreConfig{
			Backend: BackendMemory,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "loveconnect:",
			},
			Firestore: FirestoreConfig{
				Collection: "device_state",
			},
		},
		Session: SessionConfig{
			LoginDelay:    1500 * time.Millisecond,
			RegisterDelay: 1500 * time.Millisecond,
			VerifyDelay:   time.Second,
			ResendDelay:   500 * time.Millisecond,
		},
		Verification: VerificationConfig{
			Mode:   ModeStub,
			Issuer: "LoveConnect",
		},
		Auth: AuthConfig{Mode: ModeStub},
	}
}

// Load reads a .env file if one exists, then builds the config from defaults,
// the YAML file named by LOVECONNECT_CONFIG and environment overrides.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return LoadFile(os.Getenv(FileEnv))
}

// LoadFile builds the config from defaults, the YAML file at path (skipped
// when empty or missing) and environment overrides, then validates it.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown modes and settings a backend cannot start without.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New("store.redis.addr is required for the redis backend")
		}
	case BackendFirestore:
		if c.Firebase.ProjectID == "" {
			return errors.New("firebase.project_id is required for the firestore backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch c.Verification.Mode {
	case ModeStub, ModeTOTP:
	default:
		return fmt.Errorf("unknown verification mode %q", c.Verification.Mode)
	}

	switch c.Auth.Mode {
	case ModeStub:
	case ModePassword:
		if len(c.Auth.Accounts) == 0 {
			return errors.New("auth.accounts must list at least one account in password mode")
		}
		for i, acc := range c.Auth.Accounts {
			if acc.Identifier == "" || acc.PasswordHash == "" || acc.ID == "" {
				return fmt.Errorf("auth.accounts[%d]: identifier, password_hash and id are required", i)
			}
		}
	case ModeFirebase:
		if c.Firebase.ProjectID == "" {
			return errors.New("firebase.project_id is required for firebase auth")
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.Auth.Mode)
	}

	for name, d := range map[string]time.Duration{
		"login_delay":    c.Session.LoginDelay,
		"register_delay": c.Session.RegisterDelay,
		"verify_delay":   c.Session.VerifyDelay,
		"resend_delay":   c.Session.ResendDelay,
	} {
		if d < 0 {
			return fmt.Errorf("session.%s must not be negative", name)
		}
	}
	return nil
}

func loadFromYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config yaml: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv("STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Store.Redis.Password = v
	}
	if err := overrideInt("REDIS_DB", &cfg.Store.Redis.DB); err != nil {
		return err
	}
	if v := os.Getenv("REDIS_PREFIX"); v != "" {
		cfg.Store.Redis.Prefix = v
	}

	if v := os.Getenv("FIREBASE_PROJECT_ID"); v != "" {
		cfg.Firebase.ProjectID = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		cfg.Firebase.Credentials = v
	}
	if v := os.Getenv("FIRESTORE_COLLECTION"); v != "" {
		cfg.Store.Firestore.Collection = v
	}

	if err := overrideDuration("SESSION_LOGIN_DELAY", &cfg.Session.LoginDelay); err != nil {
		return err
	}
	if err := overrideDuration("SESSION_REGISTER_DELAY", &cfg.Session.RegisterDelay); err != nil {
		return err
	}
	if err := overrideDuration("SESSION_VERIFY_DELAY", &cfg.Session.VerifyDelay); err != nil {
		return err
	}
	if err := overrideDuration("SESSION_RESEND_DELAY", &cfg.Session.ResendDelay); err != nil {
		return err
	}

	if v := os.Getenv("VERIFICATION_MODE"); v != "" {
		cfg.Verification.Mode = v
	}
	if v := os.Getenv("VERIFICATION_ISSUER"); v != "" {
		cfg.Verification.Issuer = v
	}
	if v := os.Getenv("AUTH_MODE"); v != "" {
		cfg.Auth.Mode = v
	}

	return nil
}

func overrideDuration(key string, target *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s duration: %w", key, err)
	}
	*target = d
	return nil
}

func overrideInt(key string, target *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s int: %w", key, err)
	}
	*target = n
	return nil
}
