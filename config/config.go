// Package config loads the process configuration from the environment,
// optionally overlaid from a .env file, and enforces the startup
// invariants on the signing key material.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultAddr            = ":8080"
	defaultRequestsPerMin  = 60
	defaultBurstCapacity   = 10
	defaultStaticTokenFile = "auth.json"
)

// Fingerprints (SHA-256 of the whitespace-stripped key material) of the
// development key pair that ships in .env.example, in both the plain-PEM
// and base64-wrapped forms. Supplying any of these outside test mode is a
// startup failure.
var insecureKeyFingerprints = map[string]struct{}{
	"7e6f1301feb272eaaeb6ed385eac8d769e117f63ccf4b6890f5a8ede2b938555": {},
	"47d15f20d1d5ee42a7dddd13ec618cd000258d003d44aa5b3e09b96e23ff70ea": {},
	"b39fda8b3866579a8e9b5a5ca85a37d6a12060591b408a10f6b76d07bf5f67ee": {},
	"a18a07558fdc05db1689ad0f65d1de22772ddad9172aee4b584738458d3f966c": {},
}

type Config struct {
	Addr            string
	DatabaseURL     string
	PrivateKey      string // PEM, optionally base64-wrapped
	PublicKey       string // PEM, optionally base64-wrapped
	RequestsPerMin  int
	BurstCapacity   int
	StaticTokenFile string
	TestMode        bool
}

// Load reads the configuration from the environment. A .env file in the
// working directory is merged in first without overriding real env vars.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:            envOr("FILMGATE_ADDR", defaultAddr),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		PrivateKey:      os.Getenv("FILMGATE_AUTH_PRIVATE_KEY"),
		PublicKey:       os.Getenv("FILMGATE_AUTH_PUBLIC_KEY"),
		StaticTokenFile: envOr("FILMGATE_STATIC_TOKEN_FILE", defaultStaticTokenFile),
		TestMode:        os.Getenv("FILMGATE_TEST_MODE") == "true",
	}

	var err error
	cfg.RequestsPerMin, err = envInt("FILMGATE_RATE_LIMIT_RPM", defaultRequestsPerMin)
	if err != nil {
		return nil, err
	}
	cfg.BurstCapacity, err = envInt("FILMGATE_RATE_LIMIT_BURST", defaultBurstCapacity)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the startup invariants. Key parsing itself happens in
// the token package; here we only reject absent or known-insecure material.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.PrivateKey) == "" {
		return errors.New("FILMGATE_AUTH_PRIVATE_KEY is required but not provided")
	}
	if strings.TrimSpace(c.PublicKey) == "" {
		return errors.New("FILMGATE_AUTH_PUBLIC_KEY is required but not provided")
	}
	if c.RequestsPerMin <= 0 {
		return errors.New("FILMGATE_RATE_LIMIT_RPM must be positive")
	}
	if c.BurstCapacity <= 0 {
		return errors.New("FILMGATE_RATE_LIMIT_BURST must be positive")
	}
	if c.TestMode {
		return nil
	}
	if isInsecureDefault(c.PrivateKey) {
		return errors.New("FILMGATE_AUTH_PRIVATE_KEY is the published development key; provide a real signing key")
	}
	if isInsecureDefault(c.PublicKey) {
		return errors.New("FILMGATE_AUTH_PUBLIC_KEY is the published development key; provide a real verification key")
	}
	return nil
}

func isInsecureDefault(material string) bool {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, material)
	sum := sha256.Sum256([]byte(stripped))
	_, known := insecureKeyFingerprints[hex.EncodeToString(sum[:])]
	return known
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
