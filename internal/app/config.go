package app

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is everything one handshake run needs. Values come from the
// environment (optionally seeded from a .env file); the CLI layers flag
// overrides on top before wiring.
type Config struct {
	ServerBase string `env:"RMAP_SERVER_BASE" env-default:"http://127.0.0.1:5000"`
	Identity   string `env:"RMAP_IDENTITY"`

	PeerKeyPath    string `env:"RMAP_PEER_KEY"`
	PrivateKeyPath string `env:"RMAP_PRIVATE_KEY"`
	Passphrase     string `env:"RMAP_PASSPHRASE"`

	Home string `env:"RMAP_HOME"` // token store dir, default ~/.rmap

	ProbeTimeout    time.Duration `env:"RMAP_PROBE_TIMEOUT" env-default:"10s"`
	CallTimeout     time.Duration `env:"RMAP_CALL_TIMEOUT" env-default:"30s"`
	DownloadTimeout time.Duration `env:"RMAP_DOWNLOAD_TIMEOUT" env-default:"60s"`

	ArtifactType string `env:"RMAP_ARTIFACT_TYPE" env-default:"application/pdf"`

	HTTP *http.Client `env:"-"` // optional; defaults to http.DefaultClient
}

// Load reads the environment into a Config. If envFile is non-empty it must
// exist and is loaded first.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", envFile, err)
		}
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields every command needs before any network call.
func (c Config) Validate() error {
	if c.Identity == "" {
		return fmt.Errorf("identity is required (RMAP_IDENTITY or --identity)")
	}
	if c.PeerKeyPath == "" {
		return fmt.Errorf("peer public key path is required (RMAP_PEER_KEY or --peer-key)")
	}
	if c.PrivateKeyPath == "" {
		return fmt.Errorf("private key path is required (RMAP_PRIVATE_KEY or --key)")
	}
	return nil
}
