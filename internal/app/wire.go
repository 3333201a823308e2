package app

import (
	"net/http"

	"rmap/internal/domain"
	"rmap/internal/keyring"
	"rmap/internal/services/artifact"
	"rmap/internal/services/handshake"
	"rmap/internal/store"
	"rmap/internal/transport"
)

// Wire bundles the keyring, transport, services and store for the CLI.
type Wire struct {
	Keys      *keyring.Keyring
	Transport domain.Transport
	Handshake domain.HandshakeService
	Artifact  domain.ArtifactService
	Tokens    domain.TokenStore
	HTTP      *http.Client
}

// NewWire constructs the dependency graph from cfg. Key material is loaded
// and validated here, so misconfigured keys fail before any network call.
func NewWire(cfg Config) (*Wire, error) {
	keys, err := keyring.Load(cfg.PeerKeyPath, cfg.PrivateKeyPath, cfg.Passphrase)
	if err != nil {
		return nil, err
	}
	if err := keys.VerifyDistinct(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	tc := transport.New(transport.Config{
		Base:         cfg.ServerBase,
		HTTP:         httpClient,
		ProbeTimeout: cfg.ProbeTimeout,
		CallTimeout:  cfg.CallTimeout,
		FetchTimeout: cfg.DownloadTimeout,
	})

	return &Wire{
		Keys:      keys,
		Transport: tc,
		Handshake: handshake.New(cfg.Identity, keys, tc),
		Artifact:  artifact.New(tc, cfg.ArtifactType),
		Tokens:    store.NewFileTokenStore(cfg.Home),
		HTTP:      httpClient,
	}, nil
}
