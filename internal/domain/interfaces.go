package domain

import "context"

// Transport is the only capability the handshake needs from the network: a
// JSON request/response exchange and a raw byte fetch, each with a bounded
// timeout owned by the implementation. Non-2xx statuses surface as ErrServer;
// network failures as ErrConnectivity. No status code is special-cased beyond
// success vs failure.
type Transport interface {
	// Post sends in as JSON to path and decodes the response into out.
	Post(ctx context.Context, path string, in, out any) error

	// Fetch GETs path and returns the status code, declared content type and
	// raw body. err is non-nil only for transport-level failures; callers
	// judge the status themselves.
	Fetch(ctx context.Context, path string) (status int, contentType string, body []byte, err error)

	// Probe checks reachability of the peer with a short timeout.
	Probe(ctx context.Context) error
}

// TokenStore persists link tokens encrypted at rest.
type TokenStore interface {
	Append(passphrase string, rec TokenRecord) error
	List(passphrase string) ([]TokenRecord, error)
	Latest(passphrase, identity string) (TokenRecord, bool, error)
}

// HandshakeService drives one complete handshake attempt.
type HandshakeService interface {
	Run(ctx context.Context) (HandshakeResult, error)
}

// ArtifactService exchanges a link token for the final artifact.
type ArtifactService interface {
	Retrieve(ctx context.Context, token LinkToken) (Artifact, error)
}
