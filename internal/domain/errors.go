package domain

import "errors"

// Error taxonomy for a handshake attempt. Every stage fails closed: the first
// error moves the session to StateFailed and nothing further runs. Retried
// attempts start a brand-new session with a fresh nonce.
var (
	// ErrConnectivity: peer unreachable or a network call timed out.
	ErrConnectivity = errors.New("peer unreachable or timed out")

	// ErrKeyLoad: key material missing, malformed, or of the wrong kind
	// (e.g. a public key supplied where a private key was required).
	ErrKeyLoad = errors.New("key material invalid")

	// ErrKeyUnlock: passphrase required but absent, or unlock failed.
	ErrKeyUnlock = errors.New("private key unlock failed")

	// ErrEnvelopeFormat: malformed base64, armor, or plaintext container.
	ErrEnvelopeFormat = errors.New("malformed envelope")

	// ErrDecryption: wrong key or corrupted ciphertext.
	ErrDecryption = errors.New("envelope decryption failed")

	// ErrNonceMismatch: the peer echoed a nonceClient different from the one
	// generated for this session. Security-critical; never downgraded.
	ErrNonceMismatch = errors.New("nonceClient mismatch")

	// ErrMalformedResponse: a response is missing an expected field or a
	// field has an unusable representation.
	ErrMalformedResponse = errors.New("malformed peer response")

	// ErrServer: the peer answered with a non-success status.
	ErrServer = errors.New("peer signalled an error")

	// ErrArtifact: artifact retrieval failed (bad status or content type);
	// no partial artifact is ever persisted.
	ErrArtifact = errors.New("artifact retrieval failed")

	// ErrSessionState: an operation was invoked outside its allowed state,
	// including any use of a completed or failed session.
	ErrSessionState = errors.New("session in wrong state")
)
