package domain

// Envelope is one protocol message in transport-safe form: base64 of an
// ASCII-armored OpenPGP encryption of a canonical-JSON mapping. Opaque to
// everything except the envelope codec.
type Envelope string

// LinkToken is the opaque capability string issued by the peer after a
// successful handshake. Treat it like a credential: single conceptual use,
// never derived, never logged in full.
type LinkToken string

// State is the forward-only progression of one handshake session.
type State int

const (
	StateInit State = iota
	StateAwaitingResponse1
	StateVerifiedNonce
	StateAwaitingResponse2
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateAwaitingResponse1:
		return "awaiting-response-1"
	case StateVerifiedNonce:
		return "verified-nonce"
	case StateAwaitingResponse2:
		return "awaiting-response-2"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// PayloadBody is the JSON body of both handshake POSTs.
type PayloadBody struct {
	Payload Envelope `json:"payload"`
}

// LinkResponse is the plaintext JSON reply to /api/rmap-get-link. Result is a
// pointer so a missing field is distinguishable from an empty token.
type LinkResponse struct {
	Result   *string `json:"result"`
	Identity string  `json:"identity,omitempty"`
}

// HandshakeResult is what one completed session yields.
type HandshakeResult struct {
	Token LinkToken
	// Identity echoed by the peer in the second response, if any. Display
	// only; never compared against configuration.
	Identity  string
	AttemptID string
}

// Artifact is the binary document retrieved with a link token. The caller
// decides where (and whether) it is persisted.
type Artifact struct {
	ContentType string
	Bytes       []byte
}

func (a Artifact) Size() int { return len(a.Bytes) }

// TokenRecord is one stored link token with its provenance.
type TokenRecord struct {
	Identity    string    `json:"identity"`
	Token       LinkToken `json:"token"`
	Server      string    `json:"server"`
	AttemptID   string    `json:"attempt_id"`
	ObtainedUTC int64     `json:"obtained_utc"`
}
