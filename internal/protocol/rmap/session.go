package rmap

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/google/uuid"

	"rmap/internal/domain"
	"rmap/internal/envelope"
)

// KeySource supplies the key material a session needs: the peer entity
// envelopes are sealed to, and scoped unlocked copies of our private keyring
// for each decrypt.
type KeySource interface {
	Peer() *openpgp.Entity
	Unlocked() (openpgp.EntityList, error)
}

// Session is one handshake attempt. Not safe for concurrent use; a session is
// an inherently ordered conversation.
type Session struct {
	id       string
	identity string
	keys     KeySource

	nonceClient uint64
	nonceServer uint64

	state   domain.State
	failure error
}

// NewSession creates a fresh session for identity. The nonce is not generated
// until Start, so a session that never starts leaks nothing.
func NewSession(identity string, keys KeySource) *Session {
	return &Session{
		id:       uuid.NewString(),
		identity: identity,
		keys:     keys,
		state:    domain.StateInit,
	}
}

// ID is the attempt identifier, used only for log correlation.
func (s *Session) ID() string { return s.id }

func (s *Session) State() domain.State { return s.state }

// Err returns the recorded failure reason, if the session failed.
func (s *Session) Err() error { return s.failure }

// Start generates nonceClient (exactly once for the session's lifetime) and
// returns the sealed first message {identity, nonceClient} for transport.
func (s *Session) Start() (domain.Envelope, error) {
	if s.state != domain.StateInit {
		return "", s.fail(fmt.Errorf("%w: Start in %s", domain.ErrSessionState, s.state))
	}
	nonce, err := randomNonce()
	if err != nil {
		return "", s.fail(fmt.Errorf("generating nonceClient: %w", err))
	}
	s.nonceClient = nonce

	env, err := envelope.Seal(map[string]any{
		"identity":    s.identity,
		"nonceClient": s.nonceClient,
	}, s.keys.Peer())
	if err != nil {
		return "", s.fail(err)
	}
	s.state = domain.StateAwaitingResponse1
	return env, nil
}

// HandleFirstResponse opens the peer's first reply, verifies the echoed
// nonceClient, stores nonceServer, and returns the sealed second message
// {nonceServer}. A nonce mismatch is security-critical and short-circuits
// before any further network interaction.
func (s *Session) HandleFirstResponse(env domain.Envelope) (domain.Envelope, error) {
	if s.state != domain.StateAwaitingResponse1 {
		return "", s.fail(fmt.Errorf("%w: HandleFirstResponse in %s", domain.ErrSessionState, s.state))
	}

	unlocked, err := s.keys.Unlocked()
	if err != nil {
		return "", s.fail(err)
	}
	msg, err := envelope.Open(env, unlocked)
	if err != nil {
		return "", s.fail(err)
	}

	echoed, err := nonceField(msg, "nonceClient")
	if err != nil {
		return "", s.fail(err)
	}
	if echoed != s.nonceClient {
		return "", s.fail(fmt.Errorf("%w: sent %d, peer echoed %d", domain.ErrNonceMismatch, s.nonceClient, echoed))
	}
	// nonceServer is opaque random data: presence is required, the value is
	// never validated.
	server, err := nonceField(msg, "nonceServer")
	if err != nil {
		return "", s.fail(err)
	}
	s.nonceServer = server
	s.state = domain.StateVerifiedNonce

	out, err := envelope.Seal(map[string]any{"nonceServer": s.nonceServer}, s.keys.Peer())
	if err != nil {
		return "", s.fail(err)
	}
	s.state = domain.StateAwaitingResponse2
	return out, nil
}

// HandleSecondResponse extracts the link token from the peer's plaintext
// reply and completes the session. The session must not be used afterwards.
func (s *Session) HandleSecondResponse(resp domain.LinkResponse) (domain.LinkToken, error) {
	if s.state != domain.StateAwaitingResponse2 {
		return "", s.fail(fmt.Errorf("%w: HandleSecondResponse in %s", domain.ErrSessionState, s.state))
	}
	if resp.Result == nil || *resp.Result == "" {
		return "", s.fail(fmt.Errorf("%w: second response carries no result field", domain.ErrMalformedResponse))
	}
	s.state = domain.StateComplete
	return domain.LinkToken(*resp.Result), nil
}

// Fail records an externally observed failure (transport error, timeout) and
// moves the session to its terminal failed state.
func (s *Session) Fail(err error) {
	if s.state == domain.StateComplete || s.state == domain.StateFailed {
		return
	}
	s.state = domain.StateFailed
	s.failure = err
}

func (s *Session) fail(err error) error {
	if s.state != domain.StateComplete && s.state != domain.StateFailed {
		s.state = domain.StateFailed
		s.failure = err
	}
	return err
}

// nonceField coerces msg[key] to an exact unsigned 64-bit integer. Anything
// not exactly representable is a hard failure, not a silent default.
func nonceField(msg map[string]any, key string) (uint64, error) {
	v, ok := msg[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", domain.ErrMalformedResponse, key)
	}
	var lit string
	switch n := v.(type) {
	case json.Number:
		lit = n.String()
	case string:
		lit = n
	default:
		return 0, fmt.Errorf("%w: %s has unusable type %T", domain.ErrMalformedResponse, key, v)
	}
	u, err := strconv.ParseUint(lit, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an exact unsigned 64-bit integer", domain.ErrMalformedResponse, key, lit)
	}
	return u, nil
}

func randomNonce() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}
