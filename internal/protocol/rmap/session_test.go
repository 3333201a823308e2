package rmap

import (
	"errors"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"

	"rmap/internal/domain"
	"rmap/internal/envelope"
)

// staticKeys satisfies KeySource with in-memory entities; no files, no
// passphrase.
type staticKeys struct {
	peer *openpgp.Entity
	own  openpgp.EntityList
}

func (s staticKeys) Peer() *openpgp.Entity                 { return s.peer }
func (s staticKeys) Unlocked() (openpgp.EntityList, error) { return s.own, nil }

// pair is one client/server key setup viewed from the client side.
type pair struct {
	client *openpgp.Entity
	server *openpgp.Entity
	keys   staticKeys
}

func makePair(t *testing.T) pair {
	t.Helper()
	client, err := openpgp.NewEntity("client", "", "client@example.com", nil)
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}
	server, err := openpgp.NewEntity("server", "", "server@example.com", nil)
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}
	return pair{
		client: client,
		server: server,
		keys:   staticKeys{peer: server, own: openpgp.EntityList{client}},
	}
}

// openAsServer decrypts an envelope the client sealed to the server.
func (p pair) openAsServer(t *testing.T, env domain.Envelope) map[string]any {
	t.Helper()
	msg, err := envelope.Open(env, openpgp.EntityList{p.server})
	if err != nil {
		t.Fatalf("opening client envelope as server: %v", err)
	}
	return msg
}

// sealAsServer encrypts a server response to the client.
func (p pair) sealAsServer(t *testing.T, msg map[string]any) domain.Envelope {
	t.Helper()
	env, err := envelope.Seal(msg, p.client)
	if err != nil {
		t.Fatalf("sealing server response: %v", err)
	}
	return env
}

func strptr(s string) *string { return &s }

func TestHappyPathFixedVectors(t *testing.T) {
	p := makePair(t)
	sess := NewSession("Group_04", p.keys)

	// Pin the nonce to the documented vector.
	sess.nonceClient = 123456789
	sess.state = domain.StateAwaitingResponse1

	resp1 := p.sealAsServer(t, map[string]any{
		"nonceClient": uint64(123456789),
		"nonceServer": uint64(987654321),
	})
	env2, err := sess.HandleFirstResponse(resp1)
	if err != nil {
		t.Fatalf("HandleFirstResponse: %v", err)
	}
	if sess.State() != domain.StateAwaitingResponse2 {
		t.Fatalf("state %s, want %s", sess.State(), domain.StateAwaitingResponse2)
	}
	if sess.nonceServer != 987654321 {
		t.Fatalf("nonceServer %d, want 987654321", sess.nonceServer)
	}

	msg2 := p.openAsServer(t, env2)
	want, _ := envelope.Canonical(map[string]any{"nonceServer": uint64(987654321)})
	got, _ := envelope.Canonical(msg2)
	if string(want) != string(got) {
		t.Fatalf("second message %s, want %s", got, want)
	}

	token, err := sess.HandleSecondResponse(domain.LinkResponse{Result: strptr("abc123")})
	if err != nil {
		t.Fatalf("HandleSecondResponse: %v", err)
	}
	if token != "abc123" {
		t.Fatalf("token %q, want abc123", token)
	}
	if sess.State() != domain.StateComplete {
		t.Fatalf("state %s, want %s", sess.State(), domain.StateComplete)
	}
}

func TestStartSealsIdentityAndNonce(t *testing.T) {
	p := makePair(t)
	sess := NewSession("Group_04", p.keys)

	env1, err := sess.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if sess.State() != domain.StateAwaitingResponse1 {
		t.Fatalf("state %s, want %s", sess.State(), domain.StateAwaitingResponse1)
	}

	msg := p.openAsServer(t, env1)
	if msg["identity"] != "Group_04" {
		t.Fatalf("identity %v, want Group_04", msg["identity"])
	}
	echoed, err := nonceField(msg, "nonceClient")
	if err != nil {
		t.Fatalf("nonceClient missing from message 1: %v", err)
	}
	if echoed != sess.nonceClient {
		t.Fatalf("sealed nonce %d differs from session nonce %d", echoed, sess.nonceClient)
	}
}

func TestFullExchange(t *testing.T) {
	p := makePair(t)
	sess := NewSession("Group_04", p.keys)

	env1, err := sess.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	msg1 := p.openAsServer(t, env1)
	echoed, _ := nonceField(msg1, "nonceClient")

	env2, err := sess.HandleFirstResponse(p.sealAsServer(t, map[string]any{
		"nonceClient": echoed,
		"nonceServer": uint64(42),
	}))
	if err != nil {
		t.Fatalf("HandleFirstResponse: %v", err)
	}
	if got, _ := nonceField(p.openAsServer(t, env2), "nonceServer"); got != 42 {
		t.Fatalf("echoed nonceServer %d, want 42", got)
	}

	token, err := sess.HandleSecondResponse(domain.LinkResponse{Result: strptr("tok")})
	if err != nil {
		t.Fatalf("HandleSecondResponse: %v", err)
	}
	if token != "tok" {
		t.Fatalf("token %q", token)
	}
}

func TestNonceMismatchFailsClosed(t *testing.T) {
	p := makePair(t)
	sess := NewSession("Group_04", p.keys)
	if _, err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	env, err := sess.HandleFirstResponse(p.sealAsServer(t, map[string]any{
		"nonceClient": sess.nonceClient + 1,
		"nonceServer": uint64(987654321),
	}))
	if !errors.Is(err, domain.ErrNonceMismatch) {
		t.Fatalf("want ErrNonceMismatch, got %v", err)
	}
	if env != "" {
		t.Fatal("no second-round envelope may be produced on mismatch")
	}
	if sess.State() != domain.StateFailed {
		t.Fatalf("state %s, want %s", sess.State(), domain.StateFailed)
	}
	if !errors.Is(sess.Err(), domain.ErrNonceMismatch) {
		t.Fatalf("recorded failure %v", sess.Err())
	}

	// The session is terminal; nothing else may run on it.
	if _, err := sess.HandleSecondResponse(domain.LinkResponse{Result: strptr("x")}); !errors.Is(err, domain.ErrSessionState) {
		t.Fatalf("want ErrSessionState after failure, got %v", err)
	}
}

func TestMissingNonceServer(t *testing.T) {
	p := makePair(t)
	sess := NewSession("Group_04", p.keys)
	if _, err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	_, err := sess.HandleFirstResponse(p.sealAsServer(t, map[string]any{
		"nonceClient": sess.nonceClient,
	}))
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("want ErrMalformedResponse, got %v", err)
	}
}

func TestNonceCoercion(t *testing.T) {
	p := makePair(t)
	sess := NewSession("Group_04", p.keys)
	if _, err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Textual nonces coerce when exactly representable.
	env, err := sess.HandleFirstResponse(p.sealAsServer(t, map[string]any{
		"nonceClient": sess.nonceClient,
		"nonceServer": "987654321",
	}))
	if err != nil {
		t.Fatalf("HandleFirstResponse with textual nonceServer: %v", err)
	}
	if env == "" {
		t.Fatal("no envelope produced")
	}
	if sess.nonceServer != 987654321 {
		t.Fatalf("nonceServer %d, want 987654321", sess.nonceServer)
	}
}

func TestNonceInexactRejected(t *testing.T) {
	p := makePair(t)
	sess := NewSession("Group_04", p.keys)
	if _, err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	_, err := sess.HandleFirstResponse(p.sealAsServer(t, map[string]any{
		"nonceClient": sess.nonceClient,
		"nonceServer": 1.5,
	}))
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("want ErrMalformedResponse for fractional nonce, got %v", err)
	}

	sess2 := NewSession("Group_04", p.keys)
	if _, err := sess2.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	_, err = sess2.HandleFirstResponse(p.sealAsServer(t, map[string]any{
		"nonceClient": sess2.nonceClient,
		"nonceServer": int64(-7),
	}))
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("want ErrMalformedResponse for negative nonce, got %v", err)
	}
}

func TestMalformedSecondResponse(t *testing.T) {
	p := makePair(t)
	sess := NewSession("Group_04", p.keys)
	sess.state = domain.StateAwaitingResponse2

	// {"error": "unknown identity"} decodes to a LinkResponse without result.
	_, err := sess.HandleSecondResponse(domain.LinkResponse{})
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("want ErrMalformedResponse, got %v", err)
	}
	if sess.State() != domain.StateFailed {
		t.Fatalf("state %s, want %s", sess.State(), domain.StateFailed)
	}
}

func TestCompletedSessionNotReusable(t *testing.T) {
	p := makePair(t)
	sess := NewSession("Group_04", p.keys)
	sess.state = domain.StateAwaitingResponse2

	if _, err := sess.HandleSecondResponse(domain.LinkResponse{Result: strptr("abc123")}); err != nil {
		t.Fatalf("HandleSecondResponse: %v", err)
	}
	if _, err := sess.Start(); !errors.Is(err, domain.ErrSessionState) {
		t.Fatalf("want ErrSessionState on reuse, got %v", err)
	}
}

func TestExternalFailIsTerminal(t *testing.T) {
	p := makePair(t)
	sess := NewSession("Group_04", p.keys)
	if _, err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	cause := errors.New("timeout")
	sess.Fail(cause)
	if sess.State() != domain.StateFailed || sess.Err() != cause {
		t.Fatalf("state %s err %v", sess.State(), sess.Err())
	}

	// A later Fail must not overwrite the first reason.
	sess.Fail(errors.New("other"))
	if sess.Err() != cause {
		t.Fatalf("failure reason overwritten: %v", sess.Err())
	}
}
