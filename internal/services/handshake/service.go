package handshake

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"rmap/internal/domain"
	"rmap/internal/protocol/rmap"
)

const (
	initiatePath = "/api/rmap-initiate"
	getLinkPath  = "/api/rmap-get-link"
)

// Service runs handshakes for one identity against one peer. Safe to reuse
// across attempts; each Run builds its own session.
type Service struct {
	identity  string
	keys      rmap.KeySource
	transport domain.Transport
}

func New(identity string, keys rmap.KeySource, transport domain.Transport) *Service {
	return &Service{identity: identity, keys: keys, transport: transport}
}

var _ domain.HandshakeService = (*Service)(nil)

// Run performs the two encrypted round trips and returns the link token.
func (s *Service) Run(ctx context.Context) (domain.HandshakeResult, error) {
	const op = "services.handshake.Run"

	sess := rmap.NewSession(s.identity, s.keys)
	log := logrus.WithFields(logrus.Fields{"attempt": sess.ID(), "identity": s.identity})

	env1, err := sess.Start()
	if err != nil {
		logrus.Errorf("Error: %v, %s", err, op)
		return domain.HandshakeResult{}, err
	}
	log.Info("sending message 1 (identity + nonceClient)")

	var resp1 domain.PayloadBody
	if err := s.transport.Post(ctx, initiatePath, domain.PayloadBody{Payload: env1}, &resp1); err != nil {
		sess.Fail(err)
		logrus.Errorf("Error: %v, %s", err, op)
		return domain.HandshakeResult{}, err
	}
	if resp1.Payload == "" {
		err := fmt.Errorf("%w: first response carries no payload field", domain.ErrMalformedResponse)
		sess.Fail(err)
		logrus.Errorf("Error: %v, %s", err, op)
		return domain.HandshakeResult{}, err
	}

	env2, err := sess.HandleFirstResponse(resp1.Payload)
	if err != nil {
		logrus.Errorf("Error: %v, %s", err, op)
		return domain.HandshakeResult{}, err
	}
	log.Info("nonce verified, sending message 2 (nonceServer)")

	var resp2 domain.LinkResponse
	if err := s.transport.Post(ctx, getLinkPath, domain.PayloadBody{Payload: env2}, &resp2); err != nil {
		sess.Fail(err)
		logrus.Errorf("Error: %v, %s", err, op)
		return domain.HandshakeResult{}, err
	}

	token, err := sess.HandleSecondResponse(resp2)
	if err != nil {
		logrus.Errorf("Error: %v, %s", err, op)
		return domain.HandshakeResult{}, err
	}
	log.Info("handshake complete, link token received")

	return domain.HandshakeResult{
		Token:     token,
		Identity:  resp2.Identity,
		AttemptID: sess.ID(),
	}, nil
}
