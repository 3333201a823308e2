package envelope

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"

	"rmap/internal/domain"
)

const armorBlockType = "PGP MESSAGE"

// Seal encrypts msg to the recipient's public key and wraps it into a single
// transport-safe text blob.
func Seal(msg map[string]any, recipient *openpgp.Entity) (domain.Envelope, error) {
	plaintext, err := Canonical(msg)
	if err != nil {
		return "", err
	}

	var armored bytes.Buffer
	aw, err := armor.Encode(&armored, armorBlockType, nil)
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}
	pw, err := openpgp.Encrypt(aw, []*openpgp.Entity{recipient}, nil, nil, nil)
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}
	if _, err := pw.Write(plaintext); err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}
	if err := pw.Close(); err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}
	if err := aw.Close(); err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}

	return domain.Envelope(base64.StdEncoding.EncodeToString(armored.Bytes())), nil
}

// Open reverses Seal using an unlocked private keyring. The keyring must come
// from a scoped unlock (keyring.Unlocked) and is not retained; dropping it
// after the call is what bounds the exposure of decrypted key material.
func Open(env domain.Envelope, unlocked openpgp.EntityList) (map[string]any, error) {
	armored, err := base64.StdEncoding.DecodeString(string(env))
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64: %v", domain.ErrEnvelopeFormat, err)
	}
	block, err := armor.Decode(bytes.NewReader(armored))
	if err != nil {
		return nil, fmt.Errorf("%w: bad armor: %v", domain.ErrEnvelopeFormat, err)
	}
	if block.Type != armorBlockType {
		return nil, fmt.Errorf("%w: unexpected armor block %q", domain.ErrEnvelopeFormat, block.Type)
	}

	md, err := openpgp.ReadMessage(block.Body, unlocked, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryption, err)
	}
	plaintext, err := io.ReadAll(md.UnverifiedBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryption, err)
	}

	return DecodeCanonical(plaintext)
}
