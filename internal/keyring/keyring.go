package keyring

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"

	"rmap/internal/domain"
	"rmap/internal/util/memzero"
)

// Keyring holds the peer's public key and our own private key in its locked,
// armored form. It is read-only after Load and safe to share across
// independent session attempts.
type Keyring struct {
	peer       *openpgp.Entity
	ownArmored []byte
	ownFpr     string
	passphrase []byte
	protected  bool
}

// Load reads both key files and validates them before any network call:
// the own key must actually be a private key, and a passphrase-protected key
// must unlock with the supplied passphrase.
func Load(peerPubPath, ownPrivPath, passphrase string) (*Keyring, error) {
	peer, err := readEntity(peerPubPath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(ownPrivPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrKeyLoad, ownPrivPath, err)
	}
	own, err := parseKeyRing(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ownPrivPath, err)
	}
	primary := own[0]
	if primary.PrivateKey == nil {
		return nil, fmt.Errorf("%w: %s holds only a public key where a private key was required", domain.ErrKeyLoad, ownPrivPath)
	}

	k := &Keyring{
		peer:       peer,
		ownArmored: raw,
		ownFpr:     fmt.Sprintf("%x", primary.PrimaryKey.Fingerprint),
		passphrase: []byte(passphrase),
		protected:  isProtected(own),
	}
	if k.protected {
		if passphrase == "" {
			return nil, fmt.Errorf("%w: %s is passphrase-protected and no passphrase was supplied", domain.ErrKeyUnlock, ownPrivPath)
		}
		// Prove the passphrase now so a bad one fails the attempt up front.
		if _, err := k.Unlocked(); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// Unlocked returns a freshly parsed, decrypted copy of the private keyring.
// Callers use it for a single decrypt call and let it go out of scope; the
// keyring itself never transitions to an unlocked state.
func (k *Keyring) Unlocked() (openpgp.EntityList, error) {
	kring, err := parseKeyRing(k.ownArmored)
	if err != nil {
		return nil, err
	}
	if !k.protected {
		return kring, nil
	}
	pass := append([]byte(nil), k.passphrase...)
	defer memzero.Zero(pass)
	for _, e := range kring {
		if err := e.DecryptPrivateKeys(pass); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrKeyUnlock, err)
		}
	}
	return kring, nil
}

// Peer returns the recipient entity messages are sealed to.
func (k *Keyring) Peer() *openpgp.Entity { return k.peer }

func (k *Keyring) OwnFingerprint() string { return k.ownFpr }

func (k *Keyring) PeerFingerprint() string {
	return fmt.Sprintf("%x", k.peer.PrimaryKey.Fingerprint)
}

// VerifyDistinct rejects configurations where the peer key and our own key
// are the same material, which would make the handshake talk to itself.
func (k *Keyring) VerifyDistinct() error {
	if k.ownFpr == k.PeerFingerprint() {
		return fmt.Errorf("%w: own key and peer key share fingerprint %s", domain.ErrKeyLoad, k.ownFpr)
	}
	return nil
}

// Close wipes the retained passphrase. The keyring is unusable afterwards.
func (k *Keyring) Close() {
	memzero.Zero(k.passphrase)
	k.passphrase = nil
}

func readEntity(path string) (*openpgp.Entity, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrKeyLoad, path, err)
	}
	kring, err := parseKeyRing(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return kring[0], nil
}

func parseKeyRing(raw []byte) (openpgp.EntityList, error) {
	kring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKeyLoad, err)
	}
	if len(kring) == 0 {
		return nil, fmt.Errorf("%w: no keys found", domain.ErrKeyLoad)
	}
	return kring, nil
}

func isProtected(kring openpgp.EntityList) bool {
	for _, e := range kring {
		if e.PrivateKey != nil && e.PrivateKey.Encrypted {
			return true
		}
		for _, sk := range e.Subkeys {
			if sk.PrivateKey != nil && sk.PrivateKey.Encrypted {
				return true
			}
		}
	}
	return false
}
