// Package keyring loads the armored OpenPGP key material a handshake needs:
// our private key and the peer's public key.
//
// Private keys stay locked. Unlocked re-parses the retained armored bytes and
// decrypts that fresh copy for exactly one decrypt call; the copy goes out of
// scope when the caller returns, so no long-lived object ever holds decrypted
// key material. A protected key with no (or a wrong) passphrase fails at load
// time, before any network traffic.
package keyring
