// Package handshake drives one complete RMAP attempt: it owns a fresh
// protocol session, moves its envelopes over the transport, and yields the
// link token. Every stage fails closed; retrying is the caller's decision and
// always means another Run with a brand-new session and nonce.
package handshake
