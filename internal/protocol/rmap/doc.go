// Package rmap implements the client side of the RMAP mutual-identity
// handshake: two encrypted round trips that prove possession of a private key
// and exchange nonces, yielding a single-use link token.
//
// One Session is one attempt. Its state only moves forward
// (init → awaiting-response-1 → verified-nonce → awaiting-response-2 →
// complete) with an absorbing failed state, and it is never reused or shared
// between goroutines. Retrying means a new Session with a fresh nonce.
//
// The package owns no I/O: callers move the returned envelopes over whatever
// transport they like and feed responses back in.
package rmap
