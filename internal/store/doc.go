// Package store persists link tokens on disk, encrypted at rest.
//
// A link token is capability-bearing, so the record file gets the same
// treatment as key material: the JSON record list is sealed with
// ChaCha20-Poly1305 under a scrypt-derived key before it touches disk, and
// writes go through a temp file plus rename.
package store
