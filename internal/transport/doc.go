// Package transport provides the HTTP implementation of domain.Transport.
//
// The handshake depends on it only through an abstract send/fetch capability.
// All requests honour the caller's context plus a per-call timeout: a short
// one for the connectivity probe and longer ones for handshake round trips
// and artifact download. Network failures surface as domain.ErrConnectivity,
// non-2xx handshake replies as domain.ErrServer; no status code is treated
// specially beyond success vs failure.
package transport
