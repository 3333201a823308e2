// Package artifact exchanges a link token for the final binary document.
// Success requires a 2xx status and an exact content-type match; anything
// else is domain.ErrArtifact and nothing is persisted. Where the bytes end up
// is caller policy.
package artifact
