// Package store holds the volatile single-process state for the identity
// provider: outstanding authorization codes and recorded access tokens.
// Nothing here survives a restart; losing the process invalidates every
// outstanding code and token.
package store

import "errors"

// ErrNotFound is returned when a code or token is absent, already consumed,
// or expired. Callers cannot distinguish those cases; a replayed code looks
// exactly like an unknown one.
var ErrNotFound = errors.New("store: not found")
