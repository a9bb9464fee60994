// Package upstream holds the HTTP clients for the external services the
// provider delegates to: the credential authority that validates end-user
// passwords, and the directory that owns profile data. The provider never
// stores credentials or profiles itself.
package upstream

import "errors"

var (
	// ErrDenied means the upstream understood the request and rejected the
	// credentials. A normal authentication failure, not an outage.
	ErrDenied = errors.New("upstream: credentials rejected")

	// ErrUnavailable means the upstream could not be reached or answered
	// with something unusable. Callers fail closed on this.
	ErrUnavailable = errors.New("upstream: service unavailable")

	// ErrNotFound means the directory has no record for the subject.
	ErrNotFound = errors.New("upstream: subject not found")
)
