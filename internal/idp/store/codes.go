package store

import (
	"sync"
	"time"

	"github.com/libelulasoft/agil-idp/internal/idp/domain"
	"github.com/libelulasoft/agil-idp/pkg/cryptox"
)

// DefaultCodeTTL is the authorization code lifetime.
const DefaultCodeTTL = 10 * time.Minute

// CodeStore keeps outstanding authorization codes in memory, keyed by the
// SHA-256 fingerprint of the plaintext code. A single mutex guards the map
// so Redeem is an atomic lookup-and-delete: concurrent redemptions of the
// same code yield exactly one winner.
type CodeStore struct {
	mu    sync.Mutex
	codes map[string]domain.AuthorizationCode

	ttl time.Duration
	now func() time.Time
}

// NewCodeStore creates an empty CodeStore. If ttl is 0 or negative, the
// default 10 minute lifetime is used.
func NewCodeStore(ttl time.Duration) *CodeStore {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &CodeStore{
		codes: make(map[string]domain.AuthorizationCode),
		ttl:   ttl,
		now:   time.Now,
	}
}

// SetClock overrides the store's time source. Tests use this to cross
// expiry boundaries without sleeping.
func (s *CodeStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Mint generates a fresh authorization code, records its binding and
// returns the plaintext code. The plaintext is never stored; only its
// fingerprint is.
func (s *CodeStore) Mint(rec domain.AuthorizationCode) (string, error) {
	for {
		code, err := cryptox.GenerateCode(cryptox.CodeSize256)
		if err != nil {
			return "", err
		}
		hash := cryptox.Fingerprint(code)

		s.mu.Lock()
		if _, exists := s.codes[hash]; exists {
			// Fingerprint collision. Retry with a new code.
			s.mu.Unlock()
			continue
		}

		now := s.now().UTC()
		rec.CodeHash = hash
		rec.CreatedAt = now
		rec.ExpiresAt = now.Add(s.ttl)
		s.codes[hash] = rec
		s.mu.Unlock()

		return code, nil
	}
}

// Redeem consumes the code and returns its record. The code is removed
// whether or not the caller's binding checks later succeed; a second
// Redeem of the same code always fails with ErrNotFound, as does an
// expired or never-issued code.
func (s *CodeStore) Redeem(code string) (domain.AuthorizationCode, error) {
	hash := cryptox.Fingerprint(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.codes[hash]
	if !ok {
		return domain.AuthorizationCode{}, ErrNotFound
	}
	delete(s.codes, hash)

	if rec.Expired(s.now().UTC()) {
		return domain.AuthorizationCode{}, ErrNotFound
	}

	return rec, nil
}

// PurgeExpired drops codes past their lifetime and reports how many were
// removed. Redeem already ignores expired codes; this just bounds memory.
func (s *CodeStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	purged := 0
	for hash, rec := range s.codes {
		if rec.Expired(now) {
			delete(s.codes, hash)
			purged++
		}
	}
	return purged
}

// Len reports the number of outstanding codes. Used by readiness checks
// and tests.
func (s *CodeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}
