package store

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/libelulasoft/agil-idp/internal/idp/domain"
	"github.com/libelulasoft/agil-idp/pkg/cryptox"
)

// DefaultAccessTokenTTL is the access token lifetime.
const DefaultAccessTokenTTL = time.Hour

// TokenStore records issued access tokens in memory so the userinfo
// endpoint can resolve bearer tokens without re-parsing JWTs. Entries are
// keyed by token fingerprint and backed by go-cache, whose janitor sweeps
// out expired records in the background. There is no revocation; entries
// only leave via expiry.
type TokenStore struct {
	cache *gocache.Cache

	ttl time.Duration
	now func() time.Time
}

// NewTokenStore creates an empty TokenStore. If ttl is 0 or negative, the
// default 1 hour lifetime is used.
func NewTokenStore(ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	return &TokenStore{
		cache: gocache.New(ttl, 10*time.Minute),
		ttl:   ttl,
		now:   time.Now,
	}
}

// SetClock overrides the store's time source. Tests use this to cross
// expiry boundaries without sleeping. The go-cache janitor keeps using the
// wall clock, so Lookup re-checks expiry against this source.
func (s *TokenStore) SetClock(now func() time.Time) {
	s.now = now
}

// TTL returns the configured access token lifetime.
func (s *TokenStore) TTL() time.Duration {
	return s.ttl
}

// Record stores the issued access token's metadata under its fingerprint.
func (s *TokenStore) Record(token string, rec domain.AccessToken) {
	now := s.now().UTC()
	rec.TokenHash = cryptox.Fingerprint(token)
	rec.CreatedAt = now
	rec.ExpiresAt = now.Add(s.ttl)

	s.cache.Set(rec.TokenHash, rec, s.ttl)
}

// Lookup resolves a bearer token to its record. Absent and expired tokens
// are both ErrNotFound.
func (s *TokenStore) Lookup(token string) (domain.AccessToken, error) {
	v, ok := s.cache.Get(cryptox.Fingerprint(token))
	if !ok {
		return domain.AccessToken{}, ErrNotFound
	}

	rec, ok := v.(domain.AccessToken)
	if !ok {
		return domain.AccessToken{}, ErrNotFound
	}

	// The janitor runs on wall time; re-check against our clock so an
	// injected time source observes expiry immediately.
	if rec.Expired(s.now().UTC()) {
		return domain.AccessToken{}, ErrNotFound
	}

	return rec, nil
}

// Len reports the number of live entries, including any the janitor has
// not swept yet.
func (s *TokenStore) Len() int {
	return s.cache.ItemCount()
}
