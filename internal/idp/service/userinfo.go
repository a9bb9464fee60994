package service

import (
	"context"
	"errors"

	"github.com/libelulasoft/agil-idp/internal/idp/domain"
	"github.com/libelulasoft/agil-idp/internal/idp/store"
	"github.com/libelulasoft/agil-idp/pkg/slogx"
)

// ErrInvalidToken is returned when a bearer token is unknown or expired.
var ErrInvalidToken = errors.New("invalid_token")

// UserInfoService resolves bearer access tokens to the subject's current
// directory profile for the userinfo endpoint.
type UserInfoService struct {
	Tokens    *store.TokenStore
	Directory ProfileDirectory
}

// Resolve looks the bearer token up in the token store and fetches the
// subject's profile. The token record is authoritative for sub and scope;
// the profile is best-effort and degrades to sub-only when the directory
// is unreachable or no longer knows the subject.
func (s *UserInfoService) Resolve(ctx context.Context, token string) (domain.AccessToken, domain.Profile, error) {
	log := slogx.FromContext(ctx)

	rec, err := s.Tokens.Lookup(token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AccessToken{}, domain.Profile{}, ErrInvalidToken
		}
		return domain.AccessToken{}, domain.Profile{}, err
	}

	profile := domain.Profile{ID: rec.SubjectID, Email: rec.SubjectEmail}
	if rec.SubjectEmail != "" && s.Directory != nil {
		if p, err := s.Directory.FindByEmail(ctx, rec.SubjectEmail); err == nil {
			profile = p
		} else {
			log.Warn("userinfo degraded to sub-only claims", "sub", rec.SubjectID, "error", err)
		}
	}

	return rec, profile, nil
}
