package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/libelulasoft/agil-idp/internal/idp/service"
	"github.com/libelulasoft/agil-idp/pkg/httpx"
	"github.com/libelulasoft/agil-idp/pkg/oidcsdk"
	"github.com/libelulasoft/agil-idp/pkg/slogx"
)

type UserInfoHandler struct {
	UserInfoService *service.UserInfoService
}

// ServeHTTP handles the OIDC UserInfo endpoint.
//
// The bearer token must both verify as a JWT (enforced by the authn
// middleware upstream) and still be present in the token store: a token
// from a previous process life is cryptographically valid but unknown
// here, and is rejected.
//
//	@Summary		Get user information
//	@Description	Returns claims about the authenticated subject. Requires 'openid' scope.
//	@Description	The 'profile' and 'email' scopes gate the corresponding claim groups.
//	@Tags			OAuth2
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	oidcsdk.UserInfoResponse	"Subject claims"
//	@Failure		401	{object}	oidcsdk.ErrorResponse		"Invalid or missing access token"
//	@Failure		500	{object}	oidcsdk.ErrorResponse		"Internal server error"
//	@Router			/userinfo [get].
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := extractBearerToken(r)
	if token == "" {
		oidcsdk.ErrInvalidToken.WriteError(w)
		return
	}

	rec, profile, err := h.UserInfoService.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			oidcsdk.ErrInvalidToken.WriteError(w)
			return
		}
		log.Warn("userinfo resolution failed", "err", err)
		oidcsdk.ErrServerError.WriteError(w)
		return
	}

	response := oidcsdk.UserInfoResponse{Sub: rec.SubjectID}

	if hasScope(rec.Scope, "profile") {
		response.Name = profile.DisplayName()
		response.GivenName = profile.GivenName
		response.FamilyName = profile.FamilyName
		response.PreferredUsername = profile.Username
	}
	if hasScope(rec.Scope, "email") {
		response.Email = profile.Email
		response.EmailVerified = profile.EmailVerified
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, response)
}

// hasScope reports whether a space-delimited scope string grants want.
func hasScope(scope, want string) bool {
	for _, s := range strings.Fields(scope) {
		if s == want {
			return true
		}
	}
	return false
}

// extractBearerToken extracts the bearer token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}
	return ""
}
