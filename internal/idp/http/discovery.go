package http

import (
	"net/http"
	"strings"

	"github.com/libelulasoft/agil-idp/pkg/httpx"
	"github.com/libelulasoft/agil-idp/pkg/oidcsdk"
)

// DiscoveryHandler serves the OpenID Provider configuration document.
//
//	@Summary		OpenID Provider Configuration
//	@Description	Returns the OpenID Connect discovery document for this issuer.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	oidcsdk.DiscoveryDocument	"The provider metadata"
//	@Router			/.well-known/openid-configuration [get].
func DiscoveryHandler(issuer string) http.HandlerFunc {
	base := strings.TrimRight(issuer, "/")

	doc := oidcsdk.DiscoveryDocument{
		Issuer:                           issuer,
		AuthorizationEndpoint:            base + "/authorize",
		TokenEndpoint:                    base + "/token",
		UserInfoEndpoint:                 base + "/userinfo",
		JWKSURI:                          base + "/.well-known/jwks.json",
		ResponseTypesSupported:           []string{"code"},
		GrantTypesSupported:              []string{"authorization_code", "password"},
		SubjectTypesSupported:            []string{"public"},
		IDTokenSigningAlgValuesSupported: []string{"HS256"},
		ScopesSupported:                  []string{"openid", "profile", "email"},
		ClaimsSupported: []string{
			"iss", "sub", "aud", "iat", "exp", "auth_time", "nonce",
			"name", "given_name", "family_name", "preferred_username",
			"email", "email_verified",
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, doc)
	}
}
