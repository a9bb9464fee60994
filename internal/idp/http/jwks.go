package http

import (
	"net/http"

	"github.com/libelulasoft/agil-idp/pkg/httpx"
	"github.com/libelulasoft/agil-idp/pkg/jwtx"
	"github.com/libelulasoft/agil-idp/pkg/oidcsdk"
)

// JWKSHandler exposes the JSON Web Key Set for key discovery. The published
// key material is a fingerprint of the signing secret, never the secret
// itself, so the document is safe to serve unauthenticated.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set describing the token signing keys.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	oidcsdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, oidcsdk.JWKSResponse(keys.PublicJWKS()))
	}
}
