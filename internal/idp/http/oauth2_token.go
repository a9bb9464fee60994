package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/libelulasoft/agil-idp/internal/idp/domain"
	"github.com/libelulasoft/agil-idp/internal/idp/service"
	"github.com/libelulasoft/agil-idp/pkg/httpx"
	"github.com/libelulasoft/agil-idp/pkg/oidcsdk"
	"github.com/libelulasoft/agil-idp/pkg/slogx"
)

// TokenHandler serves POST /token.
// Accepts application/x-www-form-urlencoded per RFC 6749, and application/json
// as a convenience for non-browser clients.
type TokenHandler struct {
	TokenService *service.TokenService
}

// tokenRequest is the union of the fields the supported grants read.
type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	Scope        string `json:"scope"`
}

// ServeHTTP godoc
//
//	@Summary		OAuth2 Token Endpoint
//	@Description	Issues access and ID tokens using OAuth2 grant types (authorization_code, password).
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Accept			json
//	@Produce		json
//	@Param			grant_type		formData	string					true	"Grant type"	Enums(authorization_code, password)
//	@Param			code			formData	string					false	"Authorization code (required for authorization_code grant)"
//	@Param			redirect_uri	formData	string					false	"Redirect URI (required for authorization_code grant)"
//	@Param			client_id		formData	string					true	"Client identifier"
//	@Param			client_secret	formData	string					true	"Client secret"
//	@Param			username		formData	string					false	"Subject email (required for password grant)"
//	@Param			password		formData	string					false	"Subject password (required for password grant)"
//	@Param			scope			formData	string					false	"Space-delimited list of scopes"
//	@Success		200				{object}	oidcsdk.TokenResponse	"access_token, id_token, token_type, expires_in, scope"
//	@Failure		400				{object}	oidcsdk.ErrorResponse	"error, error_description"
//	@Failure		502				{object}	oidcsdk.ErrorResponse	"error, error_description"
//	@Header			200				{string}	Cache-Control			"no-store"
//	@Header			200				{string}	Pragma					"no-cache"
//	@Router			/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseTokenRequest(w, r)
	if !ok {
		return
	}

	switch req.GrantType {
	case "authorization_code":
		h.handleAuthorizationCodeGrant(w, r, req)
	case "password":
		h.handlePasswordGrant(w, r, req)
	default:
		oidcsdk.ErrUnsupportedGrantType.WriteError(w)
	}
}

// parseTokenRequest decodes the request body into a tokenRequest. It writes
// the error response itself and returns ok=false on failure.
func (h *TokenHandler) parseTokenRequest(w http.ResponseWriter, r *http.Request) (tokenRequest, bool) {
	ct := r.Header.Get("Content-Type")

	switch {
	case strings.HasPrefix(ct, "application/json"):
		var req tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			oidcsdk.ErrInvalidFormBody.WriteError(w)
			return tokenRequest{}, false
		}
		return req, true

	case ct == "" || strings.HasPrefix(ct, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			oidcsdk.ErrInvalidFormBody.WriteError(w)
			return tokenRequest{}, false
		}
		return tokenRequest{
			GrantType:    r.Form.Get("grant_type"),
			Code:         r.Form.Get("code"),
			RedirectURI:  r.Form.Get("redirect_uri"),
			ClientID:     r.Form.Get("client_id"),
			ClientSecret: r.Form.Get("client_secret"),
			Username:     r.Form.Get("username"),
			Password:     r.Form.Get("password"),
			Scope:        r.Form.Get("scope"),
		}, true

	default:
		oidcsdk.ErrInvalidContentType.WriteError(w)
		return tokenRequest{}, false
	}
}

func (h *TokenHandler) handleAuthorizationCodeGrant(w http.ResponseWriter, r *http.Request, req tokenRequest) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	code := strings.TrimSpace(req.Code)
	redirectURI := strings.TrimSpace(req.RedirectURI)
	clientID := strings.TrimSpace(req.ClientID)

	if code == "" || redirectURI == "" || clientID == "" {
		oidcsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.ExchangeAuthorizationCode(ctx, clientID, req.ClientSecret, code, redirectURI)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidClient):
			oidcsdk.ErrInvalidClient.WriteError(w)
		case errors.Is(err, service.ErrInvalidGrant):
			oidcsdk.ErrInvalidGrant.WriteError(w)
		case errors.Is(err, service.ErrUpstreamUnavailable):
			oidcsdk.ErrUpstreamError.WriteError(w)
		default:
			log.Error("authorization_code grant failed", "err", err)
			oidcsdk.ErrServerError.WriteError(w)
		}
		return
	}

	writeTokenResponse(w, pair)
}

func (h *TokenHandler) handlePasswordGrant(w http.ResponseWriter, r *http.Request, req tokenRequest) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username := strings.TrimSpace(req.Username)
	clientID := strings.TrimSpace(req.ClientID)

	if username == "" || req.Password == "" || clientID == "" {
		oidcsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.ExchangePassword(ctx, clientID, req.ClientSecret, username, req.Password, req.Scope)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidClient):
			oidcsdk.ErrInvalidClient.WriteError(w)
		case errors.Is(err, service.ErrInvalidGrant):
			oidcsdk.ErrInvalidGrant.WriteError(w)
		case errors.Is(err, service.ErrUpstreamUnavailable):
			oidcsdk.ErrUpstreamError.WriteError(w)
		default:
			log.Error("password grant failed", "err", err)
			oidcsdk.ErrServerError.WriteError(w)
		}
		return
	}

	writeTokenResponse(w, pair)
}

func writeTokenResponse(w http.ResponseWriter, pair *domain.TokenPair) {
	response := oidcsdk.TokenResponse{
		AccessToken: pair.AccessToken,
		IDToken:     pair.IDToken,
		TokenType:   pair.TokenType,
		ExpiresIn:   int(pair.ExpiresIn.Seconds()),
		Scope:       strings.TrimSpace(pair.Scope),
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, response)
}
