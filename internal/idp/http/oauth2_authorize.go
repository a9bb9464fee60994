package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/libelulasoft/agil-idp/internal/idp/service"
	"github.com/libelulasoft/agil-idp/pkg/oidcsdk"
	"github.com/libelulasoft/agil-idp/pkg/slogx"
)

// AuthorizeHandler processes OAuth2 authorization requests (authorization code flow).
// GET renders the login form, POST consumes the submitted credentials.
type AuthorizeHandler struct {
	AuthorizeService *service.AuthorizeService
	Logger           *slog.Logger
}

// HandleGet processes GET requests to the authorization endpoint.
// The request parameters are validated up front so a bad redirect_uri or
// client_id is rejected before any login form is shown.
//
//	@Summary		OAuth2 authorization endpoint (GET)
//	@Description	Validates the authorization request and renders the login form.
//	@Tags			OAuth2
//	@Produce		html
//	@Param			response_type	query		string	true	"Must be 'code'"	default(code)
//	@Param			client_id		query		string	true	"OAuth2 client identifier"
//	@Param			redirect_uri	query		string	true	"Callback URI (must prefix-match an allow-list entry)"
//	@Param			scope			query		string	false	"Space-delimited list of scopes"
//	@Param			state			query		string	false	"Opaque value for CSRF protection (recommended)"
//	@Param			nonce			query		string	false	"OIDC nonce, echoed in the ID token"
//	@Success		200				{string}	string	"Login form"
//	@Failure		400				{object}	oidcsdk.ErrorResponse	"error, error_description"
//	@Router			/authorize [get]
func (h *AuthorizeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if h.AuthorizeService == nil {
		oidcsdk.ErrServerError.WriteError(w)
		return
	}

	req := h.buildAuthorizeRequest(nil, r.URL.Query())
	if err := h.AuthorizeService.ValidateRequest(req); err != nil {
		h.handleAuthorizeError(w, r, req, err)
		return
	}

	renderLoginPage(w, req, "")
}

// HandlePost processes the login form submission. On success the browser is
// redirected to redirect_uri with code and state; a rejected password
// redirects with error=access_denied instead of re-prompting silently.
//
//	@Summary		OAuth2 authorization endpoint (POST)
//	@Description	Authenticates the end user against the external credential authority and
//	@Description	issues a single-use authorization code bound to the request parameters.
//	@Tags			OAuth2
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			response_type	formData	string	true	"Must be 'code'"
//	@Param			client_id		formData	string	true	"OAuth2 client identifier"
//	@Param			redirect_uri	formData	string	true	"Callback URI (must prefix-match an allow-list entry)"
//	@Param			scope			formData	string	false	"Space-delimited list of scopes"
//	@Param			state			formData	string	false	"Opaque value for CSRF protection"
//	@Param			nonce			formData	string	false	"OIDC nonce, echoed in the ID token"
//	@Param			email			formData	string	true	"End user email"
//	@Param			password		formData	string	true	"End user password"
//	@Success		302				{string}	string					"Redirect to redirect_uri with code and state"
//	@Failure		400				{object}	oidcsdk.ErrorResponse	"error, error_description"
//	@Failure		502				{object}	oidcsdk.ErrorResponse	"error, error_description"
//	@Router			/authorize [post]
func (h *AuthorizeHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	if h.AuthorizeService == nil {
		oidcsdk.ErrServerError.WriteError(w)
		return
	}

	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		oidcsdk.ErrInvalidContentType.WriteError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		oidcsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	req := h.buildAuthorizeRequest(r.Form, r.URL.Query())
	req.Email = strings.TrimSpace(r.Form.Get("email"))
	req.Password = r.Form.Get("password")

	resp, err := h.AuthorizeService.IssueCode(r.Context(), req)
	if err != nil {
		h.handleAuthorizeError(w, r, req, err)
		return
	}

	redirectURL, err := buildAuthorizeRedirect(resp.RedirectURI, resp.Code, resp.State)
	if err != nil {
		h.logger().Error("failed to build redirect URL", "error", err)
		oidcsdk.ErrServerError.WriteError(w)
		return
	}

	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// buildAuthorizeRequest merges form fields over query parameters, so a login
// form POST can carry the original request either way.
func (h *AuthorizeHandler) buildAuthorizeRequest(primary, secondary url.Values) service.AuthorizeRequest {
	pick := func(key string) string {
		if primary != nil {
			if v := strings.TrimSpace(primary.Get(key)); v != "" {
				return v
			}
		}
		if secondary != nil {
			return strings.TrimSpace(secondary.Get(key))
		}
		return ""
	}

	return service.AuthorizeRequest{
		ResponseType: pick("response_type"),
		ClientID:     pick("client_id"),
		RedirectURI:  pick("redirect_uri"),
		Scope:        pick("scope"),
		State:        pick("state"),
		Nonce:        pick("nonce"),
	}
}

func (h *AuthorizeHandler) handleAuthorizeError(w http.ResponseWriter, r *http.Request, req service.AuthorizeRequest, err error) {
	logger := h.logger()

	// As per OAuth2 spec (RFC 6749, Section 3.1.2.3), if the 'redirect_uri'
	// parameter is invalid or does not match a registered URI, the client
	// MUST NOT automatically redirect the user-agent to it. The same applies
	// when the client_id itself is unknown.
	switch {
	case errors.Is(err, service.ErrInvalidRedirect):
		oidcsdk.NewOAuth2Error(
			http.StatusBadRequest,
			oidcsdk.ErrorCodeInvalidRequest,
			"the 'redirect_uri' parameter does not match a registered URI for the client",
		).WriteError(w)
		logger.Debug("authorize request rejected: redirect_uri not allowed",
			"client_id", req.ClientID, "redirect_uri", req.RedirectURI)
		return
	case errors.Is(err, service.ErrInvalidRequest):
		oidcsdk.ErrInvalidRequest.WriteError(w)
		logger.Debug("authorize request rejected: invalid request", "client_id", req.ClientID)
		return
	}

	// The redirect_uri was validated before these errors can occur, so the
	// spec-compliant response is an error redirect.
	var errorCode string
	switch {
	case errors.Is(err, service.ErrUnsupportedResponseType):
		errorCode = oidcsdk.ErrorCodeUnsupportedResponseType
	case errors.Is(err, service.ErrInvalidCredentials):
		errorCode = oidcsdk.ErrorCodeAccessDenied
	case errors.Is(err, service.ErrUpstreamUnavailable):
		oidcsdk.ErrUpstreamError.WriteError(w)
		logger.Error("authorize request failed: upstream unavailable")
		return
	default:
		logger.Error("authorize request failed", "error", err)
		oidcsdk.ErrServerError.WriteError(w)
		return
	}

	if redirectURL := buildErrorRedirect(req.RedirectURI, req.State, errorCode); redirectURL != "" {
		logger.Debug("authorize request redirected with error", "error_code", errorCode)
		http.Redirect(w, r, redirectURL, http.StatusFound)
		return
	}

	// Fallback when the redirect URL cannot be built at all.
	oidcsdk.ErrInvalidRequest.WriteError(w)
}

func (h *AuthorizeHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slogx.Discard()
}

// buildAuthorizeRedirect constructs a redirect URL for a successful authorization.
func buildAuthorizeRedirect(baseURI, code, state string) (string, error) {
	u, err := url.Parse(baseURI)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("code", code)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// buildErrorRedirect constructs a redirect URL for an OAuth2 error.
// It returns an empty string if the baseURI is invalid.
func buildErrorRedirect(baseURI, state, errorCode string) string {
	u, err := url.Parse(baseURI)
	if err != nil {
		return ""
	}

	q := u.Query()
	q.Set("error", errorCode)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()

	return u.String()
}
