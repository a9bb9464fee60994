package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/libelulasoft/agil-idp/internal/idp/service"
	"github.com/libelulasoft/agil-idp/internal/idp/store"
	"github.com/libelulasoft/agil-idp/pkg/httpx"
	"github.com/libelulasoft/agil-idp/pkg/jwtx"
	"github.com/libelulasoft/agil-idp/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	issuer       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	codes  *store.CodeStore
	tokens *store.TokenStore

	TokenService     *service.TokenService
	AuthorizeService *service.AuthorizeService
	UserInfoService  *service.UserInfoService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	issuer, buildVersion string,
	codes *store.CodeStore,
	tokens *store.TokenStore,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		issuer:       issuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		codes:        codes,
		tokens:       tokens,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOAuth2()
	r.registerWellKnown()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOAuth2() {
	authorizeHandler := &AuthorizeHandler{
		AuthorizeService: r.AuthorizeService,
		Logger:           r.logger,
	}

	// GET /authorize - lenient rate limit (mostly just displays the login form)
	r.Mux.Handle("GET /authorize",
		httpx.Chain(http.HandlerFunc(authorizeHandler.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /authorize - strict rate limit keyed by IP + email (login attempts)
	r.Mux.Handle("POST /authorize",
		httpx.Chain(http.HandlerFunc(authorizeHandler.HandlePost),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email"),
		),
	)

	// POST /token - strict rate limit (carries client and user credentials)
	tokenHandler := &TokenHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET/POST /userinfo - bearer token required, openid scope enforced
	userInfoHandler := &UserInfoHandler{UserInfoService: r.UserInfoService}
	userInfoChain := httpx.Chain(userInfoHandler,
		httpx.RateLimitByIP(httpx.ModerateLimit),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope("openid"),
	)
	r.Mux.Handle("GET /userinfo", userInfoChain)
	r.Mux.Handle("POST /userinfo", userInfoChain)
}

func (r *Router) registerWellKnown() {
	jwks := httpx.Chain(JWKSHandler(r.keys),
		httpx.RateLimitByIP(httpx.PublicLimit),
	)
	r.Mux.Handle("GET /jwks", jwks)
	r.Mux.Handle("GET /.well-known/jwks.json", jwks)

	r.Mux.Handle("GET /.well-known/openid-configuration",
		httpx.Chain(DiscoveryHandler(r.issuer),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.codes, r.tokens, r.keys))
}
