// Package http is the transport layer: it owns token verification,
// request decoding, rate limits and the mapping from service errors to
// response statuses. The services beneath it never see a *http.Request.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/openfieldlab/fieldlab/internal/service"
	"github.com/openfieldlab/fieldlab/internal/store"
	"github.com/openfieldlab/fieldlab/pkg/httpx"
	"github.com/openfieldlab/fieldlab/pkg/jwtx"
	"github.com/openfieldlab/fieldlab/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	UserService   *service.UserService
	ObjectService *service.ObjectService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerObjects()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware
// chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &LoginHandler{UserService: r.UserService}

	// Credential endpoint, strict limit by IP to slow brute force.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	securedUpdate := httpx.Chain(http.HandlerFunc(h.HandleUpdate),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByIdentity(httpx.ModerateLimit),
	)

	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByIdentity(httpx.LenientLimit),
	)

	// Bulk delete is rare and destructive; strictest bucket.
	securedDelete := httpx.Chain(http.HandlerFunc(h.HandleDeleteAll),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByIdentity(httpx.StrictLimit),
	)

	r.Mux.Handle("PUT /v1/users/{email}/{platform}", securedUpdate)
	r.Mux.Handle("GET /v1/users", securedList)
	r.Mux.Handle("DELETE /v1/users", securedDelete)
}

func (r *Router) registerObjects() {
	h := &ObjectsHandler{ObjectService: r.ObjectService}

	secured := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByIdentity(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /v1/objects", secured)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
