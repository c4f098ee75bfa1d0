package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tabkeep/authd/internal/auth/service"
	"github.com/tabkeep/authd/internal/auth/store"
	"github.com/tabkeep/authd/pkg/httpx"
	"github.com/tabkeep/authd/pkg/jwtx"
	"github.com/tabkeep/authd/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	AuthService      *service.AuthService
	TwoFactorService *service.TwoFactorService
	UserService      *service.UserService
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
	r.registerTwoFactor()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	r.Mux.Handle("POST /api/auth/signup", http.HandlerFunc(h.HandleSignup))
	r.Mux.Handle("POST /api/auth/login", http.HandlerFunc(h.HandleLogin))

	// Token-guarded profile lookup.
	me := &MeHandler{UserService: r.UserService}
	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(me,
			httpx.AuthnMiddleware(r.verifier),
		),
	)
}

func (r *Router) registerTwoFactor() {
	h := &TwoFactorHandler{TwoFactorService: r.TwoFactorService}

	r.Mux.Handle("POST /api/auth/2fa/setup", http.HandlerFunc(h.HandleSetup))
	r.Mux.Handle("POST /api/auth/2fa/verify", http.HandlerFunc(h.HandleVerify))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
