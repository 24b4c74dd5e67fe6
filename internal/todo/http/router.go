package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tasknest/tasknest/internal/todo/service"
	"github.com/tasknest/tasknest/internal/todo/store"
	"github.com/tasknest/tasknest/pkg/httpx"
	"github.com/tasknest/tasknest/pkg/slogx"

	_ "github.com/tasknest/tasknest/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
	UserService *service.UserService
	TodoService *service.TodoService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTodos()
	r.registerSystem()

	r.Mux.Handle("/swagger/",
		httpx.Chain(httpSwagger.Handler(),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			TaskNest API
//	@version		0.1.0
//	@description	Multi-tenant todo service with JWT bearer authentication. Accounts
//	@description	sign up with an email and password, exchange credentials for an
//	@description	HS256-signed access token, and manage their own todos. Every todo
//	@description	operation is scoped to the token's subject.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /auth/signup - strict rate limit by IP (public account creation)
	signupHandler := &SignupHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /auth/signup",
		httpx.Chain(signupHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/signin - strict rate limit by IP (authentication attempts).
	// The per-address lockout inside the service blocks sustained guessing
	// for the full window; this limit caps raw request volume per source.
	signinHandler := &SigninHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /auth/signin",
		httpx.Chain(signinHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	verifier := r.AuthService.Tokens

	// POST /auth/signout - moderate rate limit by user
	signoutHandler := &SignoutHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /auth/signout",
		httpx.Chain(signoutHandler,
			httpx.Authn(verifier),
			httpx.RequireUser(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /auth/me - lenient rate limit by user
	meHandler := &MeHandler{UserService: r.UserService}
	r.Mux.Handle("GET /auth/me",
		httpx.Chain(meHandler,
			httpx.Authn(verifier),
			httpx.RequireUser(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerTodos() {
	h := &TodosHandler{TodoService: r.TodoService}
	verifier := r.AuthService.Tokens

	secured := func(handler http.HandlerFunc) http.Handler {
		return httpx.Chain(handler,
			httpx.Authn(verifier),
			httpx.RequireUser(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("POST /api/v1/todos", secured(h.HandleCreate))
	r.Mux.Handle("GET /api/v1/todos", secured(h.HandleList))
	r.Mux.Handle("GET /api/v1/todos/{id}", secured(h.HandleGet))
	r.Mux.Handle("PUT /api/v1/todos/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("PATCH /api/v1/todos/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/v1/todos/{id}", secured(h.HandleDelete))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
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
