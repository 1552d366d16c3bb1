package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

// access says who may call a route.
type access int

const (
	public access = iota
	signedIn
	adminOnly
	// setupOrAdmin is open while no backend url is configured, admin only after.
	setupOrAdmin
)

// Route is one row of the capability table.
type Route struct {
	Method  string
	Pattern string
	Access  access
	Handler http.HandlerFunc
}

func (r Route) roles() []domain.Role {
	if r.Access == adminOnly || r.Access == setupOrAdmin {
		return []domain.Role{domain.RoleAdmin}
	}
	return nil
}

type Handlers struct {
	Auth       *AuthHandler
	Config     *ConfigHandler
	Dashboard  *DashboardHandler
	Orders     *OrderHandler
	Payments   *PaymentHandler
	Validation *ValidationHandler
	Reports    *ReportHandler
	Nota       *NotaHandler
}

func health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Routes is the capability table of the portal.
func Routes(h Handlers) []Route {
	return []Route{
		{http.MethodGet, "/health", public, health},
		{http.MethodGet, "/metrics", public, promhttp.Handler().ServeHTTP},

		{http.MethodGet, "/api/v1/config", public, h.Config.Get},
		{http.MethodPut, "/api/v1/config", setupOrAdmin, h.Config.Put},

		{http.MethodPost, "/api/v1/auth/login", public, h.Auth.Login},
		{http.MethodPost, "/api/v1/auth/logout", signedIn, h.Auth.Logout},
		{http.MethodGet, "/api/v1/auth/me", signedIn, h.Auth.Me},
		{http.MethodPost, "/api/v1/session/activity", signedIn, h.Auth.Activity},

		{http.MethodGet, "/api/v1/master-data", signedIn, h.Dashboard.MasterData},
		{http.MethodGet, "/api/v1/dashboard", signedIn, h.Dashboard.Dashboard},

		{http.MethodGet, "/api/v1/orders/wizard", signedIn, h.Orders.Get},
		{http.MethodDelete, "/api/v1/orders/wizard", signedIn, h.Orders.Reset},
		{http.MethodPost, "/api/v1/orders/wizard/school", signedIn, h.Orders.SetSchool},
		{http.MethodPost, "/api/v1/orders/wizard/step", signedIn, h.Orders.Step},
		{http.MethodGet, "/api/v1/orders/wizard/books", signedIn, h.Orders.Books},
		{http.MethodPost, "/api/v1/orders/wizard/cart", signedIn, h.Orders.AddToCart},
		{http.MethodPatch, "/api/v1/orders/wizard/cart", signedIn, h.Orders.UpdateCart},
		{http.MethodDelete, "/api/v1/orders/wizard/cart", signedIn, h.Orders.RemoveFromCart},
		{http.MethodGet, "/api/v1/orders/wizard/review", signedIn, h.Orders.Review},
		{http.MethodPost, "/api/v1/orders/wizard/submit", signedIn, h.Orders.Submit},

		{http.MethodGet, "/api/v1/payments/search", signedIn, h.Payments.Search},
		{http.MethodPost, "/api/v1/payments/select", signedIn, h.Payments.Select},
		{http.MethodPost, "/api/v1/payments/preview", signedIn, h.Payments.Preview},
		{http.MethodGet, "/api/v1/payments/options", signedIn, h.Payments.Options},
		{http.MethodPost, "/api/v1/payments", signedIn, h.Payments.Submit},

		{http.MethodGet, "/api/v1/validations", adminOnly, h.Validation.List},
		{http.MethodGet, "/api/v1/validations/{id}", adminOnly, h.Validation.Detail},
		{http.MethodGet, "/api/v1/validations/{id}/proof-thumbnail", adminOnly, h.Validation.Thumbnail},
		{http.MethodPost, "/api/v1/validations/{id}/verify", adminOnly, h.Validation.Verify},
		{http.MethodPost, "/api/v1/validations/{id}/reject", adminOnly, h.Validation.Reject},

		{http.MethodGet, "/api/v1/reports", signedIn, h.Reports.List},
		{http.MethodGet, "/api/v1/reports/export/{format}", signedIn, h.Reports.Export},
		{http.MethodGet, "/api/v1/reports/print", signedIn, h.Reports.Print},

		{http.MethodGet, "/api/v1/nota/recent", signedIn, h.Nota.Recent},
		{http.MethodGet, "/api/v1/nota/{notaNo}", signedIn, h.Nota.Get},
		{http.MethodGet, "/api/v1/nota/{notaNo}/pdf", signedIn, h.Nota.PDF},
		{http.MethodGet, "/api/v1/nota/{notaNo}/share", signedIn, h.Nota.Share},
	}
}

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	Sessions           SessionChecker
	Tokens             TokenParser
	Endpoints          EndpointChecker
}

// NewRouter mounts every route of the table behind the global middleware.
// Signed-in routes get the session guard, admin routes also the role gate.
// Setup routes skip both until a backend url exists.
func NewRouter(cfg RouterConfig, routes []Route) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Logger)
	r.Use(Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(otelhttp.NewMiddleware("portal"))
	r.Use(middleware.RequestSize(cfg.MaxRequestBodySize))

	guard := SessionMiddleware(cfg.Sessions, cfg.Tokens)
	for _, rt := range routes {
		var handler http.Handler = rt.Handler
		if roles := rt.roles(); roles != nil {
			handler = RequireRole(roles...)(handler)
		}
		switch rt.Access {
		case signedIn, adminOnly:
			handler = guard(handler)
		case setupOrAdmin:
			handler = FirstRunOrGuarded(cfg.Endpoints, rt.Handler, guard(handler))
		}
		r.Method(rt.Method, rt.Pattern, handler)
	}
	return r
}
