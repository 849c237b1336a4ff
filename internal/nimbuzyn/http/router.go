// Package http is the delivery surface the mobile UI binds to. Handlers
// parse requests, call the domain services and render their results; no
// business rule lives here.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/service"
	"github.com/nimbuzyn/nimbuzyn/pkg/httpx"
	"github.com/nimbuzyn/nimbuzyn/pkg/slogx"
)

// Router holds shared dependencies for the HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	Users     *service.UserService
	Sessions  *service.SessionService
	MFA       *service.MFAService
	Contacts  *service.ContactService
	Messages  *service.MessageService
	Inventory *service.InventoryService
	Settings  *service.SettingsService

	ping func(r *http.Request) error // database health probe for readyz
}

func NewRouter(buildVersion string, logger *slog.Logger, ping func(r *http.Request) error) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		ping:         ping,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ApplyRoutes registers every endpoint. Call after the services are wired.
func (r *Router) ApplyRoutes() {
	auth := r.sessionMiddleware()

	// Unauthenticated, strictly rate limited: these are the brute-force
	// surface.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(r.handleRegister), httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(r.handleLogin), httpx.RateLimitByIP(httpx.StrictLimit)))

	// Account
	r.Mux.Handle("GET /v1/me", auth(http.HandlerFunc(r.handleGetMe)))
	r.Mux.Handle("PATCH /v1/me", auth(http.HandlerFunc(r.handlePatchMe)))
	r.Mux.Handle("POST /v1/me/password", auth(http.HandlerFunc(r.handleChangePassword)))
	r.Mux.Handle("GET /v1/me/settings", auth(http.HandlerFunc(r.handleGetSettings)))
	r.Mux.Handle("PUT /v1/me/settings", auth(http.HandlerFunc(r.handlePutSettings)))
	r.Mux.Handle("POST /v1/me/mfa", auth(http.HandlerFunc(r.handleBeginMFA)))
	r.Mux.Handle("POST /v1/me/mfa/confirm", auth(http.HandlerFunc(r.handleConfirmMFA)))
	r.Mux.Handle("DELETE /v1/me/mfa", auth(http.HandlerFunc(r.handleDisableMFA)))

	// Contacts
	r.Mux.Handle("GET /v1/contacts", auth(http.HandlerFunc(r.handleListContacts)))
	r.Mux.Handle("POST /v1/contacts", auth(http.HandlerFunc(r.handleAddContact)))
	r.Mux.Handle("PATCH /v1/contacts/{contactID}", auth(http.HandlerFunc(r.handlePatchContact)))
	r.Mux.Handle("DELETE /v1/contacts/{contactID}", auth(http.HandlerFunc(r.handleRemoveContact)))

	// Messaging
	r.Mux.Handle("GET /v1/conversations", auth(http.HandlerFunc(r.handleListConversations)))
	r.Mux.Handle("GET /v1/messages/{userID}", auth(http.HandlerFunc(r.handleHistory)))
	r.Mux.Handle("POST /v1/messages/{userID}", auth(http.HandlerFunc(r.handleSend)))
	r.Mux.Handle("POST /v1/messages/{userID}/read", auth(http.HandlerFunc(r.handleMarkRead)))

	// Inventory
	r.Mux.Handle("GET /v1/products", auth(http.HandlerFunc(r.handleListProducts)))
	r.Mux.Handle("POST /v1/products", auth(http.HandlerFunc(r.handleCreateProduct)))
	r.Mux.Handle("GET /v1/products/summary", auth(http.HandlerFunc(r.handleInventorySummary)))
	r.Mux.Handle("PATCH /v1/products/{productID}", auth(http.HandlerFunc(r.handleUpdateProduct)))
	r.Mux.Handle("DELETE /v1/products/{productID}", auth(http.HandlerFunc(r.handleDeleteProduct)))

	// System
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.ping))
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}
