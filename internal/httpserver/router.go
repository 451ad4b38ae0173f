package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-bff/internal/auth"
	"storefront-bff/internal/catalog"
	"storefront-bff/internal/checkout"
	"storefront-bff/internal/domain"
	"storefront-bff/internal/session"
)

// CatalogService serves home-page catalog data.
type CatalogService interface {
	Home(ctx context.Context) (catalog.HomePage, error)
}

// CartManager is the session-scoped cart surface the handlers need.
type CartManager interface {
	Refresh(ctx context.Context, sessionID string) (domain.Cart, error)
	Reset(ctx context.Context, sessionID string) (domain.Cart, error)
}

// Checkout drives a checkout attempt.
type Checkout interface {
	Submit(ctx context.Context, sessionID string, sub checkout.Submission) checkout.Outcome
}

// Backend is the slice of the commerce gateway the handlers use
// directly (order proxy and customer passthrough).
type Backend interface {
	CreateOrder(ctx context.Context, order domain.Order) (string, error)
	Fetch(ctx context.Context, path string) (*http.Response, error)
}

// Verifier checks the user credential embedded in a session.
type Verifier interface {
	VerifyUserCredential(ctx context.Context, lookup auth.SessionLookup) *auth.Claims
}

// Deps carries the handler dependencies.
type Deps struct {
	Catalog  CatalogService
	Carts    CartManager
	Checkout Checkout
	Backend  Backend
	Verifier Verifier
	Sessions session.Store
}

func (d Deps) validate() error {
	if d.Catalog == nil || d.Carts == nil || d.Checkout == nil || d.Backend == nil || d.Verifier == nil || d.Sessions == nil {
		return errors.New("httpserver: incomplete dependencies")
	}
	return nil
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, allowedOrigins []string) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowedOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	api.GET("/catalog", catalogHandler(deps.Catalog))
	api.POST("/cart/init", cartInitHandler(deps.Carts))
	api.GET("/cart", cartHandler(deps.Carts))
	api.POST("/orders/create", orderCreateHandler(deps.Backend))
	api.POST("/checkout", checkoutHandler(deps.Checkout))
	api.GET("/customers/retrieve", customerRetrieveHandler(deps.Verifier, deps.Sessions, deps.Backend))

	return router, nil
}
