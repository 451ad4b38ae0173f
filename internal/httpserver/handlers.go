package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-bff/internal/auth"
	"storefront-bff/internal/checkout"
	"storefront-bff/internal/domain"
	"storefront-bff/internal/session"
)

const (
	// cartCookie scopes the in-memory cart to one browser session.
	cartCookie = "storefront_cart"
	// sessionCookie holds the auth provider's session token.
	sessionCookie = "session_token"

	cookieMaxAge = 60 * 60 * 24 * 7
)

// cartSessionID returns the caller's cart-session id, minting and
// setting a cookie on first contact.
func cartSessionID(c *gin.Context) string {
	if id, err := c.Cookie(cartCookie); err == nil && id != "" {
		return id
	}
	id := session.NewToken()
	c.SetCookie(cartCookie, id, cookieMaxAge, "/", "", false, true)
	return id
}

func catalogHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.Home(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "catalog unavailable"})
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func cartInitHandler(carts CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		fresh, err := carts.Reset(c.Request.Context(), cartSessionID(c))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "cart unavailable"})
			return
		}
		c.JSON(http.StatusOK, fresh)
	}
}

func cartHandler(carts CartManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, err := carts.Refresh(c.Request.Context(), cartSessionID(c))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "cart unavailable"})
			return
		}
		c.JSON(http.StatusOK, current)
	}
}

// orderCreateHandler proxies an order payload straight to the backend
// and relays its message verbatim.
func orderCreateHandler(backend Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order domain.Order
		if err := c.ShouldBindJSON(&order); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order payload"})
			return
		}
		message, err := backend.CreateOrder(c.Request.Context(), order)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "Error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": message})
	}
}

type checkoutRequest struct {
	Customer     domain.Customer `json:"customer"`
	Card         domain.Card     `json:"card"`
	PaymentReady bool            `json:"paymentReady"`
}

type checkoutResponse struct {
	State                string      `json:"state"`
	Message              string      `json:"message,omitempty"`
	FocusPayment         bool        `json:"focusPayment,omitempty"`
	RedirectTo           string      `json:"redirectTo,omitempty"`
	RedirectAfterSeconds int         `json:"redirectAfterSeconds,omitempty"`
	Cart                 domain.Cart `json:"cart"`
}

func checkoutHandler(co Checkout) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid checkout payload"})
			return
		}
		out := co.Submit(c.Request.Context(), cartSessionID(c), checkout.Submission{
			Customer:     req.Customer,
			Card:         req.Card,
			PaymentReady: req.PaymentReady,
		})
		c.JSON(http.StatusOK, checkoutResponse{
			State:                string(out.State),
			Message:              out.Message,
			FocusPayment:         out.FocusPayment,
			RedirectTo:           out.RedirectTo,
			RedirectAfterSeconds: int(out.RedirectAfter.Seconds()),
			Cart:                 out.Cart,
		})
	}
}

// customerRetrieveHandler serves the account dashboard: the session's
// embedded credential is verified fail-closed, then the backend's
// customer record is passed through.
func customerRetrieveHandler(verifier Verifier, sessions session.Store, backend Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(sessionCookie)
		lookup := func(ctx context.Context) (*domain.Session, error) {
			if token == "" {
				return nil, nil
			}
			return sessions.Lookup(ctx, token)
		}

		claims := verifier.VerifyUserCredential(c.Request.Context(), auth.SessionLookup(lookup))
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		res, err := backend.Fetch(c.Request.Context(), "/wp-json/wc/v3/customers/"+claims.Data.User.ID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "customer unavailable"})
			return
		}
		defer res.Body.Close()
		c.DataFromReader(res.StatusCode, res.ContentLength, "application/json", res.Body, nil)
	}
}
