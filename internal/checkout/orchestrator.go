// Package checkout drives the submit → pay → order → reset sequence.
package checkout

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"storefront-bff/internal/domain"
	"storefront-bff/internal/gateway"
)

// State of a session's checkout flow.
type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

const (
	msgThankYou = "Thank you for your order. Check your email for details!"
	msgTryAgain = "Sorry something went wrong. Please try again later..."

	redirectTarget = "/"
	redirectDelay  = 5 * time.Second
)

var (
	// ErrProcessorNotInitialized: no payment processor is wired.
	ErrProcessorNotInitialized = errors.New("payment processor not initialized")
	// ErrProcessorUnreachable: the processor returned no payment-method id.
	ErrProcessorUnreachable = errors.New("payment processor unreachable")
)

// Processor yields a payment-method identifier for a card. It is an
// opaque capability; the orchestrator only distinguishes "absent" and
// "returned nothing".
type Processor interface {
	CreatePaymentMethod(ctx context.Context, card domain.Card) (string, error)
}

// Carts is the slice of the cart manager the orchestrator needs.
type Carts interface {
	Current(sessionID string) (domain.Cart, bool)
	Reset(ctx context.Context, sessionID string) (domain.Cart, error)
}

// Orders submits the order payload to the commerce backend.
type Orders interface {
	CreateOrder(ctx context.Context, order domain.Order) (string, error)
}

// Submission is one checkout attempt as reported by the form layer.
// PaymentReady mirrors the payment UI's readiness signal.
type Submission struct {
	Customer     domain.Customer
	Card         domain.Card
	PaymentReady bool
}

// Outcome is what the presentation layer renders after a submission.
type Outcome struct {
	State         State
	Message       string
	FocusPayment  bool
	RedirectTo    string
	RedirectAfter time.Duration
	Cart          domain.Cart
}

// Orchestrator runs at most one checkout attempt per session at a
// time. There is no cancellation: once processing starts the attempt
// runs to a terminal outcome.
type Orchestrator struct {
	carts     Carts
	orders    Orders
	processor Processor
	logger    *log.Logger

	// afterFunc schedules the post-success redirect retirement; tests
	// substitute it. The timer is never cancelled.
	afterFunc func(d time.Duration, f func())

	mu         sync.Mutex
	processing map[string]bool
}

func New(carts Carts, orders Orders, processor Processor, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		carts:      carts,
		orders:     orders,
		processor:  processor,
		logger:     logger,
		afterFunc:  func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		processing: make(map[string]bool),
	}
}

// Submit drives one checkout attempt for the session.
//
// Guards, checked before any transition: an empty (or absent) cart is
// a silent no-op; a not-ready payment UI aborts with a focus hint. A
// session already processing is left alone. Once processing, every
// failure mode (uninitialized processor, no payment-method id, backend
// rejection, transport error) collapses into the single Failed
// outcome, and the cart is reset regardless of how the attempt ended.
func (o *Orchestrator) Submit(ctx context.Context, sessionID string, sub Submission) Outcome {
	current, ok := o.carts.Current(sessionID)
	if !ok || current.Empty() {
		return Outcome{State: StateIdle, Cart: current}
	}
	if !sub.PaymentReady {
		return Outcome{State: StateIdle, FocusPayment: true, Cart: current}
	}

	o.mu.Lock()
	if o.processing[sessionID] {
		o.mu.Unlock()
		return Outcome{State: StateProcessing, Cart: current}
	}
	o.processing[sessionID] = true
	o.mu.Unlock()

	message, err := o.attempt(ctx, current, sub)

	// The cart is reset and the processing flag cleared on every path,
	// success or failure: the shopper must never be left holding a
	// consumed cart session.
	fresh, resetErr := o.carts.Reset(ctx, sessionID)
	if resetErr != nil {
		o.logger.Printf("checkout: cart reset failed: %v", resetErr)
	}
	o.mu.Lock()
	delete(o.processing, sessionID)
	o.mu.Unlock()

	if err != nil || message != gateway.MessageSuccess {
		if err != nil {
			o.logger.Printf("checkout: attempt failed: %v", err)
		} else {
			o.logger.Printf("checkout: backend rejected order: message=%q", message)
		}
		return Outcome{State: StateFailed, Message: msgTryAgain, Cart: fresh}
	}

	o.afterFunc(redirectDelay, func() {
		o.logger.Printf("checkout: session %s redirected home", sessionID)
	})
	return Outcome{
		State:         StateSuccess,
		Message:       msgThankYou,
		RedirectTo:    redirectTarget,
		RedirectAfter: redirectDelay,
		Cart:          fresh,
	}
}

func (o *Orchestrator) attempt(ctx context.Context, current domain.Cart, sub Submission) (string, error) {
	if o.processor == nil {
		return "", ErrProcessorNotInitialized
	}
	paymentID, err := o.processor.CreatePaymentMethod(ctx, sub.Card)
	if err != nil {
		return "", err
	}
	if paymentID == "" {
		return "", ErrProcessorUnreachable
	}
	return o.orders.CreateOrder(ctx, domain.Order{
		Customer: sub.Customer,
		Payment:  paymentID,
		Cart:     current,
	})
}

// Processing reports whether the session has an attempt in flight.
func (o *Orchestrator) Processing(sessionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.processing[sessionID]
}
