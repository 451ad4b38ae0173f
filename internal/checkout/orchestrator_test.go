package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"storefront-bff/internal/domain"
)

func floatPtr(v float64) *float64 {
	return &v
}

type stubCarts struct {
	current    domain.Cart
	hasCurrent bool
	fresh      domain.Cart
	resetErr   error
	resets     int
}

func (s *stubCarts) Current(string) (domain.Cart, bool) {
	return s.current, s.hasCurrent
}

func (s *stubCarts) Reset(context.Context, string) (domain.Cart, error) {
	s.resets++
	if s.resetErr != nil {
		return domain.Cart{}, s.resetErr
	}
	return s.fresh, nil
}

type stubOrders struct {
	message   string
	err       error
	calls     int
	lastOrder domain.Order
}

func (s *stubOrders) CreateOrder(_ context.Context, order domain.Order) (string, error) {
	s.calls++
	s.lastOrder = order
	return s.message, s.err
}

type stubProcessor struct {
	id    string
	err   error
	calls int
}

func (s *stubProcessor) CreatePaymentMethod(context.Context, domain.Card) (string, error) {
	s.calls++
	return s.id, s.err
}

func oneItemCart(key string) domain.Cart {
	return domain.Cart{
		Key:     key,
		Items:   []domain.CartItem{{Key: "line-1", LineTotal: floatPtr(25.00)}},
		Total:   25.00,
		Version: 2,
	}
}

type fixture struct {
	orch      *Orchestrator
	carts     *stubCarts
	orders    *stubOrders
	processor *stubProcessor
	scheduled []time.Duration
}

func newFixture() *fixture {
	f := &fixture{
		carts: &stubCarts{
			current:    oneItemCart("old-key"),
			hasCurrent: true,
			fresh:      domain.Cart{Key: "new-key", Items: []domain.CartItem{}, Version: 1},
		},
		orders:    &stubOrders{message: "Success"},
		processor: &stubProcessor{id: "pm_123"},
	}
	f.orch = New(f.carts, f.orders, f.processor, log.New(io.Discard, "", 0))
	f.orch.afterFunc = func(d time.Duration, fn func()) {
		f.scheduled = append(f.scheduled, d)
	}
	return f
}

func submission() Submission {
	return Submission{
		Customer:     domain.Customer{FirstName: "Ada", Email: "ada@example.com"},
		Card:         domain.Card{Number: "4242424242424242"},
		PaymentReady: true,
	}
}

func TestSubmitSuccess(t *testing.T) {
	f := newFixture()

	out := f.orch.Submit(context.Background(), "sess", submission())

	if out.State != StateSuccess {
		t.Fatalf("state = %s, want success", out.State)
	}
	if out.Message != "Thank you for your order. Check your email for details!" {
		t.Fatalf("unexpected message %q", out.Message)
	}
	if out.RedirectTo != "/" || out.RedirectAfter != 5*time.Second {
		t.Fatalf("unexpected redirect %q after %v", out.RedirectTo, out.RedirectAfter)
	}
	if len(f.scheduled) != 1 || f.scheduled[0] != 5*time.Second {
		t.Fatalf("redirect not scheduled: %v", f.scheduled)
	}
	if out.Cart.Key != "new-key" || !out.Cart.Empty() {
		t.Fatalf("cart not reset: %+v", out.Cart)
	}
	if f.carts.resets != 1 {
		t.Fatalf("resets = %d, want 1", f.carts.resets)
	}
	if f.orders.lastOrder.Payment != "pm_123" || f.orders.lastOrder.Cart.Key != "old-key" {
		t.Fatalf("unexpected order %+v", f.orders.lastOrder)
	}
	if f.orch.Processing("sess") {
		t.Fatal("processing flag not cleared")
	}
}

func TestSubmitBackendDeclined(t *testing.T) {
	f := newFixture()
	f.orders.message = "Declined"

	out := f.orch.Submit(context.Background(), "sess", submission())

	if out.State != StateFailed {
		t.Fatalf("state = %s, want failed", out.State)
	}
	if out.Message != "Sorry something went wrong. Please try again later..." {
		t.Fatalf("unexpected message %q", out.Message)
	}
	if out.RedirectTo != "" || len(f.scheduled) != 0 {
		t.Fatal("no redirect may be scheduled on failure")
	}
	if f.carts.resets != 1 || out.Cart.Key != "new-key" {
		t.Fatalf("cart must still be reset: resets=%d cart=%+v", f.carts.resets, out.Cart)
	}
	if f.orch.Processing("sess") {
		t.Fatal("processing flag not cleared")
	}
}

func TestSubmitPaymentNotReady(t *testing.T) {
	f := newFixture()
	sub := submission()
	sub.PaymentReady = false

	out := f.orch.Submit(context.Background(), "sess", sub)

	if out.State != StateIdle {
		t.Fatalf("state = %s, want idle", out.State)
	}
	if !out.FocusPayment {
		t.Fatal("payment input must receive focus")
	}
	if f.orders.calls != 0 || f.processor.calls != 0 {
		t.Fatal("no processor or order call may happen before readiness")
	}
	if f.carts.resets != 0 {
		t.Fatal("cart must not be reset on an aborted transition")
	}
}

func TestSubmitEmptyCartIsSilentNoop(t *testing.T) {
	f := newFixture()
	f.carts.current = domain.Cart{Key: "k", Items: []domain.CartItem{}}

	out := f.orch.Submit(context.Background(), "sess", submission())

	if out.State != StateIdle || out.Message != "" || out.FocusPayment {
		t.Fatalf("expected silent no-op, got %+v", out)
	}
	if f.orders.calls != 0 || f.processor.calls != 0 || f.carts.resets != 0 {
		t.Fatal("no network activity allowed for an empty cart")
	}
}

func TestSubmitNoCartHeldIsSilentNoop(t *testing.T) {
	f := newFixture()
	f.carts.hasCurrent = false

	out := f.orch.Submit(context.Background(), "sess", submission())
	if out.State != StateIdle || f.orders.calls != 0 {
		t.Fatalf("expected silent no-op, got %+v", out)
	}
}

func TestSubmitProcessorFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*fixture)
	}{
		{"nil processor", func(f *fixture) { f.orch.processor = nil }},
		{"processor error", func(f *fixture) { f.processor.err = errors.New("card declined") }},
		{"no payment method id", func(f *fixture) { f.processor.id = "" }},
		{"order transport error", func(f *fixture) { f.orders.err = errors.New("conn reset") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			tc.mutate(f)

			out := f.orch.Submit(context.Background(), "sess", submission())

			// Every failure mode collapses into the one generic outcome.
			if out.State != StateFailed {
				t.Fatalf("state = %s, want failed", out.State)
			}
			if out.Message != "Sorry something went wrong. Please try again later..." {
				t.Fatalf("unexpected message %q", out.Message)
			}
			if f.carts.resets != 1 {
				t.Fatalf("cart resets = %d, want 1", f.carts.resets)
			}
			if f.orch.Processing("sess") {
				t.Fatal("processing flag not cleared")
			}
			if len(f.scheduled) != 0 {
				t.Fatal("no redirect on failure")
			}
		})
	}
}

func TestSubmitWhileProcessingIsRejected(t *testing.T) {
	f := newFixture()
	f.orch.mu.Lock()
	f.orch.processing["sess"] = true
	f.orch.mu.Unlock()

	out := f.orch.Submit(context.Background(), "sess", submission())
	if out.State != StateProcessing {
		t.Fatalf("state = %s, want processing", out.State)
	}
	if f.processor.calls != 0 || f.orders.calls != 0 {
		t.Fatal("a second attempt must not start while one is in flight")
	}
}

func TestSubmitResetFailureStillClearsProcessing(t *testing.T) {
	f := newFixture()
	f.carts.resetErr = errors.New("backend down")

	out := f.orch.Submit(context.Background(), "sess", submission())

	// Success message from the backend still counts; the shopper is
	// never stuck in processing even when re-init fails.
	if out.State != StateSuccess {
		t.Fatalf("state = %s, want success", out.State)
	}
	if f.orch.Processing("sess") {
		t.Fatal("processing flag not cleared")
	}
	if !out.Cart.Empty() {
		t.Fatalf("expected zero cart after failed reset, got %+v", out.Cart)
	}
}
