// Package bitserv implements a pay-per-request settlement layer over the
// HTTP "Payment Required" pattern. A server configures one or more payment
// methods (on-chain transaction, payment-channel token, signed transfer);
// the dispatcher here advertises how to pay and redeems presented evidence
// exactly once per unique payment.
package bitserv

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/picopay/bitserv/logger"
	"github.com/picopay/bitserv/methods"
	"github.com/picopay/bitserv/metrics"
	"github.com/picopay/bitserv/types"
)

// Version of the library.
const Version = "1.0.0"

// Status is the terminal state of one settlement attempt.
type Status string

const (
	// StatusSettled means the selected method redeemed the evidence; the
	// protected resource may be served.
	StatusSettled Status = "settled"

	// StatusAwaitingPayment means no configured method matched the request
	// headers; Result.Headers tells the client how to pay.
	StatusAwaitingPayment Status = "awaiting_payment"
)

// Result reports the outcome of Settle. Method names the settling method
// when Status is StatusSettled; Headers carries the aggregated
// payment-required headers when Status is StatusAwaitingPayment.
type Result struct {
	Status  Status
	Method  string
	Headers map[string]string
}

// Bitserv dispatches settlement requests across the configured payment
// methods. Methods are tried in configuration order; the first whose
// required headers are all present wins. A Bitserv is immutable after New
// and safe for concurrent use.
type Bitserv struct {
	methods []methods.Method
	log     logger.Logger
	metrics metrics.Recorder
}

// New builds a dispatcher from the given options. At least one method must
// be configured before Settle is called.
func New(opts ...Option) *Bitserv {
	b := &Bitserv{
		log:     logger.Noop{},
		metrics: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Select returns the first configured method whose required headers are all
// present in h, or nil when none matches.
func (b *Bitserv) Select(h http.Header) methods.Method {
	for _, m := range b.methods {
		if m.Selects(h) {
			return m
		}
	}
	return nil
}

// PaymentRequiredHeaders aggregates every configured method's advertisement
// into one header set, so a client can pay via any supported method.
func (b *Bitserv) PaymentRequiredHeaders(price types.Price, adv types.Advertisement) map[string]string {
	aggregated := make(map[string]string)
	for _, m := range b.methods {
		for name, value := range m.PaymentRequiredHeaders(price, adv) {
			aggregated[name] = value
		}
	}
	return aggregated
}

// Settle runs one settlement attempt: select a method from the request
// headers, redeem through it, or report how to pay when nothing matched.
// A typed *types.PaymentError is returned when the selected method rejects
// the evidence; the caller translates it at the boundary. Settle never
// retries — a client retry restarts selection from scratch.
func (b *Bitserv) Settle(ctx context.Context, price types.Price, h http.Header, adv types.Advertisement) (Result, error) {
	if price <= 0 {
		return Result{}, fmt.Errorf("price must be positive, got %d", price)
	}
	if len(b.methods) == 0 {
		return Result{}, fmt.Errorf("no payment methods configured")
	}

	method := b.Select(h)
	if method == nil {
		b.metrics.RedemptionProcessed("none", "awaiting_payment")
		b.log.Debugw("no payment evidence presented", "price", int64(price))
		return Result{
			Status:  StatusAwaitingPayment,
			Headers: b.PaymentRequiredHeaders(price, adv),
		}, nil
	}

	start := time.Now()
	err := method.Redeem(ctx, price, h, adv)
	b.metrics.RedeemDuration(method.Name(), time.Since(start))

	if err != nil {
		outcome := types.ErrorCode(err)
		if outcome == "" {
			outcome = "error"
		}
		b.metrics.RedemptionProcessed(method.Name(), outcome)
		b.log.Warnw("payment rejected",
			"method", method.Name(), "price", int64(price), "error", err)
		return Result{}, err
	}

	b.metrics.RedemptionProcessed(method.Name(), "settled")
	b.log.Infow("payment settled", "method", method.Name(), "price", int64(price))
	return Result{Status: StatusSettled, Method: method.Name()}, nil
}
