// Package methods implements the payment methods of the settlement layer.
// A method owns the settlement logic for one kind of payment evidence: an
// on-chain transaction, a payment-channel token or a signed transfer. All
// three satisfy the same closed contract; the dispatcher in the root
// package picks one per request.
package methods

import (
	"context"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/picopay/bitserv/types"
)

// Method is the settlement contract every payment method satisfies.
type Method interface {
	// Name identifies the method in logs and metrics.
	Name() string

	// PaymentHeaders lists the request headers a client must present for
	// this method to apply.
	PaymentHeaders() []string

	// Selects reports whether every required header is present. It never
	// inspects values and has no side effects.
	Selects(h http.Header) bool

	// PaymentRequiredHeaders builds the response headers telling a client
	// how to construct valid evidence at the given price. No I/O.
	PaymentRequiredHeaders(price types.Price, adv types.Advertisement) map[string]string

	// Redeem validates the evidence in h against price and settles it.
	// The same advertisement that shaped the payment-required headers is
	// passed back in, so per-request overrides stay redeemable. Redeem may
	// call out to collaborators and is safe to invoke concurrently; for
	// evidence sharing one identifier at most one call succeeds.
	Redeem(ctx context.Context, price types.Price, h http.Header, adv types.Advertisement) error
}

func hasHeaders(h http.Header, names []string) bool {
	for _, name := range names {
		if _, ok := h[textproto.CanonicalMIMEHeaderKey(name)]; !ok {
			return false
		}
	}
	return true
}

func formatPrice(price types.Price) string {
	return strconv.FormatInt(int64(price), 10)
}
