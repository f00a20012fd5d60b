// Package middleware mounts the settlement layer in front of HTTP handlers.
// The request either carries valid payment evidence and passes through, or
// is answered with 402 Payment Required plus the aggregated headers
// describing every way to pay.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/picopay/bitserv"
	"github.com/picopay/bitserv/types"
)

// Options tunes how the middleware presents the payment flow.
type Options struct {
	// ServerURL is the externally reachable base URL advertised to clients
	// for channel payments. When empty it is derived from the request.
	ServerURL string

	// Address overrides the advertised payout address per mount point.
	Address string
}

type Option func(*Options)

func WithServerURL(u string) Option {
	return func(o *Options) {
		o.ServerURL = u
	}
}

func WithAddress(addr string) Option {
	return func(o *Options) {
		o.Address = addr
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Payment guards next with a price in satoshis. Requests without matching
// evidence get a 402 carrying the payment instructions of every configured
// method; rejected evidence gets a 402 with the typed error; settlement
// infrastructure failures map to 502.
func Payment(b *bitserv.Bitserv, price types.Price, opts ...Option) func(http.Handler) http.Handler {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adv := types.Advertisement{
				ServerURL: options.ServerURL,
				Address:   options.Address,
			}
			if adv.ServerURL == "" {
				adv.ServerURL = requestBaseURL(r)
			}

			result, err := b.Settle(r.Context(), price, r.Header, adv)
			if err != nil {
				writeError(w, err)
				return
			}

			if result.Status == bitserv.StatusAwaitingPayment {
				for name, value := range result.Headers {
					w.Header().Set(name, value)
				}
				writeJSON(w, http.StatusPaymentRequired, errorBody{
					Code:    "PAYMENT_REQUIRED",
					Message: "payment required to access this resource",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	if types.ClientFault(err) {
		status = http.StatusPaymentRequired
	}

	code := types.ErrorCode(err)
	if code == "" {
		code = types.ErrServerError
	}
	writeJSON(w, status, errorBody{Code: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
