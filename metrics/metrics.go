// Package metrics defines the instrumentation contract for the settlement
// layer and ships a prometheus-backed recorder alongside a no-op default.
package metrics

import "time"

// Recorder receives redemption events from the dispatcher. Implementations
// must be safe for concurrent use.
type Recorder interface {
	// RedemptionProcessed counts one finished redemption for a method.
	// Outcome is "settled", the payment error code, or "awaiting_payment".
	RedemptionProcessed(method, outcome string)

	// RedeemDuration records how long a method's Redeem call took.
	RedeemDuration(method string, d time.Duration)
}
