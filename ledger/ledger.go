// Package ledger provides the dedup ledger: a persistent identifier→record
// store whose atomic insert-if-absent is the only synchronization point in
// the settlement layer. A record, once written, is never deleted here — a
// failed broadcast does not free its identifier for reuse.
package ledger

import (
	"context"

	"github.com/picopay/bitserv/types"
)

// Ledger is implemented by every dedup backend. Implementations must be
// safe for concurrent use.
type Ledger interface {
	// GetOrCreate inserts a record for identifier if none exists and returns
	// it together with whether this call created it. The check and the
	// insert are one indivisible operation: for N concurrent calls with the
	// same identifier exactly one observes created == true.
	GetOrCreate(ctx context.Context, identifier string, price types.Price) (types.Record, bool, error)
}
