// Package types defines the shared data model for the bitserv settlement
// layer: prices, the wire header contract, payment evidence shapes and the
// payment error taxonomy.
package types

import (
	"time"
)

// Price is a resource price in satoshis, the smallest ledger unit.
// A chargeable resource always has Price > 0; zero-price resources bypass
// settlement entirely.
type Price int64

// Advertisement carries the per-request extras a payment method may need
// when building its payment-required response headers.
type Advertisement struct {
	// ServerURL is the externally reachable base URL of the serving host,
	// used by the channel method to point clients at the channel endpoint.
	ServerURL string

	// Address optionally overrides the method's configured payout address
	// for this request.
	Address string
}

// Transfer is the structured payload of a signed transfer. Amount is a
// pointer so that a payload missing the field can be told apart from an
// explicit zero.
type Transfer struct {
	Amount      *int64 `json:"amount"`
	Payer       string `json:"payer,omitempty"`
	Payee       string `json:"payee,omitempty"`
	Description string `json:"description,omitempty"`
	Deadline    int64  `json:"deadline,omitempty"`
}

// OnChainConfig configures the on-chain payment method.
type OnChainConfig struct {
	// PayoutAddress is the merchant address every payment transaction must
	// pay exactly the resource price to.
	PayoutAddress string `json:"payoutAddress" validate:"required"`

	// Network selects the address encoding: "mainnet", "testnet" or
	// "regtest". Defaults to mainnet.
	Network string `json:"network,omitempty" validate:"omitempty,oneof=mainnet testnet regtest"`
}

// ChannelConfig configures the payment-channel method.
type ChannelConfig struct {
	// EndpointPath is appended to the advertised server URL so clients know
	// where the channel server is mounted.
	EndpointPath string `json:"endpointPath" validate:"required,startswith=/"`
}

// TransferConfig configures the signed-transfer method. The seller identity
// is an explicit value here; nothing in the request path reads it from disk.
type TransferConfig struct {
	PayoutAddress  string `json:"payoutAddress" validate:"required"`
	SellerUsername string `json:"sellerUsername" validate:"required"`

	// VerificationURL is the base URL of the third-party authority that
	// validates transfer signatures.
	VerificationURL string `json:"verificationUrl" validate:"required,url"`
}

// Record is one redemption entry in the dedup ledger. Entries are created on
// first successful validation of on-chain evidence and never deleted by this
// layer.
type Record struct {
	ID         string    `json:"id"`
	Identifier string    `json:"identifier"`
	Price      Price     `json:"price"`
	CreatedAt  time.Time `json:"createdAt"`
}
