package types

// HTTP header names forming the payment wire protocol. Request headers carry
// payment evidence from the client; response headers on a 402 tell the
// client how to pay. Values are opaque strings unless noted.
const (
	// HeaderPrice is the resource price in satoshis, returned on every 402.
	HeaderPrice = "Price"

	// HeaderTransaction carries a hex-serialized transaction paying the
	// merchant address on chain.
	HeaderTransaction = "Bitcoin-Transaction"

	// HeaderAddress is the merchant payout address a client must pay to,
	// returned on a 402 for the on-chain and transfer methods.
	HeaderAddress = "Bitcoin-Address"

	// HeaderMicropaymentToken carries an opaque payment-channel redemption
	// token, scoped to one channel and one resource price.
	HeaderMicropaymentToken = "Bitcoin-Micropayment-Token"

	// HeaderMicropaymentServer is the URL of the payment-channel server,
	// returned on a 402 for the channel method.
	HeaderMicropaymentServer = "Bitcoin-Micropayment-Server"

	// HeaderTransfer carries the JSON transfer payload for the
	// signed-transfer method.
	HeaderTransfer = "Bitcoin-Transfer"

	// HeaderAuthorization carries the detached signature over the transfer
	// payload.
	HeaderAuthorization = "Authorization"

	// HeaderUsername is the seller identity the transfer must name, returned
	// on a 402 for the transfer method.
	HeaderUsername = "Username"
)
