package methods

import (
	"bytes"
	"context"
	"encoding/hex"
	"net/http"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/picopay/bitserv/clients"
	"github.com/picopay/bitserv/ledger"
	"github.com/picopay/bitserv/logger"
	"github.com/picopay/bitserv/types"
	"github.com/picopay/bitserv/utils"
)

// OnChain settles payments made directly on the blockchain. The client
// attaches a hex-serialized transaction paying the merchant address; the
// method checks destination and amount, records the transaction hash in the
// dedup ledger and hands the raw payload to the broadcast provider.
type OnChain struct {
	address     string
	params      *chaincfg.Params
	ledger      ledger.Ledger
	broadcaster clients.Broadcaster
	log         logger.Logger
}

// NewOnChain validates cfg and builds the on-chain method. The payout
// address must decode for the configured network.
func NewOnChain(cfg types.OnChainConfig, led ledger.Ledger, broadcaster clients.Broadcaster, log logger.Logger) (*OnChain, error) {
	if err := utils.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	params, err := utils.ChainParams(cfg.Network)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateAddress(cfg.PayoutAddress, params); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Noop{}
	}

	return &OnChain{
		address:     cfg.PayoutAddress,
		params:      params,
		ledger:      led,
		broadcaster: broadcaster,
		log:         log,
	}, nil
}

func (m *OnChain) Name() string { return "onchain" }

func (m *OnChain) PaymentHeaders() []string {
	return []string{types.HeaderTransaction}
}

func (m *OnChain) Selects(h http.Header) bool {
	return hasHeaders(h, m.PaymentHeaders())
}

// payoutAddress resolves the address a request must pay: the per-request
// override when the advertisement carries one, the configured address
// otherwise. Advertisement and redemption resolve through the same rule,
// so an advertised address is always redeemable.
func (m *OnChain) payoutAddress(adv types.Advertisement) string {
	if adv.Address != "" {
		return adv.Address
	}
	return m.address
}

func (m *OnChain) PaymentRequiredHeaders(price types.Price, adv types.Advertisement) map[string]string {
	return map[string]string{
		types.HeaderPrice:   formatPrice(price),
		types.HeaderAddress: m.payoutAddress(adv),
	}
}

func (m *OnChain) Redeem(ctx context.Context, price types.Price, h http.Header, adv types.Advertisement) error {
	rawTx := h.Get(types.HeaderTransaction)
	m.log.Debugw("received transaction", "bytes", len(rawTx))

	txBytes, err := hex.DecodeString(rawTx)
	if err != nil {
		return types.WrapPaymentError(types.ErrInvalidPaymentParameter, "invalid transaction hex", err)
	}

	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(txBytes)); err != nil {
		return types.WrapPaymentError(types.ErrInvalidPaymentParameter, "invalid transaction encoding", err)
	}

	payment := outputPayingAddress(&tx, m.payoutAddress(adv), m.params)
	if payment == nil {
		return types.NewPaymentError(types.ErrInvalidPaymentParameter, "transaction does not pay the merchant address")
	}

	// Exact match only: overpayment is rejected rather than refunded.
	if payment.Value != int64(price) {
		return types.NewPaymentError(types.ErrInsufficientPayment, "incorrect payment amount")
	}

	identifier := tx.TxHash().String()
	rec, created, err := m.ledger.GetOrCreate(ctx, identifier, price)
	if err != nil {
		return types.WrapPaymentError(types.ErrServerError, "dedup ledger unavailable", err)
	}
	if !created {
		return types.NewPaymentError(types.ErrDuplicatePayment, "payment already used")
	}

	// The dedup record above stays committed even when the broadcast below
	// fails; the identifier is burned and only a fresh transaction can pay.
	txid, err := m.broadcaster.Broadcast(ctx, rawTx)
	if err != nil {
		m.log.Errorw("transaction broadcast failed", "identifier", identifier, "error", err)
		return types.WrapPaymentError(types.ErrBroadcastFailed, "transaction broadcast failed", err)
	}

	m.log.Infow("transaction broadcast", "txid", txid, "record", rec.ID, "price", int64(price))
	return nil
}

// outputPayingAddress returns the first output paying the given address,
// or nil when none does.
func outputPayingAddress(tx *wire.MsgTx, address string, params *chaincfg.Params) *wire.TxOut {
	for _, out := range tx.TxOut {
		_, addrs, _, err := txscript.ExtractPkScriptAddrs(out.PkScript, params)
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if addr.EncodeAddress() == address {
				return out
			}
		}
	}
	return nil
}

var _ Method = (*OnChain)(nil)
