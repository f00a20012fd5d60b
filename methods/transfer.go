package methods

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/picopay/bitserv/clients"
	"github.com/picopay/bitserv/logger"
	"github.com/picopay/bitserv/types"
	"github.com/picopay/bitserv/utils"
)

// Transfer settles payments made as signed transfers verified by a trusted
// third party. The declared amount is checked locally before the authority
// is consulted, so an underpriced transfer never causes a network call.
type Transfer struct {
	address  string
	seller   string
	verifier clients.TransferVerifier
	log      logger.Logger
}

// NewTransfer validates cfg and builds the transfer method. The seller
// identity comes from cfg; the request path never touches the filesystem.
// A nil verifier is built from cfg.VerificationURL, so the configured
// authority and the consulted one cannot drift apart.
func NewTransfer(cfg types.TransferConfig, verifier clients.TransferVerifier, log logger.Logger) (*Transfer, error) {
	if err := utils.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if verifier == nil {
		verifier = clients.NewHTTPTransferVerifier(cfg.VerificationURL, nil)
	}
	if log == nil {
		log = logger.Noop{}
	}

	return &Transfer{
		address:  cfg.PayoutAddress,
		seller:   cfg.SellerUsername,
		verifier: verifier,
		log:      log,
	}, nil
}

func (m *Transfer) Name() string { return "transfer" }

func (m *Transfer) PaymentHeaders() []string {
	return []string{types.HeaderTransfer, types.HeaderAuthorization}
}

func (m *Transfer) Selects(h http.Header) bool {
	return hasHeaders(h, m.PaymentHeaders())
}

func (m *Transfer) PaymentRequiredHeaders(price types.Price, adv types.Advertisement) map[string]string {
	return map[string]string{
		types.HeaderPrice:    formatPrice(price),
		types.HeaderAddress:  m.address,
		types.HeaderUsername: m.seller,
	}
}

func (m *Transfer) Redeem(ctx context.Context, price types.Price, h http.Header, _ types.Advertisement) error {
	raw := h.Get(types.HeaderTransfer)
	signature := h.Get(types.HeaderAuthorization)

	var transfer types.Transfer
	if err := json.Unmarshal([]byte(raw), &transfer); err != nil {
		return types.WrapPaymentError(types.ErrInvalidPaymentParameter, "malformed transfer payload", err)
	}
	if transfer.Amount == nil {
		return types.NewPaymentError(types.ErrInvalidPaymentParameter, "transfer payload missing amount")
	}

	if *transfer.Amount != int64(price) {
		return types.NewPaymentError(types.ErrInsufficientPayment, "incorrect payment amount")
	}

	result, err := m.verifier.Verify(ctx, m.seller, raw, signature)
	if err != nil {
		return types.WrapPaymentError(types.ErrServerError, "verification authority unreachable", err)
	}

	if result.OK {
		m.log.Infow("transfer verified", "seller", m.seller, "amount", *transfer.Amount)
		return nil
	}
	if result.Message != "" {
		return types.NewPaymentError(types.ErrInvalidPaymentParameter, result.Message)
	}
	return types.NewPaymentError(types.ErrServerError, "verification failed without diagnostic")
}

var _ Method = (*Transfer)(nil)
