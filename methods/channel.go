package methods

import (
	"context"
	"net/http"
	"strings"

	"github.com/picopay/bitserv/clients"
	"github.com/picopay/bitserv/logger"
	"github.com/picopay/bitserv/types"
	"github.com/picopay/bitserv/utils"
)

// Channel settles micropayments made inside an established payment channel.
// The channel state machine lives in the channel server; this method only
// redeems the presented token there and holds it to the resource price.
type Channel struct {
	endpointPath string
	redeemer     clients.ChannelRedeemer
	log          logger.Logger
}

func NewChannel(cfg types.ChannelConfig, redeemer clients.ChannelRedeemer, log logger.Logger) (*Channel, error) {
	if err := utils.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Noop{}
	}

	return &Channel{
		endpointPath: cfg.EndpointPath,
		redeemer:     redeemer,
		log:          log,
	}, nil
}

func (m *Channel) Name() string { return "channel" }

func (m *Channel) PaymentHeaders() []string {
	return []string{types.HeaderMicropaymentToken}
}

func (m *Channel) Selects(h http.Header) bool {
	return hasHeaders(h, m.PaymentHeaders())
}

func (m *Channel) PaymentRequiredHeaders(price types.Price, adv types.Advertisement) map[string]string {
	return map[string]string{
		types.HeaderPrice:              formatPrice(price),
		types.HeaderMicropaymentServer: strings.TrimSuffix(adv.ServerURL, "/") + m.endpointPath,
	}
}

func (m *Channel) Redeem(ctx context.Context, price types.Price, h http.Header, _ types.Advertisement) error {
	token := h.Get(types.HeaderMicropaymentToken)

	amount, err := m.redeemer.Redeem(ctx, token)
	if err != nil {
		return types.WrapPaymentError(types.ErrInvalidPaymentParameter, "token redemption failed", err)
	}

	if amount != int64(price) {
		m.log.Warnw("channel token amount mismatch", "redeemed", amount, "price", int64(price))
		return types.NewPaymentError(types.ErrInsufficientPayment, "incorrect payment amount")
	}

	m.log.Infow("channel token redeemed", "amount", amount)
	return nil
}

var _ Method = (*Channel)(nil)
