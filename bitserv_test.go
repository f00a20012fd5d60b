package bitserv

import (
	"context"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picopay/bitserv/types"
)

type stubMethod struct {
	name      string
	required  []string
	ads       map[string]string
	redeemErr error
	redeemed  int
}

func (s *stubMethod) Name() string             { return s.name }
func (s *stubMethod) PaymentHeaders() []string { return s.required }

func (s *stubMethod) Selects(h http.Header) bool {
	for _, name := range s.required {
		if _, ok := h[textproto.CanonicalMIMEHeaderKey(name)]; !ok {
			return false
		}
	}
	return true
}

func (s *stubMethod) PaymentRequiredHeaders(price types.Price, _ types.Advertisement) map[string]string {
	return s.ads
}

func (s *stubMethod) Redeem(context.Context, types.Price, http.Header, types.Advertisement) error {
	s.redeemed++
	return s.redeemErr
}

func TestSettleWithoutEvidenceAggregatesAllAdvertisements(t *testing.T) {
	b := New(WithMethods(
		&stubMethod{name: "a", required: []string{"X-Evidence-A"}, ads: map[string]string{"Price": "100", "Pay-A": "addr-a"}},
		&stubMethod{name: "b", required: []string{"X-Evidence-B"}, ads: map[string]string{"Price": "100", "Pay-B": "addr-b"}},
	))

	result, err := b.Settle(context.Background(), 100, http.Header{}, types.Advertisement{})

	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingPayment, result.Status)
	// One header set per configured method, merged.
	assert.Equal(t, map[string]string{"Price": "100", "Pay-A": "addr-a", "Pay-B": "addr-b"}, result.Headers)
}

func TestSettleUsesFirstMatchingMethod(t *testing.T) {
	first := &stubMethod{name: "first", required: []string{"X-Evidence"}}
	second := &stubMethod{name: "second", required: []string{"X-Evidence"}}
	b := New(WithMethods(first, second))

	h := http.Header{}
	h.Set("X-Evidence", "payload")
	result, err := b.Settle(context.Background(), 100, h, types.Advertisement{})

	require.NoError(t, err)
	assert.Equal(t, StatusSettled, result.Status)
	assert.Equal(t, "first", result.Method)
	assert.Equal(t, 1, first.redeemed)
	assert.Zero(t, second.redeemed)
}

func TestSettlePropagatesPaymentError(t *testing.T) {
	rejected := types.NewPaymentError(types.ErrDuplicatePayment, "payment already used")
	b := New(WithMethods(&stubMethod{name: "m", required: []string{"X-Evidence"}, redeemErr: rejected}))

	h := http.Header{}
	h.Set("X-Evidence", "payload")
	_, err := b.Settle(context.Background(), 100, h, types.Advertisement{})

	require.Error(t, err)
	assert.Equal(t, types.ErrDuplicatePayment, types.ErrorCode(err))
}

func TestSettleRequiresPositivePrice(t *testing.T) {
	b := New(WithMethods(&stubMethod{name: "m"}))

	_, err := b.Settle(context.Background(), 0, http.Header{}, types.Advertisement{})
	require.Error(t, err)

	_, err = b.Settle(context.Background(), -5, http.Header{}, types.Advertisement{})
	require.Error(t, err)
}

func TestSettleRequiresConfiguredMethods(t *testing.T) {
	_, err := New().Settle(context.Background(), 100, http.Header{}, types.Advertisement{})
	require.Error(t, err)
}

func TestSelectReturnsNilWithoutMatch(t *testing.T) {
	b := New(WithMethods(&stubMethod{name: "m", required: []string{"X-Evidence"}}))
	assert.Nil(t, b.Select(http.Header{}))
}
