package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picopay/bitserv"
	"github.com/picopay/bitserv/types"
)

type stubMethod struct {
	name      string
	required  []string
	ads       map[string]string
	redeemErr error
	redeemAdv types.Advertisement
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

func (s *stubMethod) PaymentRequiredHeaders(types.Price, types.Advertisement) map[string]string {
	return s.ads
}

func (s *stubMethod) Redeem(_ context.Context, _ types.Price, _ http.Header, adv types.Advertisement) error {
	s.redeemAdv = adv
	return s.redeemErr
}

func protectedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("paid content"))
	})
}

func TestPaymentRespondsWith402AndInstructions(t *testing.T) {
	b := bitserv.New(bitserv.WithMethods(&stubMethod{
		name:     "m",
		required: []string{"X-Evidence"},
		ads:      map[string]string{"Price": "100", "Pay-To": "addr"},
	}))
	handler := Payment(b, 100)(protectedHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/paid", nil))

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "100", rec.Header().Get("Price"))
	assert.Equal(t, "addr", rec.Header().Get("Pay-To"))
	assert.Contains(t, rec.Body.String(), "PAYMENT_REQUIRED")
}

func TestPaymentServesResourceOnSettledPayment(t *testing.T) {
	b := bitserv.New(bitserv.WithMethods(&stubMethod{name: "m", required: []string{"X-Evidence"}}))
	handler := Payment(b, 100)(protectedHandler())

	req := httptest.NewRequest(http.MethodGet, "/paid", nil)
	req.Header.Set("X-Evidence", "proof")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "paid content", rec.Body.String())
}

func TestPaymentForwardsOverridesToRedemption(t *testing.T) {
	method := &stubMethod{name: "m", required: []string{"X-Evidence"}}
	b := bitserv.New(bitserv.WithMethods(method))
	handler := Payment(b, 100,
		WithServerURL("https://pay.example.com"),
		WithAddress("1OverrideAddr"),
	)(protectedHandler())

	req := httptest.NewRequest(http.MethodGet, "/paid", nil)
	req.Header.Set("X-Evidence", "proof")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// The advertisement the 402 would have carried is the one redemption
	// validates against.
	assert.Equal(t, types.Advertisement{
		ServerURL: "https://pay.example.com",
		Address:   "1OverrideAddr",
	}, method.redeemAdv)
}

func TestPaymentMapsClientFaultTo402(t *testing.T) {
	b := bitserv.New(bitserv.WithMethods(&stubMethod{
		name:      "m",
		required:  []string{"X-Evidence"},
		redeemErr: types.NewPaymentError(types.ErrDuplicatePayment, "payment already used"),
	}))
	handler := Payment(b, 100)(protectedHandler())

	req := httptest.NewRequest(http.MethodGet, "/paid", nil)
	req.Header.Set("X-Evidence", "proof")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), types.ErrDuplicatePayment)
}

func TestPaymentMapsServerFaultTo502(t *testing.T) {
	b := bitserv.New(bitserv.WithMethods(&stubMethod{
		name:      "m",
		required:  []string{"X-Evidence"},
		redeemErr: types.NewPaymentError(types.ErrBroadcastFailed, "transaction broadcast failed"),
	}))
	handler := Payment(b, 100)(protectedHandler())

	req := httptest.NewRequest(http.MethodGet, "/paid", nil)
	req.Header.Set("X-Evidence", "proof")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), types.ErrBroadcastFailed)
}

func TestPaymentGinFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	b := bitserv.New(bitserv.WithMethods(&stubMethod{
		name:     "m",
		required: []string{"X-Evidence"},
		ads:      map[string]string{"Price": "100"},
	}))

	router := gin.New()
	router.GET("/paid", PaymentGin(b, 100), func(c *gin.Context) {
		c.String(http.StatusOK, "paid content")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/paid", nil))
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "100", rec.Header().Get("Price"))

	req := httptest.NewRequest(http.MethodGet, "/paid", nil)
	req.Header.Set("X-Evidence", "proof")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "paid content", rec.Body.String())
}
