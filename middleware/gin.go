package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/picopay/bitserv"
	"github.com/picopay/bitserv/types"
)

// PaymentGin is the gin adapter of Payment.
func PaymentGin(b *bitserv.Bitserv, price types.Price, opts ...Option) gin.HandlerFunc {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return func(c *gin.Context) {
		adv := types.Advertisement{
			ServerURL: options.ServerURL,
			Address:   options.Address,
		}
		if adv.ServerURL == "" {
			adv.ServerURL = requestBaseURL(c.Request)
		}

		result, err := b.Settle(c.Request.Context(), price, c.Request.Header, adv)
		if err != nil {
			status := http.StatusBadGateway
			if types.ClientFault(err) {
				status = http.StatusPaymentRequired
			}
			code := types.ErrorCode(err)
			if code == "" {
				code = types.ErrServerError
			}
			c.AbortWithStatusJSON(status, gin.H{"code": code, "message": err.Error()})
			return
		}

		if result.Status == bitserv.StatusAwaitingPayment {
			for name, value := range result.Headers {
				c.Header(name, value)
			}
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"code":    "PAYMENT_REQUIRED",
				"message": "payment required to access this resource",
			})
			return
		}

		c.Next()
	}
}
