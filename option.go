package bitserv

import (
	"github.com/picopay/bitserv/logger"
	"github.com/picopay/bitserv/methods"
	"github.com/picopay/bitserv/metrics"
)

type Option func(*Bitserv)

// WithMethods sets the payment methods in priority order; the first method
// whose required headers all match a request handles it.
func WithMethods(m ...methods.Method) Option {
	return func(b *Bitserv) {
		b.methods = append(b.methods, m...)
	}
}

func WithLogger(l logger.Logger) Option {
	return func(b *Bitserv) {
		b.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(b *Bitserv) {
		b.metrics = r
	}
}
