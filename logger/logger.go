// Package logger defines the structured logging contract for the settlement
// layer. Methods take a message plus alternating key/value pairs, so
// zap.SugaredLogger satisfies the interface directly.
package logger

type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

// Noop discards everything. It is the default when no logger is configured.
type Noop struct{}

func (Noop) Debugw(string, ...any) {}
func (Noop) Infow(string, ...any)  {}
func (Noop) Warnw(string, ...any)  {}
func (Noop) Errorw(string, ...any) {}
