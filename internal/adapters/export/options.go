package export

import (
	"github.com/tbeaumont/wagescout/pkg/logger"
)

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithLogger sets a logger for export progress messages.
func WithLogger(log logger.Logger) Option {
	return func(w *Writer) {
		if log != nil {
			w.log = log
		}
	}
}
