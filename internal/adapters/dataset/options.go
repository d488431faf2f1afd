package dataset

import (
	"github.com/tbeaumont/wagescout/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithEncodings sets the ordered encoding-fallback list.
func WithEncodings(encodings []string) Option {
	return func(l *Loader) {
		if len(encodings) > 0 {
			l.encodings = encodings
		}
	}
}

// WithLogger sets a logger for load progress messages.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}
