package repository

import "github.com/okian/mergington/pkg/logger"

type options struct {
	enforceCapacity bool
	keyPrefix       string
	logger          logger.Logger
}

func defaultOptions() options {
	return options{keyPrefix: "mergington", logger: logger.Nop()}
}

// Option applies a configuration option to a store.
type Option func(*options)

// WithCapacityEnforcement makes Signup fail with model.ErrActivityFull once
// an activity holds max_participants emails.
func WithCapacityEnforcement(enabled bool) Option {
	return func(o *options) {
		o.enforceCapacity = enabled
	}
}

// WithKeyPrefix namespaces Redis keys. Ignored by the memory backend.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.keyPrefix = prefix
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
