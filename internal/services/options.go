package services

import "time"

type serviceOptions struct {
	now      func() time.Time
	notifier *Notifier
}

// Option customises the habit, record and export services.
type Option func(*serviceOptions)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) {
		o.now = now
	}
}

// WithNotifier publishes a domain event after each successful mutation.
func WithNotifier(n *Notifier) Option {
	return func(o *serviceOptions) {
		o.notifier = n
	}
}

func applyOptions(opts []Option) serviceOptions {
	o := serviceOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
