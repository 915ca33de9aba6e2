package command

import (
	"github.com/arnegrid/simidx"
	"github.com/arnegrid/simidx/cache"
	"github.com/arnegrid/simidx/resource"
)

type options struct {
	logger    *simidx.Logger
	metrics   simidx.MetricsCollector
	resources *resource.Controller
	cache     cache.BlockCache
}

func defaultOptions() options {
	return options{
		logger:  simidx.NoopLogger(),
		metrics: simidx.NoopMetricsCollector{},
	}
}

// Option configures a Dispatcher.
//
// Breaking changes are expected while this engine is pre-release.
type Option func(*options)

// WithLogger configures the Dispatcher's logger. If nil, logging is
// disabled.
func WithLogger(l *simidx.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = simidx.NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures the Dispatcher's metrics collector. If
// nil, metrics are discarded.
func WithMetricsCollector(m simidx.MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = simidx.NoopMetricsCollector{}
		}
		o.metrics = m
	}
}

// WithResourceController bounds concurrent Execute calls via rc's
// background-worker slots. Storage adapter IO is not throttled. If nil, no
// bounding is applied.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithCache enables read-through caching of Frequency Store lookups during
// CLASSIFY, invalidated on RECORD for the items it touches. If nil, caching
// is disabled. Candidate Index lookups are not cached: a cached collision
// set can't be selectively invalidated when RECORD inserts a new item into
// one of its buckets, so caching it risks silently dropping candidates.
func WithCache(c cache.BlockCache) Option {
	return func(o *options) {
		o.cache = c
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
