package resolve

import "log/slog"

// Option is an interface for configuring the Resolver.
type Option interface {
	Apply(*Resolver)
}

// OptionFunc is a function type that implements the Option interface.
type OptionFunc func(*Resolver)

func (f OptionFunc) Apply(r *Resolver) {
	f(r)
}

// WithLogger sets the logger used to report expansion steps at debug level.
func WithLogger(logger *slog.Logger) Option {
	return OptionFunc(func(r *Resolver) {
		r.logger = logger
	})
}

// WithIncludeSeed places the seed parcel first in every closure.
func WithIncludeSeed(include bool) Option {
	return OptionFunc(func(r *Resolver) {
		r.includeSeed = include
	})
}

// WithGlobals appends the parcels that belong to no group to every closure.
// Bindle installs those parcels unconditionally.
func WithGlobals(globals bool) Option {
	return OptionFunc(func(r *Resolver) {
		r.withGlobals = globals
	})
}
