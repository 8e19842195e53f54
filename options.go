package arbiter

import "github.com/rs/zerolog"

type options struct {
	logger         zerolog.Logger
	registry       *Registry
	readBufferSize int
	arrays         bool
}

// Option configures a Registry or an Arbiter. Options that do not apply to
// the value being built are ignored.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRegistry makes an Arbiter use reg instead of Default.
func WithRegistry(reg *Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithReadBufferSize sets the size of the buffer an Arbiter reads through.
func WithReadBufferSize(n int) Option {
	return func(o *options) { o.readBufferSize = n }
}

// WithArrayMaterialization lets a Registry populate array fields when it
// materializes an object. Without it array fields fail with ErrUnimplemented
// on the receiving side.
func WithArrayMaterialization() Option {
	return func(o *options) { o.arrays = true }
}
