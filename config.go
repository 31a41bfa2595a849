package configcrunch

// defaultMaxVariableIterations bounds the variable resolver's fixed-point
// loop (spec §4.4): a small constant multiple of a realistic document's
// string-leaf count, chosen generously enough that legitimate multi-hop
// variable chains converge well within it while pathological
// self-referential placeholders are still caught in bounded time.
const defaultMaxVariableIterations = 256

// Option configures a Document at construction time (FromYAML / FromDict).
type Option func(*documentOptions)

type documentOptions struct {
	maxVariableIterations int
	extraHelpers          map[string]any
}

func newDocumentOptions(opts []Option) documentOptions {
	o := documentOptions{
		maxVariableIterations: defaultMaxVariableIterations,
		extraHelpers:          map[string]any{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMaxVariableIterations overrides the fixed-point iteration bound used
// by ProcessVars for this document.
func WithMaxVariableIterations(n int) Option {
	return func(o *documentOptions) {
		if n > 0 {
			o.maxVariableIterations = n
		}
	}
}

// WithExtraHelper registers an additional named helper in the template
// namespace used when rendering this document's variables, alongside the
// kind's own declared helpers and the always-available parent().
func WithExtraHelper(name string, fn any) Option {
	return func(o *documentOptions) {
		o.extraHelpers[name] = fn
	}
}
