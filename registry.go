package pljit

import (
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
)

// EngineVersion is the semantic version of this pljit implementation,
// checked against a Function's optional MinimumEngineVersion at
// registration time.
const EngineVersion = "1.0.0"

// engineVersion is EngineVersion parsed once at package init. EngineVersion
// is a hardcoded constant under our control, so a parse failure here would
// be a bug in this package rather than bad input; init panics loudly
// instead of threading an error through every exported constructor.
var engineVersion *semver.Version

func init() {
	v, err := semver.NewVersion(EngineVersion)
	if err != nil {
		panic(fmt.Sprintf("pljit: EngineVersion %q is not a valid semantic version: %s", EngineVersion, err))
	}

	engineVersion = v
}

// Config holds the small set of registry-wide options. There is no
// external configuration surface (no env vars, no flags) because
// pljit performs no I/O of its own; callers that want flags or env
// parsing own that layer themselves and construct a Config in code.
type Config struct {
	// ColorDiagnostics requests ANSI coloring when a diagnostic is
	// rendered. pljit's own diag.Diagnostic.Render never colors output
	// itself; this flag exists for embedding hosts that wrap Render's
	// output and want a consistent place to carry the preference.
	ColorDiagnostics bool
}

// Registry is a thread-safe container of registered Functions. The
// zero value is not usable; construct one with NewRegistry.
type Registry struct {
	config Config

	mu        sync.RWMutex
	functions map[string]*Function
}

// NewRegistry creates an empty Registry.
func NewRegistry(config Config) *Registry {
	return &Registry{config: config, functions: make(map[string]*Function)}
}

// Config returns the registry's configuration.
func (r *Registry) Config() Config { return r.config }

// RegisterOption customizes a single RegisterFunction call.
type RegisterOption func(*registerOptions)

type registerOptions struct {
	minimumEngineVersion string
}

// WithMinimumEngineVersion rejects the registration unless this
// registry's EngineVersion satisfies the given semver constraint
// (e.g. ">= 1.0.0, < 2.0.0"). This is a forward-compatibility guard an
// embedding host can use to pin which language revision a bundle of
// source text was written against; it has no effect on compilation or
// evaluation of a function that passes the check.
func WithMinimumEngineVersion(constraint string) RegisterOption {
	return func(o *registerOptions) {
		o.minimumEngineVersion = constraint
	}
}

// RegisterFunction creates a lazily-compiled handle for name bound to
// text. Registering a name a second time replaces the previous
// handle; in-flight Evaluate calls on the old handle are unaffected.
func (r *Registry) RegisterFunction(name, text string, opts ...RegisterOption) (*Function, error) {
	var options registerOptions

	for _, opt := range opts {
		opt(&options)
	}

	if options.minimumEngineVersion != "" {
		constraint, err := semver.NewConstraint(options.minimumEngineVersion)
		if err != nil {
			return nil, fmt.Errorf("pljit: invalid MinimumEngineVersion constraint %q: %w", options.minimumEngineVersion, err)
		}

		if !constraint.Check(engineVersion) {
			return nil, fmt.Errorf("pljit: engine version %s does not satisfy constraint %q required by %q", EngineVersion, options.minimumEngineVersion, name)
		}
	}

	fn := newFunction(text)

	r.mu.Lock()
	r.functions[name] = fn
	r.mu.Unlock()

	return fn, nil
}

// Lookup returns the function registered under name, if any.
func (r *Registry) Lookup(name string) (*Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.functions[name]

	return fn, ok
}

// Len returns the number of currently registered functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.functions)
}
