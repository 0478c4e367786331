package schema

import (
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/eykd/cipcheck-go/internal/domain"
	"github.com/eykd/cipcheck-go/internal/logging"
)

// Strategy validates a header against the rules of its kind.
type Strategy interface {
	ValidateHeader(rules domain.RuleSet, md domain.Metadata) []domain.Finding
}

// Router dispatches each header to the strategy chosen for its kind.
type Router struct {
	byKind   map[domain.Kind]Strategy
	fallback Strategy
}

// RouterOption configures NewRouter.
type RouterOption func(*routerConfig)

type routerConfig struct {
	loader      Loader
	logger      logging.Logger
	forceManual bool
	kinds       []domain.Kind
}

// WithLoader sets where schemas are read from.
func WithLoader(l Loader) RouterOption {
	return func(c *routerConfig) { c.loader = l }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l logging.Logger) RouterOption {
	return func(c *routerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithManualOnly skips schema loading entirely.
func WithManualOnly(manual bool) RouterOption {
	return func(c *routerConfig) { c.forceManual = manual }
}

// NewRouter compiles the schema of every kind once. A kind whose schema
// cannot be read or compiled falls back to manual validation with a
// warning; this never fails.
func NewRouter(opts ...RouterOption) *Router {
	cfg := routerConfig{
		logger: logging.NoOp(),
		kinds:  []domain.Kind{domain.KindCIP, domain.KindCPS},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Router{byKind: make(map[domain.Kind]Strategy), fallback: ManualValidator{}}
	if cfg.forceManual {
		cfg.logger.Debug("schema validation disabled, using manual header validation")
		return r
	}

	compiled := make(map[domain.Kind]*jsonschema.Schema)
	for _, kind := range cfg.kinds {
		sch, err := cfg.loader.Compile(kind)
		if err != nil {
			cfg.logger.Warn("schema unavailable, using manual header validation", "kind", string(kind), "error", err)
			continue
		}
		cfg.logger.Debug("schema compiled", "kind", string(kind))
		compiled[kind] = sch
	}

	jv := NewJSONValidator(compiled)
	for kind := range compiled {
		r.byKind[kind] = jv
	}
	return r
}

// StrategyFor returns the strategy used for kind.
func (r *Router) StrategyFor(kind domain.Kind) Strategy {
	if s, ok := r.byKind[kind]; ok {
		return s
	}
	return r.fallback
}

// ValidateHeader validates md with the strategy chosen for rules.Kind.
func (r *Router) ValidateHeader(rules domain.RuleSet, md domain.Metadata) []domain.Finding {
	return r.StrategyFor(rules.Kind).ValidateHeader(rules, md)
}
