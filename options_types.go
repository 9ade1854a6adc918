package gazelle

import "log/slog"

// config collects everything an Option can influence, whether it applies
// to grammar loading, session construction, or both. Split from
// options_methods.go so the field list and the constructors that mutate
// it don't crowd the same file, the way jacoelho-xsd separates its option
// struct definitions from the methods that apply them.
type config struct {
	logger *slog.Logger
	limits ResourceLimits
	cookie any
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		logger: slog.Default(),
		limits: DefaultResourceLimits(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures grammar loading or session construction.
type Option func(*config)
