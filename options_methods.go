package gazelle

import "log/slog"

// WithLogger overrides the *slog.Logger used for structural diagnostics
// (grammar load statistics, skipped-block warnings). The default is
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxStackDepth overrides the default parse-stack depth cap.
func WithMaxStackDepth(n int) Option {
	return func(c *config) { c.limits.MaxStackDepth = n }
}

// WithMaxTokenBufferLen overrides the default token-buffer length cap.
func WithMaxTokenBufferLen(n int) Option {
	return func(c *config) { c.limits.MaxTokenBufferLen = n }
}

// WithResourceLimits overrides both caps at once.
func WithResourceLimits(limits ResourceLimits) Option {
	return func(c *config) { c.limits = limits }
}

// WithCookie attaches an opaque client value to a Session, retrievable
// with Session.Cookie. It has no effect when passed to LoadGrammarFile or
// LoadGrammarBytes.
func WithCookie(cookie any) Option {
	return func(c *config) { c.cookie = cookie }
}
