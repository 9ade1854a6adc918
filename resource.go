package gazelle

// ResourceLimits bounds the two unbounded-growth points the spec calls
// out: the parse stack (recursion through nonterminal transitions) and
// the token buffer (lookahead terminals lexed but not yet consumed).
type ResourceLimits struct {
	MaxStackDepth     int
	MaxTokenBufferLen int
}

// DefaultResourceLimits returns generous but finite caps, high enough not
// to bother well-formed grammars but low enough to turn a pathological
// grammar-and-input combination into a ResourceLimitExceeded error
// instead of unbounded memory growth.
func DefaultResourceLimits() ResourceLimits {
	return ResourceLimits{
		MaxStackDepth:     4096,
		MaxTokenBufferLen: 4096,
	}
}
