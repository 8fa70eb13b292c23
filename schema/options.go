package schema

import (
	"healconf/keypath"
	"healconf/result"
	"healconf/tree"
)

// DefaultMaxErrors caps the errors reported by one read.
const DefaultMaxErrors = 100

type config struct {
	mapper    keypath.Mapper
	maxErrors int
	prefix    keypath.Path
	listener  func(result.Update)
	comments  func(tree.CommentPosition) bool
}

type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{
		mapper:    keypath.Identity{},
		maxErrors: DefaultMaxErrors,
		listener:  func(result.Update) {},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithMapper sets the key mapper; labels are used as keys by default.
func WithMapper(m keypath.Mapper) Option {
	return func(c *config) {
		if m != nil {
			c.mapper = m
		}
	}
}

// WithMaxErrors caps the errors of one read across all nested sections; n <= 0
// removes the cap.
func WithMaxErrors(n int) Option {
	return func(c *config) { c.maxErrors = n }
}

// WithPrefix locates the walked tree below prefix in paths and updates.
func WithPrefix(prefix keypath.Path) Option {
	return func(c *config) { c.prefix = prefix }
}

// WithListener is called once per update after a successful read.
func WithListener(fn func(result.Update)) Option {
	return func(c *config) {
		if fn != nil {
			c.listener = fn
		}
	}
}

// WithComments selects the comment positions written.
func WithComments(keep func(tree.CommentPosition) bool) Option {
	return func(c *config) { c.comments = keep }
}
