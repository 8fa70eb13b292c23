package loader

import (
	"healconf/keypath"
	"healconf/result"
	"healconf/tree"
)

// Backend stores a canonical tree. Read returns an empty tree, not an error,
// when nothing is stored yet.
type Backend interface {
	Read() (tree.Node, error)
	Write(tree.Node) error
	// SupportsComments reports whether comments at pos survive a write.
	SupportsComments(pos tree.CommentPosition) bool
	// KeyMapper recommends the key spelling of the format.
	KeyMapper() keypath.Mapper
}

// Migration produces the tree of an older configuration. found is false when
// there is nothing to migrate.
type Migration interface {
	Migrate() (node tree.Node, found bool, err error)
}

// MigrationFunc adapts a function to Migration.
type MigrationFunc func() (tree.Node, bool, error)

func (f MigrationFunc) Migrate() (tree.Node, bool, error) { return f() }

// KeyedMigration is a migration whose tree is spelled by its own key mapper.
// The loader reads it with that mapper and writes back with its own.
type KeyedMigration interface {
	Migration
	KeyMapper() keypath.Mapper
}

// Listener is told about every defaulted, rewritten or migrated path.
type Listener func(result.Update)
