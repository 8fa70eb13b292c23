package backend

import (
	"errors"
	"io/fs"

	"healconf/keypath"
	"healconf/loader"
	"healconf/tree"
)

// Source is a file backend that can tell whether its file exists.
type Source interface {
	Exists() (bool, error)
	Read() (tree.Node, error)
	KeyMapper() keypath.Mapper
}

// Migrate returns a migration reading src when its file exists, for instance
// an older file in another format. The migrated tree keeps the key spelling
// of src.
func Migrate(src Source) loader.KeyedMigration {
	return fileMigration{src: src}
}

type fileMigration struct {
	src Source
}

func (m fileMigration) Migrate() (tree.Node, bool, error) {
	ok, err := m.src.Exists()
	if err != nil || !ok {
		return nil, false, err
	}

	n, err := m.src.Read()
	if err != nil {
		return nil, false, err
	}

	return n, true, nil
}

func (m fileMigration) KeyMapper() keypath.Mapper { return m.src.KeyMapper() }

// Exists reports whether path exists on fsys.
func Exists(fsys FileSystem, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return err == nil, err
}
