// Package tomlfile stores configuration trees as TOML documents. TOML tables
// are unordered, so written keys are sorted and comments are not kept.
package tomlfile

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/pelletier/go-toml/v2"

	"healconf/backend"
	"healconf/keypath"
	"healconf/result"
	"healconf/tree"
)

// Backend reads and writes one TOML file.
type Backend struct {
	path   string
	fs     backend.FileSystem
	mapper keypath.Mapper
}

type Option func(*Backend)

func WithFS(fsys backend.FileSystem) Option {
	return func(b *Backend) { b.fs = fsys }
}

func WithKeyMapper(m keypath.Mapper) Option {
	return func(b *Backend) { b.mapper = m }
}

func New(path string, opts ...Option) *Backend {
	b := &Backend{
		path:   path,
		fs:     backend.DefaultFS(),
		mapper: keypath.Snake,
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

func (b *Backend) Path() string { return b.path }

// Read parses the file. A missing file reads as an empty tree.
func (b *Backend) Read() (tree.Node, error) {
	data, err := b.fs.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return tree.Empty(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", b.path, err)
	}

	t, err := Parse(data)
	if err != nil {
		return nil, err
	}

	return t.Immutable(), nil
}

func (b *Backend) Write(n tree.Node) error {
	data, err := Marshal(n)
	if err != nil {
		return err
	}

	if err := b.fs.WriteFile(b.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", b.path, err)
	}

	return nil
}

func (b *Backend) Exists() (bool, error) {
	return backend.Exists(b.fs, b.path)
}

func (b *Backend) SupportsComments(tree.CommentPosition) bool { return false }

func (b *Backend) KeyMapper() keypath.Mapper { return b.mapper }

// Parse decodes a TOML document into a tree with sorted keys. Local dates and
// times are kept as their text form.
func Parse(data []byte) (*tree.Tree, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		e := result.Wrap(err, "invalid TOML").WithBackend(err.Error())

		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, _ := de.Position()
			e = e.AtLine(row)
		}

		return nil, e
	}

	if doc == nil {
		return tree.New(), nil
	}

	v, err := tree.FromNative(doc)
	if err != nil {
		return nil, result.Wrap(err, err.Error())
	}

	return v.(*tree.Tree), nil
}

// Marshal renders n as a TOML document.
func Marshal(n tree.Node) ([]byte, error) {
	data, err := toml.Marshal(tree.ToNative(n))
	if err != nil {
		return nil, fmt.Errorf("encoding TOML: %w", err)
	}

	return data, nil
}
