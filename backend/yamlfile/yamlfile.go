package yamlfile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"healconf/backend"
	"healconf/keypath"
	"healconf/tree"
)

// Backend reads and writes one YAML file.
type Backend struct {
	path   string
	fs     backend.FileSystem
	mapper keypath.Mapper
	indent int
}

type Option func(*Backend)

// WithFS replaces the OS file system.
func WithFS(fsys backend.FileSystem) Option {
	return func(b *Backend) { b.fs = fsys }
}

// WithKeyMapper overrides the recommended key spelling.
func WithKeyMapper(m keypath.Mapper) Option {
	return func(b *Backend) { b.mapper = m }
}

// WithIndent sets the indentation of written documents (default 2).
func WithIndent(n int) Option {
	return func(b *Backend) { b.indent = n }
}

func New(path string, opts ...Option) *Backend {
	b := &Backend{
		path:   path,
		fs:     backend.DefaultFS(),
		mapper: keypath.Hyphenated,
		indent: 2,
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
	data, err := Marshal(n, b.indent)
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

// SupportsComments is true for every position.
func (b *Backend) SupportsComments(tree.CommentPosition) bool { return true }

func (b *Backend) KeyMapper() keypath.Mapper { return b.mapper }

// Marshal renders n as a YAML document.
func Marshal(n tree.Node, indent int) ([]byte, error) {
	root, err := encodeTree(n)
	if err != nil {
		return nil, err
	}

	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)

	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}

	return buf.Bytes(), nil
}
