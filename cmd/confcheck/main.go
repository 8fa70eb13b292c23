// Package main provides the CLI entrypoint for confcheck.
//
// confcheck reads a YAML or TOML configuration file into the canonical tree
// used by healconf and:
//   - Reports syntax errors with their line
//   - Dumps the canonical tree (-dump)
//   - Converts the file to another format (-to out.toml), re-spelling keys
//     the way the target format spells them unless -keep-keys is set
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"healconf/backend"
	"healconf/backend/tomlfile"
	"healconf/backend/yamlfile"
	"healconf/keypath"
	"healconf/loader"
	"healconf/tree"
)

var errUsage = errors.New("usage: confcheck [-dump] [-to FILE [-keep-keys]] FILE")

func main() {
	if err := run(os.Args[1:], os.Stdout, backend.DefaultFS()); err != nil {
		fmt.Fprintln(os.Stderr, "confcheck:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer, fsys backend.FileSystem) error {
	flags := flag.NewFlagSet("confcheck", flag.ContinueOnError)
	flags.SetOutput(out)

	dump := flags.Bool("dump", false, "print the canonical tree")
	to := flags.String("to", "", "write the configuration to `FILE`, format chosen by extension")
	keepKeys := flags.Bool("keep-keys", false, "keep key spelling when converting")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if flags.NArg() != 1 {
		return errUsage
	}

	src, err := open(flags.Arg(0), fsys)
	if err != nil {
		return err
	}

	n, err := src.Read()
	if err != nil {
		return fmt.Errorf("%s: %w", flags.Arg(0), err)
	}

	if *dump {
		fmt.Fprint(out, tree.Dump(n))
	}

	if *to != "" {
		dst, err := open(*to, fsys)
		if err != nil {
			return err
		}

		if !*keepKeys && !keypath.Same(src.KeyMapper(), dst.KeyMapper()) {
			if n, err = respell(n, dst.KeyMapper()); err != nil {
				return fmt.Errorf("%s: %w", *to, err)
			}
		}

		if err := dst.Write(n); err != nil {
			return err
		}

		fmt.Fprintf(out, "wrote %s\n", *to)

		return nil
	}

	fmt.Fprintf(out, "%s: ok (%d top-level keys)\n", flags.Arg(0), n.Len())

	return nil
}

func open(path string, fsys backend.FileSystem) (loader.Backend, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlfile.New(path, yamlfile.WithFS(fsys)), nil
	case ".toml":
		return tomlfile.New(path, tomlfile.WithFS(fsys)), nil
	default:
		return nil, fmt.Errorf("%s: unknown format", path)
	}
}

// respell maps every key of n, nested sections included, through m. Keys are
// split into words first, so "max_conns" becomes "max-conns" and back.
func respell(n tree.Node, m keypath.Mapper) (*tree.Tree, error) {
	out := tree.New()

	for key, entry := range n.All() {
		v, err := respellValue(entry.Value(), m)
		if err != nil {
			return nil, err
		}

		e, err := tree.NewEntry(v)
		if err != nil {
			return nil, err
		}

		if err := out.Set(m.Map(key), e.WithLine(entry.Line).WithComments(entry.Comments)); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func respellValue(v any, m keypath.Mapper) (any, error) {
	switch x := v.(type) {
	case tree.Node:
		return respell(x, m)
	case tree.List:
		items := make([]any, x.Len())
		for i, item := range x.All() {
			var err error
			if items[i], err = respellValue(item, m); err != nil {
				return nil, err
			}
		}

		return tree.NewList(items...)
	default:
		return v, nil
	}
}
