package schema

import (
	"fmt"

	"healconf/codec"
	"healconf/keypath"
	"healconf/tree"
)

// Write encodes vals into a fresh tree.
func Write(s *Schema, vals *Values, opts ...Option) (*tree.Tree, error) {
	out := tree.New()
	if err := WriteInto(s, vals, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// WriteInto encodes vals into out. Absent optional entries are skipped;
// declared comments replace those already stored under a key.
func WriteInto(s *Schema, vals *Values, out *tree.Tree, opts ...Option) error {
	cfg := newConfig(opts)

	sess := codec.NewSession(cfg.mapper, nil, cfg.prefix)
	sess.Comments = cfg.comments

	return s.write(sess, vals, out)
}

func (s *Schema) write(sess *codec.Session, vals *Values, out *tree.Tree) error {
	for _, layer := range s.Layers {
		for _, e := range layer.Entries {
			key := sess.Key(e.Label)
			at := sess.At(keypath.Key(key))

			value, present := vals.values[e]
			if !present {
				if e.Optional {
					continue
				}

				return fmt.Errorf("%s: %w", at.Path(), ErrIncomplete)
			}

			node, err := e.Codec.Encode(at, value)
			if err != nil {
				return fmt.Errorf("%s: %w", at.Path(), err)
			}

			entry, err := tree.NewEntry(node)
			if err != nil {
				return fmt.Errorf("%s: %w", at.Path(), err)
			}

			comments := s.Metadata(e).Comments.Only(sess.KeepComment)
			if old, ok := out.Get(key); ok {
				entry = entry.WithLine(old.Line)
				if comments.IsZero() {
					comments = old.Comments
				}
			}

			if err := out.Set(key, entry.WithComments(comments)); err != nil {
				return fmt.Errorf("%s: %w", at.Path(), err)
			}
		}
	}

	return nil
}
