package schema

import (
	"healconf/codec"
	"healconf/keypath"
	"healconf/result"
	"healconf/tree"
)

// Read decodes node against s. Every entry is visited even after failures;
// the errors of the whole walk, nested sections and list elements included,
// share one cap and keep traversal order.
func Read(s *Schema, node tree.Node, opts ...Option) result.Result[*Loaded] {
	cfg := newConfig(opts)

	if node == nil {
		node = tree.Empty()
	}

	budget := result.NewBudget(cfg.maxErrors)
	sess := codec.NewSession(cfg.mapper, budget, cfg.prefix)

	res := s.read(sess, node)
	if !res.OK() {
		errs := res.Errors()
		if !cfg.prefix.IsRoot() {
			for i, e := range errs {
				errs[i] = e.UnderPath(cfg.prefix)
			}
		}

		return result.Truncated[*Loaded](errs, budget.Omitted())
	}

	loaded := &Loaded{Values: res.Value(), Updates: sess.Updates()}
	for _, u := range loaded.Updates {
		cfg.listener(u)
	}

	return result.Ok(loaded)
}

// walk collects the errors of one section level.
type walk struct {
	budget  *result.Budget
	errs    []*result.ValueError
	omitted int
}

func (w *walk) fold(errs []*result.ValueError, omitted int, seg keypath.Segment, line int) {
	located := make([]*result.ValueError, len(errs))
	for i, e := range errs {
		located[i] = e.Under(seg).AtLine(line)
	}

	admitted := w.budget.Admit(located)
	w.errs = append(w.errs, admitted...)
	w.omitted += omitted + len(located) - len(admitted)
}

func (w *walk) failed() bool { return len(w.errs) > 0 || w.omitted > 0 }

func (s *Schema) read(sess *codec.Session, node tree.Node) result.Result[*Values] {
	vals := NewValues(s)
	w := &walk{budget: sess.Budget}

	for _, layer := range s.Layers {
		for _, e := range layer.Entries {
			key := sess.Key(e.Label)
			seg := keypath.Key(key)
			at := sess.At(seg)

			entry, found := node.Get(key)
			if !found {
				s.readMissing(at, e, vals, w, seg)
				continue
			}

			res := e.Codec.Decode(at, entry.Value())
			if !res.OK() {
				w.fold(res.Errors(), res.Omitted(), seg, entry.Line)
				continue
			}

			d := res.Value()

			if r := s.Metadata(e).Range; r != nil {
				if n, ok := numberOf(d.Value); ok && !r.Contains(n) {
					w.fold([]*result.ValueError{result.Errorf("value %v out of range %s", d.Value, r)}, 0, seg, entry.Line)
					continue
				}
			}

			vals.values[e] = d.Value

			if d.Rewrite && !d.Tracked {
				at.Record(result.Updated)
			}
		}
	}

	if w.failed() {
		return result.Truncated[*Values](w.errs, w.omitted)
	}

	return result.Ok(vals)
}

func (s *Schema) readMissing(at *codec.Session, e *Entry, vals *Values, w *walk, seg keypath.Segment) {
	if e.Default != nil {
		if v := e.Default(); v != nil {
			vals.values[e] = v
			at.Record(result.Missing)

			return
		}
	}

	if e.Optional {
		return
	}

	if md, ok := e.Codec.(codec.MissingDecoder); ok {
		res := md.DecodeMissing(at)
		if !res.OK() {
			w.fold(res.Errors(), res.Omitted(), seg, 0)
			return
		}

		vals.values[e] = res.Value().Value

		return
	}

	w.fold([]*result.ValueError{result.Required()}, 0, seg, 0)
}
