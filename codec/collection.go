package codec

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strconv"

	"healconf/keypath"
	"healconf/result"
	"healconf/tree"
)

type pointerCodec struct {
	t    reflect.Type
	elem Codec
}

func buildPointer(r *Resolution, t reflect.Type) (Pair, error) {
	elem, err := r.Resolve(t.Elem())
	if err != nil {
		return Pair{}, err
	}

	pair := Pair{Codec: &pointerCodec{t: t, elem: elem.Codec}}
	if elem.Default != nil {
		pair.Default = func() any {
			p := reflect.New(t.Elem())
			Assign(p.Elem(), elem.Default())

			return p.Interface()
		}
	}

	return pair, nil
}

func (c *pointerCodec) wrap(res result.Result[Decoded]) result.Result[Decoded] {
	if !res.OK() {
		return res
	}

	d := res.Value()
	p := reflect.New(c.t.Elem())
	Assign(p.Elem(), d.Value)
	d.Value = p.Interface()

	return result.Ok(d)
}

func (c *pointerCodec) Decode(s *Session, node any) result.Result[Decoded] {
	return c.wrap(c.elem.Decode(s, node))
}

func (c *pointerCodec) DecodeMissing(s *Session) result.Result[Decoded] {
	md, ok := c.elem.(MissingDecoder)
	if !ok {
		return result.Fail[Decoded](result.Required())
	}

	return c.wrap(md.DecodeMissing(s))
}

func (c *pointerCodec) Encode(s *Session, value any) (any, error) {
	rv, err := valueOf(value, c.t)
	if err != nil {
		return nil, err
	}

	if rv.IsNil() {
		return nil, fmt.Errorf("codec: cannot encode nil %s", c.t)
	}

	return c.elem.Encode(s, rv.Elem().Interface())
}

// listItems returns the items of a list node. With LenientSingleton a scalar
// is read as a list of one, which asks for a rewrite.
func listItems(node any, leniency Leniency) (items []any, coerced, ok bool) {
	switch v := node.(type) {
	case tree.List:
		return v.Items(), false, true
	case tree.Node:
		return nil, false, false
	}

	if leniency.Has(LenientSingleton) && tree.KindOf(node).IsScalar() {
		return []any{node}, true, true
	}

	return nil, false, false
}

// elements decodes every item independently; failures are collected below
// their index and never stop the siblings.
type elements struct {
	values   []any
	nodes    []any
	rewrite  bool
	errs     []*result.ValueError
	omitted  int
	failures bool
}

func decodeElements(c Codec, s *Session, items []any) *elements {
	out := &elements{values: make([]any, 0, len(items)), nodes: make([]any, 0, len(items))}

	for i, item := range items {
		at := s.At(keypath.Index(i))

		res := c.Decode(at, item)
		if !res.OK() {
			out.add(s, result.Under(res.Errors(), keypath.Index(i)), res.Omitted())
			continue
		}

		d := res.Value()
		node := item

		if d.Rewrite {
			replacement, err := encodeReplacement(c, at, d)
			if err != nil {
				out.add(s, []*result.ValueError{result.Wrap(err, err.Error()).Under(keypath.Index(i))}, 0)
				continue
			}

			node, out.rewrite = replacement, true
		}

		out.values = append(out.values, d.Value)
		out.nodes = append(out.nodes, node)
	}

	return out
}

func (e *elements) add(s *Session, errs []*result.ValueError, omitted int) {
	kept, dropped := s.Admit(errs)
	e.errs = append(e.errs, kept...)
	e.omitted += omitted + dropped
	e.failures = true
}

func (e *elements) fail() result.Result[Decoded] {
	return result.Truncated[Decoded](e.errs, e.omitted)
}

type sliceCodec struct {
	t        reflect.Type
	elem     Codec
	leniency Leniency
}

func buildSlice(r *Resolution, t reflect.Type) (Pair, error) {
	elem, err := r.Resolve(t.Elem())
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		Default: func() any { return reflect.MakeSlice(t, 0, 0).Interface() },
		Codec:   &sliceCodec{t: t, elem: elem.Codec, leniency: r.Leniency()},
	}, nil
}

func (c *sliceCodec) Decode(s *Session, node any) result.Result[Decoded] {
	items, coerced, ok := listItems(node, c.leniency)
	if !ok {
		return wrongType("list")
	}

	els := decodeElements(c.elem, s, items)
	if els.failures {
		return els.fail()
	}

	out := reflect.MakeSlice(c.t, len(els.values), len(els.values))
	for i, v := range els.values {
		Assign(out.Index(i), v)
	}

	d := Decoded{Value: out.Interface()}
	if coerced || els.rewrite {
		list, err := tree.NewList(els.nodes...)
		if err != nil {
			return result.Fail[Decoded](result.Wrap(err, err.Error()))
		}

		d.Rewrite, d.Replacement = true, list
	}

	return result.Ok(d)
}

func (c *sliceCodec) Encode(s *Session, value any) (any, error) {
	rv, err := valueOf(value, c.t)
	if err != nil {
		return nil, err
	}

	items := make([]any, rv.Len())
	for i := range items {
		if items[i], err = c.elem.Encode(s.At(keypath.Index(i)), rv.Index(i).Interface()); err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
	}

	return tree.NewList(items...)
}

type setCodec struct {
	t        reflect.Type
	elem     Codec
	leniency Leniency
}

func buildSet(r *Resolution, t reflect.Type) (Pair, error) {
	elemType := reflect.Zero(t).Interface().(setView).setElem()
	if elemType.Kind() == reflect.Interface {
		return Pair{}, fmt.Errorf("%w: set of interface %s", ErrUnsupported, elemType)
	}

	elem, err := r.Resolve(elemType)
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		Default: func() any { return reflect.Zero(t).Interface() },
		Codec:   &setCodec{t: t, elem: elem.Codec, leniency: r.Leniency()},
	}, nil
}

// Decode drops duplicates keeping the first occurrence; a shrunk or
// rewritten set asks for the whole list to be rewritten.
func (c *setCodec) Decode(s *Session, node any) result.Result[Decoded] {
	items, coerced, ok := listItems(node, c.leniency)
	if !ok {
		return wrongType("list")
	}

	els := decodeElements(c.elem, s, items)
	if els.failures {
		return els.fail()
	}

	p := reflect.New(c.t)
	builder := p.Interface().(setBuilder)
	nodes := make([]any, 0, len(els.nodes))

	for i, v := range els.values {
		if builder.setAdd(v) {
			nodes = append(nodes, els.nodes[i])
		}
	}

	d := Decoded{Value: p.Elem().Interface()}
	if coerced || els.rewrite || len(nodes) < len(items) {
		list, err := tree.NewList(nodes...)
		if err != nil {
			return result.Fail[Decoded](result.Wrap(err, err.Error()))
		}

		d.Rewrite, d.Replacement = true, list
	}

	return result.Ok(d)
}

func (c *setCodec) Encode(s *Session, value any) (any, error) {
	rv, err := valueOf(value, c.t)
	if err != nil {
		return nil, err
	}

	values := rv.Interface().(setView).setItems()
	items := make([]any, len(values))

	for i, v := range values {
		if items[i], err = c.elem.Encode(s.At(keypath.Index(i)), v); err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
	}

	return tree.NewList(items...)
}

func isMap(t reflect.Type) bool {
	return t.Kind() == reflect.Map && (t.Key().Kind() == reflect.String || isInteger(t.Key()))
}

type mapCodec struct {
	t    reflect.Type
	elem Codec
}

func buildMap(r *Resolution, t reflect.Type) (Pair, error) {
	elem, err := r.Resolve(t.Elem())
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		Default: func() any { return reflect.MakeMap(t).Interface() },
		Codec:   &mapCodec{t: t, elem: elem.Codec},
	}, nil
}

func (c *mapCodec) key(text string) (reflect.Value, bool) {
	k := reflect.New(c.t.Key()).Elem()

	switch {
	case k.Kind() == reflect.String:
		k.SetString(text)
	case k.CanInt():
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil || k.OverflowInt(i) {
			return k, false
		}

		k.SetInt(i)
	default:
		u, err := strconv.ParseUint(text, 10, 64)
		if err != nil || k.OverflowUint(u) {
			return k, false
		}

		k.SetUint(u)
	}

	return k, true
}

func (c *mapCodec) Decode(s *Session, node any) result.Result[Decoded] {
	n, ok := node.(tree.Node)
	if !ok {
		return wrongType("map")
	}

	out := reflect.MakeMapWithSize(c.t, n.Len())
	replacement := tree.New()

	var (
		errs    []*result.ValueError
		omitted int
		changed bool
	)

	fail := func(found []*result.ValueError, nested int) {
		kept, dropped := s.Admit(found)
		errs = append(errs, kept...)
		omitted += nested + dropped
	}

	for key, entry := range n.All() {
		seg := keypath.Key(key)
		at := s.At(seg)

		k, valid := c.key(key)
		if !valid {
			fail([]*result.ValueError{result.Errorf("invalid key %q", key).Under(seg).AtLine(entry.Line)}, 0)
			continue
		}

		res := c.elem.Decode(at, entry.Value())
		if !res.OK() {
			located := make([]*result.ValueError, len(res.Errors()))
			for i, e := range res.Errors() {
				located[i] = e.Under(seg).AtLine(entry.Line)
			}

			fail(located, res.Omitted())

			continue
		}

		d := res.Value()
		v := reflect.New(c.t.Elem()).Elem()
		Assign(v, d.Value)
		out.SetMapIndex(k, v)

		if d.Rewrite {
			node, err := encodeReplacement(c.elem, at, d)
			if err != nil {
				fail([]*result.ValueError{result.Wrap(err, err.Error()).Under(seg).AtLine(entry.Line)}, 0)
				continue
			}

			changed = true
			entry = tree.MustEntry(node).WithLine(entry.Line).WithComments(entry.Comments)
		}

		if err := replacement.Set(key, entry); err != nil {
			fail([]*result.ValueError{result.Wrap(err, err.Error()).Under(seg).AtLine(entry.Line)}, 0)
		}
	}

	if len(errs) > 0 || omitted > 0 {
		return result.Truncated[Decoded](errs, omitted)
	}

	d := Decoded{Value: out.Interface()}
	if changed {
		d.Rewrite, d.Replacement = true, replacement
	}

	return result.Ok(d)
}

func keyText(k reflect.Value) string {
	switch {
	case k.Kind() == reflect.String:
		return k.String()
	case k.CanInt():
		return strconv.FormatInt(k.Int(), 10)
	default:
		return strconv.FormatUint(k.Uint(), 10)
	}
}

// Encode writes keys in sorted order.
func (c *mapCodec) Encode(s *Session, value any) (any, error) {
	rv, err := valueOf(value, c.t)
	if err != nil {
		return nil, err
	}

	type pair struct {
		key   string
		value reflect.Value
	}

	pairs := make([]pair, 0, rv.Len())

	it := rv.MapRange()
	for it.Next() {
		pairs = append(pairs, pair{key: keyText(it.Key()), value: it.Value()})
	}

	slices.SortFunc(pairs, func(a, b pair) int { return cmp.Compare(a.key, b.key) })

	out := tree.New()

	for _, p := range pairs {
		node, err := c.elem.Encode(s.At(keypath.Key(p.key)), p.value.Interface())
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", p.key, err)
		}

		if err := out.Put(p.key, node); err != nil {
			return nil, fmt.Errorf("key %q: %w", p.key, err)
		}
	}

	return out, nil
}
