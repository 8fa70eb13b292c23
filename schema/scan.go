package schema

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"healconf/codec"
)

type embed struct {
	t     reflect.Type
	index int
}

type scanner struct {
	builder   *Builder
	schema    *Schema
	ancestors map[reflect.Type][]embed
	stack     map[reflect.Type]bool
	callables map[string]bool
}

func newScanner(b *Builder, root reflect.Type) *scanner {
	return &scanner{
		builder: b,
		schema: &Schema{
			Type:    root,
			meta:    make(map[metaKey]Metadata),
			byLabel: make(map[string]*Entry),
			layerAt: make(map[reflect.Type]int),
		},
		ancestors: make(map[reflect.Type][]embed),
		stack:     make(map[reflect.Type]bool),
		callables: make(map[string]bool),
	}
}

func (sc *scanner) scan() (*Schema, error) {
	if err := sc.visit(sc.schema.Type, nil); err != nil {
		return nil, err
	}

	pt := reflect.PointerTo(sc.schema.Type)
	for i := range pt.NumMethod() {
		m := pt.Method(i)
		sc.callable(&Entry{Label: m.Name, Kind: EntryCallable, Type: m.Type, Layer: sc.schema.Type})
	}

	return sc.schema, nil
}

func (sc *scanner) callable(e *Entry) {
	if sc.callables[e.Label] {
		return
	}

	sc.callables[e.Label] = true
	sc.schema.Callables = append(sc.schema.Callables, e)
}

// visit scans layer t reached through path, then its embedded layers. A
// layer seen before only gains the new path, as do its own ancestors.
func (sc *scanner) visit(t reflect.Type, path []int) error {
	if sc.stack[t] {
		return &codec.DefinitionError{Type: t, Err: codec.ErrCycle}
	}

	if i, ok := sc.schema.layerAt[t]; ok {
		sc.schema.Layers[i].Paths = append(sc.schema.Layers[i].Paths, path)

		return sc.visitAncestors(t, path)
	}

	sc.stack[t] = true
	defer delete(sc.stack, t)

	sc.schema.layerAt[t] = len(sc.schema.Layers)
	sc.schema.Layers = append(sc.schema.Layers, Layer{Type: t, Paths: [][]int{path}})

	var entries []*Entry

	for i := range t.NumField() {
		f := t.Field(i)

		tag, err := parseConfTag(t, f)
		if err != nil {
			return err
		}

		if tag.skip {
			continue
		}

		if ft := indirect(f.Type); f.Anonymous && tag.name == "" && ft.Kind() == reflect.Struct {
			if !f.IsExported() && f.Type.Kind() == reflect.Pointer {
				return &codec.DefinitionError{Type: t, Entry: f.Name, Err: codec.ErrInaccessible}
			}

			sc.ancestors[t] = append(sc.ancestors[t], embed{t: ft, index: i})

			continue
		}

		if !f.IsExported() {
			if tag.present {
				return &codec.DefinitionError{Type: t, Entry: f.Name, Err: codec.ErrInaccessible}
			}

			continue
		}

		label := tag.name
		if label == "" {
			label = f.Name
		}

		if f.Type.Kind() == reflect.Func {
			if f.Type.NumIn() > 0 {
				return &codec.DefinitionError{Type: t, Entry: label, Err: codec.ErrParameterized}
			}

			sc.callable(&Entry{Label: label, Kind: EntryCallable, Type: f.Type, Layer: t, Index: []int{i}})

			continue
		}

		if prev, dup := sc.schema.byLabel[label]; dup {
			if prev.Layer == t {
				return &codec.DefinitionError{
					Type:  t,
					Entry: f.Name,
					Err:   fmt.Errorf("%w: label %q already used by %s", codec.ErrInvalidTag, label, prev.fieldName(t)),
				}
			}

			if fieldType(prev) == f.Type {
				prev.aliases = append(prev.aliases, alias{layer: t, index: []int{i}})
			}

			continue
		}

		e, err := sc.entry(t, f, label, tag.optional)
		if err != nil {
			return err
		}

		sc.schema.byLabel[label] = e
		entries = append(entries, e)
	}

	sc.schema.Layers[sc.schema.layerAt[t]].Entries = entries

	return sc.visitAncestors(t, path)
}

func (sc *scanner) visitAncestors(t reflect.Type, path []int) error {
	for _, a := range sc.ancestors[t] {
		if err := sc.visit(a.t, append(slices.Clone(path), a.index)); err != nil {
			return err
		}
	}

	return nil
}

func (sc *scanner) entry(layer reflect.Type, f reflect.StructField, label string, optional bool) (*Entry, error) {
	e := &Entry{
		Label:    label,
		Kind:     EntryData,
		Optional: optional,
		Type:     f.Type,
		Layer:    layer,
		Index:    []int{f.Index[0]},
	}

	if f.Type.Kind() == reflect.Pointer {
		e.Optional, e.pointer, e.Type = true, true, f.Type.Elem()
	}

	pair, err := sc.builder.registry.Resolve(e.Type)
	if err != nil {
		return nil, &codec.DefinitionError{Type: layer, Entry: label, Err: err}
	}

	e.Codec = pair.Codec

	meta, err := parseMetadata(f, e.Type)
	if err != nil {
		return nil, &codec.DefinitionError{Type: layer, Entry: label, Err: err}
	}

	sc.schema.meta[metaKey{layer: layer, label: label}] = meta

	switch text, tagged := f.Tag.Lookup("default"); {
	case tagged:
		e.Default, err = tagDefault(text, pair.Codec)
	case pair.Default != nil && !e.Optional:
		e.Default = pair.Default
	default:
		e.Default, err = fallback(layer, f, e.Type)
	}

	if err != nil {
		return nil, &codec.DefinitionError{Type: layer, Entry: label, Err: err}
	}

	return e, nil
}

func (e *Entry) fieldName(layer reflect.Type) string {
	return layer.Field(e.Index[0]).Name
}

func fieldType(e *Entry) reflect.Type {
	if e.pointer {
		return reflect.PointerTo(e.Type)
	}

	return e.Type
}

func indirect(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}

	return t
}

type confTag struct {
	name     string
	optional bool
	skip     bool
	present  bool
}

func parseConfTag(layer reflect.Type, f reflect.StructField) (confTag, error) {
	raw, present := f.Tag.Lookup("conf")
	if raw == "-" {
		return confTag{skip: true, present: true}, nil
	}

	name, rest, _ := strings.Cut(raw, ",")
	tag := confTag{name: name, present: present}

	for _, opt := range strings.Split(rest, ",") {
		switch opt {
		case "":
		case "optional":
			tag.optional = true
		default:
			return tag, &codec.DefinitionError{
				Type:  layer,
				Entry: f.Name,
				Err:   fmt.Errorf("%w: unknown conf option %q", codec.ErrInvalidTag, opt),
			}
		}
	}

	return tag, nil
}
