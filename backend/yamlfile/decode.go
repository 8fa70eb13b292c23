package yamlfile

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"healconf/keypath"
	"healconf/result"
	"healconf/tree"
)

var lineRe = regexp.MustCompile(`line (\d+)`)

// Parse decodes a YAML document into a tree. An empty document is an empty
// tree; null values are dropped.
func Parse(data []byte) (*tree.Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, syntaxError(err)
	}

	if len(doc.Content) == 0 {
		return tree.New(), nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return tree.New(), nil
	}

	if root.Kind != yaml.MappingNode {
		return nil, result.Errorf("document root must be a mapping").AtLine(root.Line)
	}

	return decodeMapping(root)
}

func syntaxError(err error) *result.ValueError {
	e := result.Wrap(err, "invalid YAML").WithBackend(err.Error())
	if m := lineRe.FindStringSubmatch(err.Error()); m != nil {
		if line, convErr := strconv.Atoi(m[1]); convErr == nil {
			e = e.AtLine(line)
		}
	}

	return e
}

func decodeMapping(n *yaml.Node) (*tree.Tree, error) {
	out := tree.New()

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, result.Errorf("mapping keys must be scalars").AtLine(k.Line)
		}

		value, err := decodeNode(v)
		if err != nil {
			return nil, under(err, keypath.Key(k.Value))
		}

		if value == nil {
			continue
		}

		entry, err := tree.NewEntry(value)
		if err != nil {
			return nil, result.Wrap(err, err.Error()).Under(keypath.Key(k.Value)).AtLine(v.Line)
		}

		entry = entry.WithLine(k.Line).WithComments(tree.Comments{
			Above:  commentLines(k.HeadComment),
			Inline: commentLines(first(v.LineComment, k.LineComment)),
			Below:  commentLines(first(k.FootComment, v.FootComment)),
		})

		if err := out.Set(k.Value, entry); err != nil {
			return nil, result.Wrap(err, err.Error()).Under(keypath.Key(k.Value)).AtLine(k.Line)
		}
	}

	return out, nil
}

func decodeNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}

		return decodeNode(n.Content[0])
	case yaml.AliasNode:
		return decodeNode(n.Alias)
	case yaml.MappingNode:
		t, err := decodeMapping(n)
		if err != nil {
			return nil, err
		}

		return t, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := decodeNode(c)
			if err != nil {
				return nil, under(err, keypath.Index(i))
			}

			if v == nil {
				return nil, result.Errorf("null list item").Under(keypath.Index(i)).AtLine(c.Line)
			}

			items = append(items, v)
		}

		list, err := tree.NewList(items...)
		if err != nil {
			return nil, result.Wrap(err, err.Error()).AtLine(n.Line)
		}

		return list, nil
	case yaml.ScalarNode:
		return decodeScalar(n)
	}

	return nil, result.Errorf("unsupported YAML node").AtLine(n.Line)
}

func decodeScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, result.Wrap(err, err.Error()).AtLine(n.Line)
		}

		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, result.Errorf("integer %s out of range", n.Value).AtLine(n.Line)
		}

		return i, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, result.Wrap(err, err.Error()).AtLine(n.Line)
		}

		return f, nil
	default:
		return n.Value, nil
	}
}

func under(err error, seg keypath.Segment) error {
	if ve, ok := err.(*result.ValueError); ok {
		return ve.Under(seg)
	}

	return err
}

func first(a, b string) string {
	if a != "" {
		return a
	}

	return b
}

// commentLines strips the comment markers yaml.v3 keeps in comment text.
func commentLines(text string) []string {
	if text == "" {
		return nil
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		line = strings.TrimPrefix(line, "#")
		out = append(out, strings.TrimPrefix(line, " "))
	}

	return out
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}
