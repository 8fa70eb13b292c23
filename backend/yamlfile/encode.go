package yamlfile

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"healconf/tree"
)

func encodeTree(n tree.Node) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for key, entry := range n.All() {
		v, err := encodeValue(entry.Value())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}

		k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		k.HeadComment = commentText(entry.Comments.Above)
		k.FootComment = commentText(entry.Comments.Below)
		v.LineComment = commentText(entry.Comments.Inline)

		out.Content = append(out.Content, k, v)
	}

	return out, nil
}

func encodeValue(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case bool:
		return scalar("!!bool", strconv.FormatBool(x)), nil
	case int8:
		return scalar("!!int", strconv.FormatInt(int64(x), 10)), nil
	case int16:
		return scalar("!!int", strconv.FormatInt(int64(x), 10)), nil
	case int32:
		return scalar("!!int", strconv.FormatInt(int64(x), 10)), nil
	case int64:
		return scalar("!!int", strconv.FormatInt(x, 10)), nil
	case float32:
		return scalar("!!float", formatFloat(float64(x))), nil
	case float64:
		return scalar("!!float", formatFloat(x)), nil
	case tree.Char:
		return scalar("!!str", string(x)), nil
	case string:
		n := scalar("!!str", x)
		if strings.Contains(x, "\n") {
			n.Style = yaml.LiteralStyle
		}

		return n, nil
	case tree.List:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range x.All() {
			c, err := encodeValue(item)
			if err != nil {
				return nil, err
			}

			seq.Content = append(seq.Content, c)
		}

		return seq, nil
	case tree.Node:
		return encodeTree(x)
	}

	return nil, fmt.Errorf("%w: %T", tree.ErrNotCanonical, v)
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func commentText(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			out[i] = "#"
			continue
		}

		out[i] = "# " + line
	}

	return strings.Join(out, "\n")
}
