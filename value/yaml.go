package value

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse decodes YAML bytes into a Value tree. A YAML mapping becomes a
// MapKind Value backed by an insertion-ordered Map (gopkg.in/yaml.v3
// preserves key order on the decoded *yaml.Node, which is what lets us keep
// that order instead of losing it the way a plain map[string]any would).
func Parse(data []byte) (Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Null(), fmt.Errorf("configcrunch: parsing yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return Null(), nil
	}
	// a document node's single child is the actual root.
	return FromYAMLNode(node.Content[0])
}

// FromYAMLNode converts a single *yaml.Node (already unwrapped from its
// enclosing DocumentNode) into a Value.
func FromYAMLNode(n *yaml.Node) (Value, error) {
	if n == nil {
		return Null(), nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return FromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return FromYAMLNode(n.Alias)
	case yaml.ScalarNode:
		return scalarFromYAMLNode(n), nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := FromYAMLNode(c)
			if err != nil {
				return Null(), err
			}
			items = append(items, v)
		}
		return Seq(items), nil
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return Null(), fmt.Errorf("configcrunch: non-scalar mapping key at line %d", key.Line)
			}
			v, err := FromYAMLNode(n.Content[i+1])
			if err != nil {
				return Null(), err
			}
			m.Set(key.Value, v)
		}
		return FromMap(m), nil
	default:
		return Null(), fmt.Errorf("configcrunch: unsupported yaml node kind %v", n.Kind)
	}
}

func scalarFromYAMLNode(n *yaml.Node) Value {
	switch n.Tag {
	case "!!null":
		return Null()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return Bool(b)
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int(i)
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return Float(f)
		}
	}
	return String(n.Value)
}

// ToYAMLNode renders a Value tree back into a *yaml.Node, the inverse of
// FromYAMLNode. DocKind values render their Body only, without the kind's
// header (callers that need the header wrap it themselves).
func ToYAMLNode(v Value) *yaml.Node {
	switch v.kind {
	case NullKind:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case BoolKind:
		n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool"}
		_ = n.Encode(v.b)
		return n
	case IntKind:
		n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int"}
		_ = n.Encode(v.i)
		return n
	case FloatKind:
		n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float"}
		_ = n.Encode(v.f)
		return n
	case StringKind:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}
	case SeqKind:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.seq {
			n.Content = append(n.Content, ToYAMLNode(item))
		}
		return n
	case MapKind:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for pair := v.m.Oldest(); pair != nil; pair = pair.Next() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Key},
				ToYAMLNode(pair.Value))
		}
		return n
	case DocKind:
		return ToYAMLNode(FromMap(v.doc.Body()))
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// ToPlain recursively converts a Value into plain Go containers
// (map[string]any, []any, and scalars) suitable for JSON/YAML re-encoding
// outside this package. DocKind values are unwrapped to {header: body}.
func ToPlain(v Value, header func(Doc) string) any {
	switch v.kind {
	case NullKind:
		return nil
	case BoolKind:
		return v.b
	case IntKind:
		return v.i
	case FloatKind:
		return v.f
	case StringKind:
		return v.s
	case SeqKind:
		out := make([]any, 0, len(v.seq))
		for _, item := range v.seq {
			out = append(out, ToPlain(item, header))
		}
		return out
	case MapKind:
		out := make(map[string]any, v.m.Len())
		for pair := v.m.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = ToPlain(pair.Value, header)
		}
		return out
	case DocKind:
		return map[string]any{
			header(v.doc): ToPlain(FromMap(v.doc.Body()), header),
		}
	default:
		return nil
	}
}
