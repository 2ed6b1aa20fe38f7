package jsondoc

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML document into the same ordered values Parse produces.
// Only the first document of a stream is used.
func ParseYAML(raw []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	return fromYAML(&doc, 0)
}

const maxAliasDepth = 64

func fromYAML(n *yaml.Node, depth int) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0], depth)

	case yaml.AliasNode:
		if depth >= maxAliasDepth {
			return nil, fmt.Errorf("line %d: alias nesting too deep", n.Line)
		}
		return fromYAML(n.Alias, depth+1)

	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.ShortTag() == "!!merge" {
				if err := mergeInto(obj, v, depth); err != nil {
					return nil, err
				}
				continue
			}
			val, err := fromYAML(v, depth)
			if err != nil {
				return nil, err
			}
			obj.Set(k.Value, val)
		}
		return obj, nil

	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := fromYAML(c, depth)
			if err != nil {
				return nil, err
			}
			items = append(items, val)
		}
		return items, nil

	case yaml.ScalarNode:
		return scalarFromYAML(n)
	}

	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

// mergeInto applies a "<<" merge key; explicit keys already set win
func mergeInto(obj *Object, v *yaml.Node, depth int) error {
	sources := []*yaml.Node{v}
	if v.Kind == yaml.SequenceNode {
		sources = v.Content
	}
	for _, src := range sources {
		merged, err := fromYAML(src, depth)
		if err != nil {
			return err
		}
		m, ok := merged.(*Object)
		if !ok {
			return fmt.Errorf("line %d: merge value is not a mapping", src.Line)
		}
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			if _, exists := obj.Get(pair.Key); !exists {
				obj.Set(pair.Key, pair.Value)
			}
		}
	}
	return nil
}

func scalarFromYAML(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// Out of int64 range; keep the literal
			return json.Number(n.Value), nil
		}
		return json.Number(strconv.FormatInt(i, 10)), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return n.Value, nil
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	default:
		return n.Value, nil
	}
}
