package jsontree

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
)

// buildRoot turns a parsed value into the root of a node tree
func buildRoot(value any, opts Options) (*Root, error) {
	keys, values, _, ok := members(value)
	if !ok {
		leaf, err := buildLeaf(value, jsondoc.Key{}, false, opts)
		if err != nil {
			return nil, err
		}
		return newRoot([]jsondoc.Key{{}}, []Node{leaf}, true, opts), nil
	}

	nodes, err := buildChildren(keys, values, opts)
	if err != nil {
		return nil, err
	}
	return newRoot(keys, nodes, false, opts), nil
}

func buildNode(value any, label jsondoc.Key, opts Options) (Node, error) {
	keys, values, isArray, ok := members(value)
	if !ok {
		return buildLeaf(value, label, true, opts)
	}

	nodes, err := buildChildren(keys, values, opts)
	if err != nil {
		return nil, err
	}
	if len(nodes) > opts.LazyThreshold {
		return newLazyContainer(keys, nodes, isArray, label, true, opts), nil
	}
	return newEagerContainer(keys, nodes, isArray, label, true, opts), nil
}

func buildChildren(keys []jsondoc.Key, values []any, opts Options) ([]Node, error) {
	nodes := make([]Node, len(values))
	for i, v := range values {
		n, err := buildNode(v, keys[i], opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", keys[i].String(), err)
		}
		nodes[i] = n
	}
	return nodes, nil
}

// members splits a container value into keys and values in display order.
// Plain Go maps have no order, so their keys are sorted.
func members(value any) (keys []jsondoc.Key, values []any, isArray bool, ok bool) {
	switch v := value.(type) {
	case *jsondoc.Object:
		keys = make([]jsondoc.Key, 0, v.Len())
		values = make([]any, 0, v.Len())
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			keys = append(keys, jsondoc.Field(pair.Key))
			values = append(values, pair.Value)
		}
		return keys, values, false, true

	case map[string]any:
		names := make([]string, 0, len(v))
		for k := range v {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			keys = append(keys, jsondoc.Field(k))
			values = append(values, v[k])
		}
		return keys, values, false, true

	case []any:
		keys = make([]jsondoc.Key, len(v))
		for i := range v {
			keys[i] = jsondoc.Index(i)
		}
		return keys, v, true, true
	}
	return nil, nil, false, false
}

func buildLeaf(value any, label jsondoc.Key, labeled bool, opts Options) (*Leaf, error) {
	text, kind, err := scalar(value)
	if err != nil {
		return nil, err
	}
	return newLeaf(text, kind, label, labeled, opts.RowHeight), nil
}

func scalar(value any) (string, ValueKind, error) {
	switch v := value.(type) {
	case nil:
		return "null", KindNull, nil
	case string:
		return v, KindString, nil
	case bool:
		return strconv.FormatBool(v), KindBoolean, nil
	case json.Number:
		return v.String(), KindNumber, nil
	case float64:
		return formatFloat(v), KindNumber, nil
	case float32:
		return formatFloat(float64(v)), KindNumber, nil
	case int:
		return strconv.Itoa(v), KindNumber, nil
	case int64:
		return strconv.FormatInt(v, 10), KindNumber, nil
	case int32:
		return strconv.FormatInt(int64(v), 10), KindNumber, nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), KindNumber, nil
	case uint64:
		return strconv.FormatUint(v, 10), KindNumber, nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), KindNumber, nil
	default:
		return "", 0, fmt.Errorf("unsupported value type %T", value)
	}
}

// formatFloat prints integral values without exponent up to 1e21, as JSON encoders do
func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
