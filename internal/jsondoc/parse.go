package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is an object value with members in document order
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty ordered object
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// ErrInvalidJSON is returned when the input is not a single well-formed JSON value
var ErrInvalidJSON = errors.New("invalid JSON")

// Parse decodes a JSON document into ordered values: *Object, []any, string,
// json.Number, bool and nil. Object members keep their document order; a repeated
// key keeps its first position and its last value.
func Parse(raw []byte) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty document: %w", ErrInvalidJSON)
	}
	if !json.Valid(raw) {
		return nil, ErrInvalidJSON
	}

	value, dataType, _, err := jsonparser.Get(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return convert(value, dataType)
}

func convert(value []byte, dataType jsonparser.ValueType) (any, error) {
	switch dataType {
	case jsonparser.Object:
		return convertObject(value)
	case jsonparser.Array:
		return convertArray(value)
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, fmt.Errorf("failed to decode string: %w", err)
		}
		return s, nil
	case jsonparser.Number:
		return json.Number(string(value)), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return nil, fmt.Errorf("failed to decode boolean: %w", err)
		}
		return b, nil
	case jsonparser.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected value %q: %w", value, ErrInvalidJSON)
	}
}

func convertObject(raw []byte) (*Object, error) {
	obj := NewObject()
	err := jsonparser.ObjectEach(raw, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		v, err := convert(value, dataType)
		if err != nil {
			return err
		}
		obj.Set(string(key), v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}
	return obj, nil
}

func convertArray(raw []byte) ([]any, error) {
	items := []any{}
	var convErr error
	_, err := jsonparser.ArrayEach(raw, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if convErr != nil {
			return
		}
		if err != nil {
			convErr = err
			return
		}
		v, err := convert(value, dataType)
		if err != nil {
			convErr = err
			return
		}
		items = append(items, v)
	})
	if convErr != nil {
		return nil, convErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode array: %w", err)
	}
	return items, nil
}
