package jq

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/itchyny/gojq"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// convertValue normalizes a value into a gojq-compatible shape.
// unstructured objects contribute their backing map, maps and non-byte
// slices pass through, everything else round-trips through JSON.
func convertValue(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	if v, ok := value.(unstructured.Unstructured); ok {
		return v.Object, nil
	}

	if v, ok := value.(*unstructured.Unstructured); ok {
		return v.Object, nil
	}

	rv := reflect.ValueOf(value)

	if rv.Kind() == reflect.Map {
		return value, nil
	}

	if rv.Kind() == reflect.Slice {
		if _, isByteSlice := value.([]byte); !isByteSlice {
			slice := make([]any, rv.Len())
			for i := range rv.Len() {
				slice[i] = rv.Index(i).Interface()
			}

			return slice, nil
		}
	}

	var normalized any

	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, &normalized); err != nil {
		return nil, fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return normalized, nil
}

// Query executes a jq query against the provided value and returns the first
// result cast to T. A nil/null result yields the zero value of T.
func Query[T any](value any, jqQuery string) (T, error) {
	var zero T

	compiled, err := gojq.Parse(jqQuery)
	if err != nil {
		return zero, fmt.Errorf("failed to parse jq query: %w", err)
	}

	normalized, err := convertValue(value)
	if err != nil {
		return zero, err
	}

	iter := compiled.Run(normalized)

	result, ok := iter.Next()
	if !ok {
		return zero, nil
	}

	if err, isErr := result.(error); isErr {
		return zero, fmt.Errorf("jq query error: %w", err)
	}

	if result == nil {
		return zero, nil
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("query result type mismatch: expected %T, got %T (value: %v)",
			zero, result, result)
	}

	return typed, nil
}
