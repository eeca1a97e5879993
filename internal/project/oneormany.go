package project

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OneOrMany holds a field that is a scalar for single-token collections and a
// per-token-id array for multi-token collections. It round-trips through JSON
// in whichever shape it was read.
type OneOrMany[T any] struct {
	Values []T
	Many   bool
}

func One[T any](value T) OneOrMany[T] {
	return OneOrMany[T]{Values: []T{value}}
}

func Many[T any](values ...T) OneOrMany[T] {
	return OneOrMany[T]{Values: values, Many: true}
}

func (o OneOrMany[T]) IsZero() bool {
	return len(o.Values) == 0 && !o.Many
}

// Len is the number of stored values.
func (o OneOrMany[T]) Len() int {
	return len(o.Values)
}

// At returns the value for a token index. Scalars answer every index.
func (o OneOrMany[T]) At(i int) T {
	var zero T
	if len(o.Values) == 0 {
		return zero
	}
	if !o.Many {
		return o.Values[0]
	}
	if i < 0 || i >= len(o.Values) {
		return zero
	}
	return o.Values[i]
}

// Scalar returns the single value, or the zero value for an empty field.
func (o OneOrMany[T]) Scalar() T {
	return o.At(0)
}

func (o OneOrMany[T]) MarshalJSON() ([]byte, error) {
	if o.Many {
		values := o.Values
		if values == nil {
			values = []T{}
		}
		return json.Marshal(values)
	}
	if len(o.Values) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(o.Values[0])
}

func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*o = OneOrMany[T]{}
		return nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		var values []T
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return fmt.Errorf("invalid array value: %w", err)
		}
		*o = OneOrMany[T]{Values: values, Many: true}
		return nil
	default:
		var value T
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return fmt.Errorf("invalid scalar value: %w", err)
		}
		*o = OneOrMany[T]{Values: []T{value}}
		return nil
	}
}
