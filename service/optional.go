package service

import (
	"bytes"
	"encoding/json"
)

// Optional tells apart a JSON field that was left out from one that was
// explicitly set to null
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Only called when the key is present, so Set stays false for missing keys
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true

	if bytes.Equal(b, []byte("null")) {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	o.Value = &v
	return nil
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}
