// Package optional distinguishes absent JSON fields from explicit
// nulls, which a plain pointer field cannot.
package optional

import "encoding/json"

// Value is a tri-state JSON field: absent, null, or set.
// encoding/json only invokes UnmarshalJSON for fields present in the
// payload, so Set stays false for absent ones. A present null leaves
// Val nil, which partial updates read as "clear this column".
type Value[T any] struct {
	Set bool
	Val *T
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.Set = true
	if string(data) == "null" {
		v.Val = nil
		return nil
	}
	return json.Unmarshal(data, &v.Val)
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Val)
}
