package models

import (
	"bytes"
	"encoding/json"
)

// Field is a JSON member whose presence is tracked separately from its value.
// An absent member leaves Present false; an explicit null sets Present and
// leaves Value nil. Numbers decode as json.Number so no precision is lost
// before validation.
type Field struct {
	Present bool
	Value   interface{}
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(data []byte) error {
	f.Present = true
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(&f.Value)
}

// IsNull reports whether the member was present with a null value.
func (f Field) IsNull() bool {
	return f.Present && f.Value == nil
}

// Set returns a present Field holding v. It is mostly useful in tests.
func Set(v interface{}) Field {
	return Field{Present: true, Value: v}
}
