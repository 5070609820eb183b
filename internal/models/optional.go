package models

import (
	"encoding/json"
	"strings"
)

// OptionalString tells an absent JSON field apart from one sent as null.
// Set is true whenever the field was present in the payload; a null or
// blank value means "clear".
type OptionalString struct {
	Set   bool
	Value string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = strings.TrimSpace(s)
	return nil
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == "" {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// ApplyTo overwrites dst when the field was supplied.
func (o OptionalString) ApplyTo(dst *string) {
	if o.Set {
		*dst = o.Value
	}
}

// Some returns a supplied value.
func Some(v string) OptionalString {
	return OptionalString{Set: true, Value: v}
}

// Null returns a supplied clear.
func Null() OptionalString {
	return OptionalString{Set: true}
}
