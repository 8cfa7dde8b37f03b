package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ===============================
// CUSTOM TYPES
// ===============================

// StringList is a sequence of strings persisted as JSON text in a single column.
// Reading NULL, an empty string or malformed JSON yields an empty list.
type StringList []string

// Scan implements sql.Scanner
func (s *StringList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	*s = DecodeStringList(raw)
	return nil
}

// Value implements driver.Valuer
func (s StringList) Value() (driver.Value, error) {
	return EncodeStringList(s), nil
}

// MarshalJSON keeps a nil list rendered as [] rather than null.
func (s StringList) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// EncodeStringList returns the column representation of a list.
func EncodeStringList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeStringList parses the column representation of a list.
func DecodeStringList(raw []byte) StringList {
	if len(raw) == 0 {
		return StringList{}
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return StringList{}
	}
	return StringList(items)
}

// JSONDocument holds an opaque JSON value stored verbatim in a text column.
type JSONDocument json.RawMessage

// Scan implements sql.Scanner
func (d *JSONDocument) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = nil
	case string:
		*d = JSONDocument(v)
	case []byte:
		buf := make([]byte, len(v))
		copy(buf, v)
		*d = JSONDocument(buf)
	default:
		return fmt.Errorf("cannot scan %T into JSONDocument", value)
	}
	return nil
}

// Value implements driver.Valuer
func (d JSONDocument) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return string(d), nil
}

// MarshalJSON emits the stored document as-is. Invalid stored text is emitted as a JSON string.
func (d JSONDocument) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	if !json.Valid(d) {
		return json.Marshal(string(d))
	}
	return []byte(d), nil
}

// UnmarshalJSON stores the raw document.
func (d *JSONDocument) UnmarshalJSON(data []byte) error {
	if d == nil {
		return fmt.Errorf("JSONDocument: UnmarshalJSON on nil pointer")
	}
	if string(data) == "null" {
		*d = nil
		return nil
	}
	*d = append((*d)[0:0], data...)
	return nil
}

// NewJSONDocument marshals v into a document.
func NewJSONDocument(v interface{}) (JSONDocument, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return JSONDocument(data), nil
}

// Ptr returns a pointer to v. Handy for building filters and partial updates.
func Ptr[T any](v T) *T {
	return &v
}
