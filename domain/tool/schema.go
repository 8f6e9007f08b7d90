package tool

import (
	"encoding/json"
	"errors"
)

// InputField is the single property of the function-calling envelope that
// carries a tool's string argument.
const InputField = "input"

// Schema wraps a JSON Schema document.
type Schema struct {
	raw json.RawMessage
}

// NewSchema creates a schema from raw JSON.
func NewSchema(raw json.RawMessage) Schema {
	return Schema{raw: raw}
}

// EmptySchema returns a schema that accepts any input.
func EmptySchema() Schema {
	return Schema{raw: json.RawMessage(`{}`)}
}

// StringInputSchema returns the object schema {"input": string} used to carry
// a single string argument through function-calling APIs.
func StringInputSchema(description string) Schema {
	prop := map[string]any{"type": "string"}
	if description != "" {
		prop["description"] = description
	}
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{InputField: prop},
		"required":   []string{InputField},
	}
	raw, _ := json.Marshal(schema)
	return Schema{raw: raw}
}

// Raw returns the underlying JSON schema.
func (s Schema) Raw() json.RawMessage {
	return s.raw
}

// IsEmpty returns true if the schema is empty or nil.
func (s Schema) IsEmpty() bool {
	return len(s.raw) == 0 || string(s.raw) == "{}" || string(s.raw) == "null"
}

// MarshalJSON implements json.Marshaler.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s.raw == nil {
		return []byte("{}"), nil
	}
	return s.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Schema) UnmarshalJSON(data []byte) error {
	s.raw = data
	return nil
}

// ErrNoInputField is returned when a function-calling envelope lacks the
// input property.
var ErrNoInputField = errors.New("arguments have no \"input\" field")

// DecodeInput extracts the string argument from a function-calling envelope
// such as {"input": "owner/repo"}. A bare JSON string is accepted as well.
func DecodeInput(arguments string) (string, error) {
	if arguments == "" {
		return "", ErrNoInputField
	}

	var bare string
	if err := json.Unmarshal([]byte(arguments), &bare); err == nil {
		return bare, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(arguments), &envelope); err != nil {
		return "", err
	}
	raw, ok := envelope[InputField]
	if !ok {
		return "", ErrNoInputField
	}
	var input string
	if err := json.Unmarshal(raw, &input); err != nil {
		// Non-string values are passed through in their JSON form.
		return string(raw), nil
	}
	return input, nil
}
