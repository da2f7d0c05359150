package json

import (
	"fmt"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/kaptinlin/jsonschema"
)

// Validator a compiled JSON Schema
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compile the schema, it could be a JSON string, bytes or any JSON-serializable value
func NewValidator(schema interface{}) (*Validator, error) {
	var data []byte
	switch v := schema.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		var err error
		data, err = jsoniter.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schema: %w", err)
		}
	}

	compiled, err := jsonschema.NewCompiler().Compile(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON Schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate the data, the error lists the invalid fields
func (v *Validator) Validate(data interface{}) error {
	result := v.schema.Validate(data)
	if result.IsValid() {
		return nil
	}

	messages := []string{}
	for field, err := range result.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", field, err.Message))
	}
	sort.Strings(messages)
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// Validate the data against the schema
func Validate(data interface{}, schema interface{}) error {
	validator, err := NewValidator(schema)
	if err != nil {
		return err
	}
	return validator.Validate(data)
}
