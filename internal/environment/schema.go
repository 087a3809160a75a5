package environment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ErrSchema is returned when a serialized record has the wrong shape.
var ErrSchema = errors.New("environment document does not match schema")

// documentSchema pins the exact set of keys the front-end reads.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "required": ["production", "apiServerUrl", "auth0"],
  "properties": {
    "production": {"type": "boolean"},
    "apiServerUrl": {"type": "string", "minLength": 1},
    "auth0": {
      "type": "object",
      "additionalProperties": false,
      "required": ["url", "audience", "clientId", "callbackURL"],
      "properties": {
        "url": {"type": "string", "minLength": 1},
        "audience": {"type": "string", "minLength": 1},
        "clientId": {"type": "string", "minLength": 1},
        "callbackURL": {"type": "string", "minLength": 1}
      }
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
})

// SchemaError lists every schema violation in a document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSchema.Error(), strings.Join(e.Problems, "; "))
}

// Is lets callers match with errors.Is(err, ErrSchema).
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// ValidateDocument checks that doc is a JSON object with exactly the
// production, apiServerUrl and auth0 keys, and the four nested auth0 keys.
func ValidateDocument(doc []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile environment schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
	}
	return &SchemaError{Problems: problems}
}

// Decode checks the document shape and unmarshals it. Values are not
// validated; call Validate on the result.
func Decode(doc []byte) (Environment, error) {
	if err := ValidateDocument(doc); err != nil {
		return Environment{}, err
	}

	var env Environment
	if err := json.Unmarshal(doc, &env); err != nil {
		return Environment{}, fmt.Errorf("decode environment: %w", err)
	}
	return env, nil
}
