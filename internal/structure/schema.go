package structure

import (
	_ "embed"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

// documentSchema is compiled once; the embedded schema is fixed at build time.
var documentSchema = jsonschema.MustCompileString("schema.json", schemaJSON)

// Schema returns the JSON schema configuration documents are validated against.
func Schema() string {
	return schemaJSON
}

// Validate checks a decoded JSON value against the document schema.
func Validate(v interface{}) error {
	if err := documentSchema.Validate(v); err != nil {
		return errors.Wrap(err, "schema validation failed")
	}
	return nil
}
