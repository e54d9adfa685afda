package config

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/c360/ringbuf/errors"
)

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Schema returns the embedded JSON Schema that every configuration layer is
// checked against.
func Schema() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

// validateSchema checks one decoded layer against the embedded schema.
// Layers are partial documents, so the schema declares no required fields.
func validateSchema(source string, document map[string]any) error {
	schema, err := compiledSchema()
	if err != nil {
		return errors.WrapFatal(err, "Loader", "validateSchema", "compile embedded schema")
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return errors.WrapInvalid(errors.ErrParsingFailed, "Loader", "validateSchema",
			fmt.Sprintf("%s: %v", source, err))
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return errors.WrapInvalid(errors.ErrInvalidConfig, "Loader", "validateSchema",
		fmt.Sprintf("%s does not match schema: %s", source, strings.Join(problems, "; ")))
}
