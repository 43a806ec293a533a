package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

//go:generate go run ../tools/schema-generator -o ../schema/sessionlog.schema.json

// GenerateSchema reflects the JSON Schema of the configuration file.
// Top-level keys outside Config are allowed; they become extensions.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		DoNotReference:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "sessionlog configuration"
	schema.Description = "Settings for the sessionlog maintenance tool."
	schema.AdditionalProperties = jsonschema.TrueSchema

	return json.MarshalIndent(schema, "", "  ")
}
