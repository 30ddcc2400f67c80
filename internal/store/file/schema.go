package file

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of a catalog Document.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&Document{})
	schema.Title = "Recipe costing catalog"
	return json.MarshalIndent(schema, "", "  ")
}
