package config

import "github.com/invopop/jsonschema"

// BookSchema reflects the JSON Schema of the book file.
func BookSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		DoNotReference:            true,
		FieldNameTag:              "yaml",
	}
	schema := r.Reflect(&Book{})
	schema.Title = "bookgen book file"
	schema.Description = "Input for bookgen: what to write and for whom."
	return schema
}
