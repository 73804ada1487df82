package outline

import "github.com/invopop/jsonschema"

// Outline is the raw toc value as decoded from a book file.
type Outline []any

// JSONSchema describes the accepted toc shapes for schema generation.
func (Outline) JSONSchema() *jsonschema.Schema {
	one := uint64(1)
	title := &jsonschema.Schema{Type: "string", Description: "Chapter title"}
	return &jsonschema.Schema{
		Type:        "array",
		Description: "Ordered chapters. A string is a chapter without subsections; a single-key mapping is a chapter with subsections.",
		Items: &jsonschema.Schema{
			OneOf: []*jsonschema.Schema{
				title,
				{
					Type:          "object",
					MinProperties: &one,
					MaxProperties: &one,
					AdditionalProperties: &jsonschema.Schema{
						Type:  "array",
						Items: &jsonschema.Schema{Type: "string", Description: "Subsection title"},
					},
				},
			},
		},
	}
}
