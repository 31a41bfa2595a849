package configcrunch

import (
	"github.com/configcrunch/configcrunch/schema"
	"github.com/configcrunch/configcrunch/value"
)

// mapValueOf builds a MapKind value.Value from alternating string key/value
// pairs, for tests that construct a document body without a YAML fixture.
func mapValueOf(pairs ...string) value.Value {
	m := value.NewMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], value.String(pairs[i+1]))
	}
	return value.FromMap(m)
}

// Two small document kinds used across this package's tests, grounded on
// the original implementation's own Base/Level test fixtures: a document
// that can hold nested documents keyed by name, by position in a list, or
// directly, and a document that can hold a single nested document back.

const baseSchemaJSON = `{
	"type": "object",
	"properties": {
		"str_field": {"type": "string"},
		"int_field": {"type": "integer"},
		"level_dict": {"type": "object"},
		"level_array": {"type": "array"},
		"level_direct": {"type": "object"},
		"more": {}
	},
	"additionalProperties": false
}`

const levelSchemaJSON = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"base_ref": {"type": "object"},
		"more": {}
	},
	"required": ["name"],
	"additionalProperties": false
}`

func init() {
	RegisterKind(&Kind{
		Name:   "base",
		Header: "base",
		Schema: schema.MustCompile("base.json", []byte(baseSchemaJSON)),
		SubDocuments: []SubDocumentDescriptor{
			{Selector: "level_dict[]", Kind: "level"},
			{Selector: "level_array[]", Kind: "level"},
			{Selector: "level_direct", Kind: "level"},
		},
		Helpers: map[string]HelperFunc{
			"simple_helper": func(doc *Document) any {
				return func() string { return "simple" }
			},
		},
	})

	RegisterKind(&Kind{
		Name:   "level",
		Header: "level",
		Schema: schema.MustCompile("level.json", []byte(levelSchemaJSON)),
		SubDocuments: []SubDocumentDescriptor{
			{Selector: "base_ref", Kind: "base"},
		},
		Helpers: map[string]HelperFunc{
			"level_helper": func(doc *Document) any {
				return func() string { return "level" }
			},
			"level_helper_taking_param": func(doc *Document) any {
				return func(param string) string { return "level_param: " + param }
			},
		},
	})
}
