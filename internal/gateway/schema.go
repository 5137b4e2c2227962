package gateway

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const resumeSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "email": {"type": "string"},
    "phone": {"type": "string"},
    "skills": {"type": "array", "items": {"type": "string"}},
    "experience_years": {"type": "number", "minimum": 0},
    "summary": {"type": "string"}
  },
  "required": ["name", "email", "skills", "experience_years", "summary"]
}`

const rankingSchema = `{
  "type": "object",
  "properties": {
    "score": {"type": "number"},
    "reasoning": {"type": "string"}
  },
  "required": ["score", "reasoning"]
}`

var (
	resumeValidator  = mustSchema(resumeSchema)
	rankingValidator = mustSchema(rankingSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid gateway schema: %v", err))
	}
	return schema
}

// validateJSON checks a model reply against schema and lists every violation
func validateJSON(schema *gojsonschema.Schema, doc string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to load model output: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return fmt.Errorf("model output does not match schema: %s", strings.Join(msgs, "; "))
}
