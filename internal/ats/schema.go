package ats

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const scoreSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["overall_score", "section_scores", "analysis_summary", "improvement_suggestions"],
  "properties": {
    "overall_score": {"$ref": "#/definitions/score"},
    "section_scores": {
      "type": "object",
      "required": ["summary_or_objective", "experience", "skills", "education", "formatting_and_clarity"],
      "properties": {
        "summary_or_objective": {"$ref": "#/definitions/score"},
        "experience": {"$ref": "#/definitions/score"},
        "skills": {"$ref": "#/definitions/score"},
        "education": {"$ref": "#/definitions/score"},
        "formatting_and_clarity": {"$ref": "#/definitions/score"}
      }
    },
    "analysis_summary": {"type": "string"},
    "improvement_suggestions": {"type": "array", "items": {"type": "string"}}
  },
  "definitions": {
    "score": {"type": "number", "minimum": 0, "maximum": 100}
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func scoreSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(scoreSchemaJSON))
	})
	return schema, schemaErr
}

// validateScore checks raw against the score schema.
func validateScore(raw []byte) error {
	s, err := scoreSchema()
	if err != nil {
		return fmt.Errorf("load score schema: %w", err)
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidOutput, strings.Join(msgs, "; "))
}
