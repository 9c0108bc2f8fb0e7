package api

import (
	"strings"

	contextutils "vocabapp/internal/utils"

	"github.com/xeipuuv/gojsonschema"
)

// Schema names accepted by SchemaValidator.Validate.
const (
	SchemaMultipleChoice = "multiple_choice_exercise"
	SchemaDragDrop       = "drag_drop_exercise"
	SchemaProgressReport = "progress_report"
)

// rawSchemas holds the JSON Schemas the client checks server responses
// against before decoding. Exercise payloads drive interactive state, so a
// malformed body is rejected up front instead of surfacing as a half-rendered
// exercise.
var rawSchemas = map[string]string{
	SchemaMultipleChoice: `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["target_word_text", "target_word_id", "options"],
		"properties": {
			"target_word_text": {"type": "string", "minLength": 1},
			"target_word_id": {"type": "integer"},
			"options": {
				"type": "array",
				"minItems": 2,
				"items": {
					"type": "object",
					"required": ["word_id", "definition"],
					"properties": {
						"word_id": {"type": "integer"},
						"definition": {"type": "string"}
					}
				}
			},
			"message": {"type": "string"}
		}
	}`,
	SchemaDragDrop: `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["draggable_items", "drop_zones"],
		"properties": {
			"exercise_id": {"type": "string"},
			"instruction": {"type": "string"},
			"draggable_items": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "content"],
					"properties": {
						"id": {"type": "string"},
						"content": {"type": "string"}
					}
				}
			},
			"drop_zones": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "content", "correct_draggable_id"],
					"properties": {
						"id": {"type": "string"},
						"content": {"type": "string"},
						"correct_draggable_id": {"type": "string"}
					}
				}
			},
			"message": {"type": "string"}
		}
	}`,
	SchemaProgressReport: `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["total_words_attempted_unique", "overall_accuracy", "average_time_per_attempt", "progress_trend"],
		"properties": {
			"total_words_attempted_unique": {"type": "integer", "minimum": 0},
			"overall_accuracy": {"type": "number", "minimum": 0, "maximum": 1},
			"average_time_per_attempt": {"type": "number", "minimum": 0},
			"progress_trend": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["progress_id_or_timestamp", "accuracy_at_point", "cumulative_words_practiced"],
					"properties": {
						"progress_id_or_timestamp": {"type": "integer"},
						"accuracy_at_point": {"type": "number", "minimum": 0, "maximum": 1},
						"cumulative_words_practiced": {"type": "integer", "minimum": 0}
					}
				}
			},
			"message": {"type": "string"}
		}
	}`,
}

// SchemaValidator checks response bodies against precompiled JSON Schemas.
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewSchemaValidator compiles all embedded schemas.
func NewSchemaValidator() (*SchemaValidator, error) {
	compiled := make(map[string]*gojsonschema.Schema, len(rawSchemas))
	for name, raw := range rawSchemas {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			return nil, contextutils.WrapError(err, "failed to compile schema "+name)
		}
		compiled[name] = schema
	}
	return &SchemaValidator{schemas: compiled}, nil
}

// Validate checks a raw JSON body against the named schema. A validation
// failure is reported as an invalid-payload error listing every violation.
func (v *SchemaValidator) Validate(name string, body []byte) error {
	schema, ok := v.schemas[name]
	if !ok {
		return contextutils.NewAppError(contextutils.ErrorCodeInternalError, contextutils.SeverityError,
			"unknown response schema", name)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return contextutils.NewAppErrorWithCause(contextutils.ErrorCodeConnection, contextutils.SeverityError,
			"failed to parse server response", err.Error(), err)
	}
	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			violations = append(violations, desc.String())
		}
		return contextutils.NewAppError(contextutils.ErrorCodeInvalidPayload, contextutils.SeverityError,
			"server response failed schema validation", strings.Join(violations, "; "))
	}
	return nil
}
