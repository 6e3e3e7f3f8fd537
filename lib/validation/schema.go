package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// TrendingSchema defines the JSON schema for TMDB trending responses. The
// payload comes from an external service, so it is validated before any field
// is trusted.
var TrendingSchema = `{
	"type": "object",
	"properties": {
		"results": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"id": {"type": "integer", "minimum": 1},
					"media_type": {"type": "string", "minLength": 1},
					"popularity": {"type": "number"}
				},
				"required": ["id", "media_type"]
			}
		}
	},
	"required": ["results"]
}`

// ValidateTrendingResponse validates a raw TMDB trending payload against
// TrendingSchema.
func ValidateTrendingResponse(jsonData []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(TrendingSchema)
	documentLoader := gojsonschema.NewBytesLoader(jsonData)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate JSON schema: %w", err)
	}

	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		return fmt.Errorf("invalid trending response: %s", strings.Join(errorMessages, "; "))
	}

	return nil
}
