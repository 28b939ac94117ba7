// internal/validation/offer.go

// Package validation checks submission payloads against JSON schemas before
// they reach the engines.
package validation

import (
	"encoding/json"
	"strings"

	"stageconnect/internal/common/errors"
	"stageconnect/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

const offerDraftSchema = `{
	"type": "object",
	"properties": {
		"organisme":     {"type": "string", "minLength": 1, "maxLength": 100},
		"contact_name":  {"type": "string", "minLength": 1, "maxLength": 100},
		"contact_email": {"type": "string", "format": "email"},
		"title":         {"type": "string", "minLength": 1, "maxLength": 200},
		"description":   {"type": "string", "minLength": 1},
		"city":          {"type": "string", "maxLength": 100},
		"duration":      {"type": "string", "maxLength": 50},
		"domain":        {"type": "string", "maxLength": 100},
		"remote":        {"type": "boolean"}
	},
	"required": ["organisme", "contact_name", "contact_email", "title", "description"]
}`

var offerDraftLoader = gojsonschema.NewStringLoader(offerDraftSchema)

// ValidateOfferDraft validates a submission before it is stored.
func ValidateOfferDraft(draft models.OfferDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return errors.NewInternalError(err)
	}

	result, err := gojsonschema.Validate(offerDraftLoader, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return errors.NewInternalError(err)
	}
	if result.Valid() {
		return nil
	}

	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return errors.NewValidationError(strings.Join(details, "; "))
}
