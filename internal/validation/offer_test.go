package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stageconnect/internal/common/errors"
	"stageconnect/internal/models"
)

func validDraft() models.OfferDraft {
	return models.OfferDraft{
		Organisme:    "ACME",
		ContactName:  "Jean Dupont",
		ContactEmail: "jean@acme.example",
		Title:        "Stage développement",
		Description:  "Développement d'une application interne",
	}
}

func TestValidateOfferDraft(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *models.OfferDraft)
		wantErr bool
	}{
		{name: "complete draft", mutate: func(d *models.OfferDraft) {}},
		{name: "optional fields set", mutate: func(d *models.OfferDraft) {
			d.City = "Lyon"
			d.Duration = "6 mois"
			d.Domain = "Informatique"
			d.Remote = true
		}},
		{name: "missing organisme", mutate: func(d *models.OfferDraft) { d.Organisme = "" }, wantErr: true},
		{name: "missing contact name", mutate: func(d *models.OfferDraft) { d.ContactName = "" }, wantErr: true},
		{name: "missing contact email", mutate: func(d *models.OfferDraft) { d.ContactEmail = "" }, wantErr: true},
		{name: "malformed email", mutate: func(d *models.OfferDraft) { d.ContactEmail = "not-an-email" }, wantErr: true},
		{name: "missing title", mutate: func(d *models.OfferDraft) { d.Title = "" }, wantErr: true},
		{name: "missing description", mutate: func(d *models.OfferDraft) { d.Description = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			err := ValidateOfferDraft(d)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrCodeValidationFailed), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
