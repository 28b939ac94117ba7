// internal/export/csv.go

// Package export renders candidate rosters for download. Only the row
// assembly is domain logic; the writer format is plain CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"stageconnect/internal/models"
)

var rosterHeader = []string{
	"candidature_id", "étudiant", "email", "statut", "date_candidature", "téléphone",
}

// RosterCSV renders one offer's roster. The first line names the offer so
// the file is self-describing when saved.
func RosterCSV(offer *models.Offer, entries []models.RosterEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"offre", offer.Title, offer.Organisme}); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	if err := w.Write(rosterHeader); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	for _, e := range entries {
		phone := ""
		if e.Profile != nil {
			phone = e.Profile.Phone
		}
		row := []string{
			e.Candidature.ID,
			e.Student.Username,
			e.Student.Email,
			string(e.Candidature.Status),
			e.Candidature.DateCandidature,
			phone,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename suggests a download name for an offer's roster export.
func Filename(offer *models.Offer) string {
	return fmt.Sprintf("candidatures_%s.csv", offer.ID)
}
