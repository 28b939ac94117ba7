// internal/models/candidature.go
package models

// CandidatureStatus is the review status of an application. French literals
// preserved for stored-data compatibility.
type CandidatureStatus string

const (
	CandidaturePending  CandidatureStatus = "En attente"
	CandidatureAccepted CandidatureStatus = "Acceptée"
	CandidatureRefused  CandidatureStatus = "Refusée"
)

// ValidCandidatureStatus reports whether s is one of the three known statuses.
func ValidCandidatureStatus(s CandidatureStatus) bool {
	switch s {
	case CandidaturePending, CandidatureAccepted, CandidatureRefused:
		return true
	}
	return false
}

// Candidature is a student's application to an offer. At most one exists per
// (student, offer) pair, backed by a uniqueness constraint.
type Candidature struct {
	ID              string            `json:"id"`
	OfferID         string            `json:"offerId"`
	StudentID       string            `json:"studentId"`
	Status          CandidatureStatus `json:"status"`
	DateCandidature string            `json:"dateCandidature"`
}
