// internal/models/stats.go
package models

// MonthCount is one bucket of a monthly time series ("2025-09" style label).
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// TopOffer pairs an offer title with its application count.
type TopOffer struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// DashboardStats aggregates platform-wide counters for managers and admins.
type DashboardStats struct {
	TotalOffers          int          `json:"total_offers"`
	PendingOffers        int          `json:"pending_offers"`
	ValidatedOffers      int          `json:"validated_offers"`
	ClosedOffers         int          `json:"closed_offers"`
	RefusedOffers        int          `json:"refused_offers"`
	TotalCandidatures    int          `json:"total_candidatures"`
	PendingCandidatures  int          `json:"pending_candidatures"`
	AcceptedCandidatures int          `json:"accepted_candidatures"`
	RefusedCandidatures  int          `json:"refused_candidatures"`
	CandidaturesByMonth  []MonthCount `json:"candidatures_by_month"`
	OffersByMonth        []MonthCount `json:"offers_by_month"`
	TopOffers            []TopOffer   `json:"top_offers"`
}

// RosterEntry is one row of an offer's candidate roster: the application plus
// the applicant and their profile, as exposed to companies and staff.
type RosterEntry struct {
	Candidature Candidature     `json:"candidature"`
	Student     User            `json:"student"`
	Profile     *StudentProfile `json:"studentProfile,omitempty"`
}
