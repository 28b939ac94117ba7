// internal/models/offer.go
package models

// OfferState is the lifecycle state of an internship offer. The French
// literals are kept as-is for compatibility with previously stored rows.
type OfferState string

const (
	OfferPending   OfferState = "En attente validation"
	OfferValidated OfferState = "Validée"
	OfferRefused   OfferState = "Refusée"
	OfferClosed    OfferState = "Clôturée"
)

// ValidOfferState reports whether s is one of the four known states.
func ValidOfferState(s OfferState) bool {
	switch s {
	case OfferPending, OfferValidated, OfferRefused, OfferClosed:
		return true
	}
	return false
}

// CapacityClosingReason marks a close triggered by the application cap.
// Only offers closed with this exact reason are eligible for auto-reopen.
const CapacityClosingReason = "Nombre maximum de candidatures atteint (5)"

// MaxApplicationsPerOffer is the fixed application cap per offer.
const MaxApplicationsPerOffer = 5

type Offer struct {
	ID            string     `json:"id"`
	CompanyID     string     `json:"companyId,omitempty"` // empty for unclaimed legacy offers
	Organisme     string     `json:"organisme"`
	ContactName   string     `json:"contactName"`
	ContactEmail  string     `json:"contactEmail"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	City          string     `json:"city,omitempty"`
	Duration      string     `json:"duration,omitempty"`
	Domain        string     `json:"domain,omitempty"`
	Remote        bool       `json:"remote"`
	State         OfferState `json:"state"`
	ClosingReason string     `json:"closingReason,omitempty"`
	DateDepot     string     `json:"dateDepot"`
}

// CapacityClosed reports whether the offer was closed by the cap rather than
// by an administrator. Manual closes are sticky and never auto-reopen.
func (o *Offer) CapacityClosed() bool {
	return o.State == OfferClosed && o.ClosingReason == CapacityClosingReason
}

// OfferDraft carries the caller-supplied fields of a submission.
type OfferDraft struct {
	Organisme    string `json:"organisme"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	City         string `json:"city,omitempty"`
	Duration     string `json:"duration,omitempty"`
	Domain       string `json:"domain,omitempty"`
	Remote       bool   `json:"remote,omitempty"`
}

// OfferFilter narrows role-scoped offer listings.
type OfferFilter struct {
	Search   string // matches title, description or organisme
	City     string
	Duration string
	Domain   string
	Remote   *bool
	States   []OfferState
	// CompanyID / ContactEmail restrict to a company's own offers
	// (bound id or legacy contact-email match).
	CompanyID    string
	ContactEmail string
}
