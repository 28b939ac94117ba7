// internal/models/profile.go
package models

// StudentProfile is the one-to-one extension of a student account. It is
// created lazily on first access.
type StudentProfile struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Bio    string `json:"bio,omitempty"`
	Phone  string `json:"phone,omitempty"`
	CV     string `json:"cv,omitempty"` // storage reference, not the document itself
}

type Favorite struct {
	StudentID string `json:"studentId"`
	OfferID   string `json:"offerId"`
	CreatedAt string `json:"createdAt"`
}
