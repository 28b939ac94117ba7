// internal/favorites/ledger.go

// Package favorites is the student bookmark ledger. Toggling is idempotent
// by construction: repeated calls flip the bookmark back and forth and
// never error.
package favorites

import (
	"context"

	"stageconnect/internal/authz"
	"stageconnect/internal/common/logger"
	"stageconnect/internal/models"
)

type Store interface {
	Exists(ctx context.Context, studentID, offerID string) (bool, error)
	Create(ctx context.Context, studentID, offerID string) error
	Delete(ctx context.Context, studentID, offerID string) error
	ListOffers(ctx context.Context, studentID string) ([]models.Offer, error)
}

type OfferGetter interface {
	GetByID(ctx context.Context, id string) (*models.Offer, error)
}

type Ledger struct {
	store  Store
	offers OfferGetter
	gate   *authz.Gate
	logger logger.Logger
}

func NewLedger(store Store, offers OfferGetter, gate *authz.Gate, log logger.Logger) *Ledger {
	return &Ledger{
		store:  store,
		offers: offers,
		gate:   gate,
		logger: log.WithFields(map[string]interface{}{"component": "favorites"}),
	}
}

// Toggle flips the bookmark and reports the resulting state: true when the
// offer is now bookmarked.
func (l *Ledger) Toggle(ctx context.Context, student *models.User, offerID string) (bool, error) {
	if err := l.gate.CanUseFavorites(student); err != nil {
		return false, err
	}
	if _, err := l.offers.GetByID(ctx, offerID); err != nil {
		return false, err
	}

	exists, err := l.store.Exists(ctx, student.ID, offerID)
	if err != nil {
		return false, err
	}
	if exists {
		if err := l.store.Delete(ctx, student.ID, offerID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := l.store.Create(ctx, student.ID, offerID); err != nil {
		return false, err
	}
	return true, nil
}

// IsFavorite reports whether the student has bookmarked the offer.
// Non-students simply have no favorites.
func (l *Ledger) IsFavorite(ctx context.Context, actor *models.User, offerID string) (bool, error) {
	if !actor.HasRole(models.RoleStudent) {
		return false, nil
	}
	return l.store.Exists(ctx, actor.ID, offerID)
}

// List returns the student's bookmarked offers.
func (l *Ledger) List(ctx context.Context, student *models.User) ([]models.Offer, error) {
	if err := l.gate.CanUseFavorites(student); err != nil {
		return nil, err
	}
	return l.store.ListOffers(ctx, student.ID)
}
