// internal/authz/gate.go

// Package authz decides which actor may invoke which lifecycle transition.
// Every check is a pure predicate over (actor, resource); nothing here
// touches storage or request context.
package authz

import (
	"stageconnect/internal/common/errors"
	"stageconnect/internal/models"
)

type Gate struct{}

func NewGate() *Gate {
	return &Gate{}
}

// OwnsOffer reports whether the actor is the company behind the offer:
// either the bound company account, or a company whose contact email
// matches the offer's (legacy unclaimed offers).
func (g *Gate) OwnsOffer(actor *models.User, offer *models.Offer) bool {
	if actor == nil || offer == nil || !actor.HasRole(models.RoleCompany) {
		return false
	}
	if offer.CompanyID != "" && offer.CompanyID == actor.ID {
		return true
	}
	return actor.Email != "" && offer.ContactEmail == actor.Email
}

// CanModerateOffer gates validate/refuse: managers and admins only.
func (g *Gate) CanModerateOffer(actor *models.User) error {
	if actor.IsStaffLike() {
		return nil
	}
	return errors.NewForbiddenError("seuls les responsables et administrateurs peuvent valider ou refuser une offre")
}

// CanAdministerOffer gates manual close/reopen and raw state changes:
// admins only.
func (g *Gate) CanAdministerOffer(actor *models.User) error {
	if actor != nil && (actor.IsSuperuser || actor.HasRole(models.RoleAdmin)) {
		return nil
	}
	return errors.NewForbiddenError("seuls les administrateurs peuvent modifier l'état d'une offre")
}

// CanApply gates application creation: students only.
func (g *Gate) CanApply(actor *models.User) error {
	if actor.HasRole(models.RoleStudent) {
		return nil
	}
	return errors.NewForbiddenError("seuls les étudiants peuvent candidater")
}

// CanDecideCandidature gates status updates on an application: the offer's
// owning company, or a manager/admin.
func (g *Gate) CanDecideCandidature(actor *models.User, offer *models.Offer) error {
	if actor.IsStaffLike() {
		return nil
	}
	if g.OwnsOffer(actor, offer) {
		return nil
	}
	if actor.HasRole(models.RoleCompany) {
		return errors.NewForbiddenError("vous ne pouvez modifier que les candidatures de vos offres")
	}
	return errors.NewForbiddenError("vous n'avez pas la permission de modifier le statut")
}

// CanViewRoster gates the candidate roster of an offer: staff, or the
// owning company.
func (g *Gate) CanViewRoster(actor *models.User, offer *models.Offer) error {
	if actor.IsStaffLike() || g.OwnsOffer(actor, offer) {
		return nil
	}
	return errors.NewForbiddenError("vous n'avez pas la permission de voir les candidatures")
}

// CanExportRoster gates roster exports, same audience as the roster itself.
func (g *Gate) CanExportRoster(actor *models.User, offer *models.Offer) error {
	return g.CanViewRoster(actor, offer)
}

// CanUseFavorites gates the bookmark ledger: students only.
func (g *Gate) CanUseFavorites(actor *models.User) error {
	if actor.HasRole(models.RoleStudent) {
		return nil
	}
	return errors.NewForbiddenError("seuls les étudiants peuvent gérer des favoris")
}

// CanViewDashboard gates platform statistics: managers and admins.
func (g *Gate) CanViewDashboard(actor *models.User) error {
	if actor.IsStaffLike() {
		return nil
	}
	return errors.NewForbiddenError("accès non autorisé")
}

// CanManageUsers gates role changes: admins only.
func (g *Gate) CanManageUsers(actor *models.User) error {
	return g.CanAdministerOffer(actor)
}

// VisibleStates returns the offer states an actor's listing is scoped to.
// A nil slice means no state restriction (admins see everything).
func (g *Gate) VisibleStates(actor *models.User) []models.OfferState {
	switch {
	case actor == nil:
		return []models.OfferState{models.OfferValidated}
	case actor.IsSuperuser || actor.HasRole(models.RoleAdmin):
		return nil
	case actor.HasRole(models.RoleManager):
		return []models.OfferState{models.OfferPending, models.OfferValidated}
	case actor.HasRole(models.RoleCompany):
		return nil // companies are scoped by ownership, not state
	default:
		return []models.OfferState{models.OfferValidated}
	}
}
