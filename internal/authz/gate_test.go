package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stageconnect/internal/models"
)

var (
	student    = &models.User{ID: "u-student", Role: models.RoleStudent}
	manager    = &models.User{ID: "u-manager", Role: models.RoleManager}
	admin      = &models.User{ID: "u-admin", Role: models.RoleAdmin}
	superuser  = &models.User{ID: "u-root", Role: models.RoleStudent, IsSuperuser: true}
	boundOwner = &models.User{ID: "u-owner", Email: "owner@acme.example", Role: models.RoleCompany}
	otherCo    = &models.User{ID: "u-other", Email: "other@corp.example", Role: models.RoleCompany}
)

func TestOwnsOffer(t *testing.T) {
	g := NewGate()

	tests := []struct {
		name  string
		actor *models.User
		offer *models.Offer
		want  bool
	}{
		{
			name:  "bound company id",
			actor: boundOwner,
			offer: &models.Offer{CompanyID: "u-owner", ContactEmail: "someone@else.example"},
			want:  true,
		},
		{
			name:  "legacy email match on unclaimed offer",
			actor: boundOwner,
			offer: &models.Offer{CompanyID: "", ContactEmail: "owner@acme.example"},
			want:  true,
		},
		{
			name:  "email match also grants on a bound offer",
			actor: otherCo,
			offer: &models.Offer{CompanyID: "u-owner", ContactEmail: "other@corp.example"},
			want:  true,
		},
		{
			name:  "unrelated company",
			actor: otherCo,
			offer: &models.Offer{CompanyID: "u-owner", ContactEmail: "owner@acme.example"},
			want:  false,
		},
		{
			name:  "student never owns",
			actor: student,
			offer: &models.Offer{CompanyID: "u-student", ContactEmail: ""},
			want:  false,
		},
		{
			name:  "nil actor",
			actor: nil,
			offer: &models.Offer{CompanyID: "u-owner"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.OwnsOffer(tt.actor, tt.offer))
		})
	}
}

func TestModerationAndAdministration(t *testing.T) {
	g := NewGate()

	assert.NoError(t, g.CanModerateOffer(manager))
	assert.NoError(t, g.CanModerateOffer(admin))
	assert.NoError(t, g.CanModerateOffer(superuser))
	assert.Error(t, g.CanModerateOffer(student))
	assert.Error(t, g.CanModerateOffer(boundOwner))
	assert.Error(t, g.CanModerateOffer(nil))

	assert.NoError(t, g.CanAdministerOffer(admin))
	assert.NoError(t, g.CanAdministerOffer(superuser))
	assert.Error(t, g.CanAdministerOffer(manager), "managers moderate but do not administer")
	assert.Error(t, g.CanAdministerOffer(nil))
}

func TestRoleScopedActions(t *testing.T) {
	g := NewGate()

	assert.NoError(t, g.CanApply(student))
	assert.Error(t, g.CanApply(boundOwner))
	assert.Error(t, g.CanApply(nil))

	assert.NoError(t, g.CanUseFavorites(student))
	assert.Error(t, g.CanUseFavorites(manager))

	assert.NoError(t, g.CanViewDashboard(manager))
	assert.NoError(t, g.CanViewDashboard(admin))
	assert.Error(t, g.CanViewDashboard(student))
	assert.Error(t, g.CanViewDashboard(boundOwner))

	assert.NoError(t, g.CanManageUsers(admin))
	assert.Error(t, g.CanManageUsers(manager))
}

func TestCanDecideCandidature(t *testing.T) {
	g := NewGate()
	offer := &models.Offer{CompanyID: "u-owner", ContactEmail: "owner@acme.example"}

	assert.NoError(t, g.CanDecideCandidature(manager, offer))
	assert.NoError(t, g.CanDecideCandidature(boundOwner, offer))
	assert.Error(t, g.CanDecideCandidature(otherCo, offer))
	assert.Error(t, g.CanDecideCandidature(student, offer))
	assert.Error(t, g.CanDecideCandidature(nil, offer))
}

func TestVisibleStates(t *testing.T) {
	g := NewGate()

	assert.Equal(t, []models.OfferState{models.OfferValidated}, g.VisibleStates(nil))
	assert.Equal(t, []models.OfferState{models.OfferValidated}, g.VisibleStates(student))
	assert.Equal(t, []models.OfferState{models.OfferPending, models.OfferValidated}, g.VisibleStates(manager))
	assert.Nil(t, g.VisibleStates(admin))
	assert.Nil(t, g.VisibleStates(superuser))
	assert.Nil(t, g.VisibleStates(boundOwner), "companies are scoped by ownership instead")
}
