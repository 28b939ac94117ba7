package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapacityClosed(t *testing.T) {
	capacity := &Offer{State: OfferClosed, ClosingReason: CapacityClosingReason}
	assert.True(t, capacity.CapacityClosed())

	manual := &Offer{State: OfferClosed, ClosingReason: "Clôturée par l'administrateur"}
	assert.False(t, manual.CapacityClosed())

	open := &Offer{State: OfferValidated, ClosingReason: ""}
	assert.False(t, open.CapacityClosed())
}

func TestValidOfferState(t *testing.T) {
	for _, s := range []OfferState{OfferPending, OfferValidated, OfferRefused, OfferClosed} {
		assert.True(t, ValidOfferState(s))
	}
	assert.False(t, ValidOfferState("EnAttente"))
	assert.False(t, ValidOfferState(""))
}

func TestHasRole_SuperuserBypass(t *testing.T) {
	root := &User{Role: RoleStudent, IsSuperuser: true}
	assert.True(t, root.HasRole(RoleAdmin))
	assert.True(t, root.IsStaffLike())

	student := &User{Role: RoleStudent}
	assert.False(t, student.HasRole(RoleAdmin))
	assert.False(t, student.IsStaffLike())

	var nobody *User
	assert.False(t, nobody.HasRole(RoleStudent))
	assert.False(t, nobody.IsStaffLike())
}
