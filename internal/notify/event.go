// internal/notify/event.go

// Package notify carries lifecycle events from the engines to the outside
// world. Engines return event lists; delivery happens after the transaction
// and is best-effort by contract.
package notify

import (
	"time"

	"stageconnect/internal/models"
)

type EventType string

const (
	EventOfferSubmitted           EventType = "OfferSubmitted"
	EventOfferValidated           EventType = "OfferValidated"
	EventOfferRefused             EventType = "OfferRefused"
	EventOfferClosed              EventType = "OfferClosed"
	EventApplicationCreated       EventType = "ApplicationCreated"
	EventApplicationStatusChanged EventType = "ApplicationStatusChanged"
	EventUserRegistered           EventType = "UserRegistered"
)

// Event snapshots the entities relevant to a lifecycle transition. Only the
// fields that apply to the event type are set.
type Event struct {
	Type        EventType           `json:"type"`
	Offer       *models.Offer       `json:"offer,omitempty"`
	Candidature *models.Candidature `json:"candidature,omitempty"`
	Student     *models.User        `json:"student,omitempty"`
	User        *models.User        `json:"user,omitempty"`
	OccurredAt  string              `json:"occurredAt"`
}

func NewEvent(t EventType) Event {
	return Event{Type: t, OccurredAt: time.Now().UTC().Format(time.RFC3339)}
}

func OfferEvent(t EventType, offer *models.Offer) Event {
	ev := NewEvent(t)
	ev.Offer = offer
	return ev
}

func CandidatureEvent(t EventType, offer *models.Offer, c *models.Candidature, student *models.User) Event {
	ev := NewEvent(t)
	ev.Offer = offer
	ev.Candidature = c
	ev.Student = student
	return ev
}

func UserEvent(t EventType, user *models.User) Event {
	ev := NewEvent(t)
	ev.User = user
	return ev
}
