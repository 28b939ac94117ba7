// internal/engine/candidature/engine.go

// Package candidature owns the application workflow: creation under the
// capacity cap, withdrawal, and company/staff status decisions. It drives
// the offer engine's auto-close and auto-reopen transitions.
package candidature

import (
	"context"
	"database/sql"
	"time"

	"stageconnect/internal/authz"
	"stageconnect/internal/common/errors"
	"stageconnect/internal/common/logger"
	"stageconnect/internal/common/metrics"
	"stageconnect/internal/models"
	"stageconnect/internal/notify"
)

type Store interface {
	Create(ctx context.Context, offerID, studentID string) (*models.Candidature, error)
	GetByID(ctx context.Context, id string) (*models.Candidature, error)
	Delete(ctx context.Context, id string) error
	CountByOffer(ctx context.Context, offerID string) (int, error)
	Exists(ctx context.Context, studentID, offerID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status models.CandidatureStatus) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Candidature, error)
	ListByOffer(ctx context.Context, offerID string) ([]models.Candidature, error)
	Roster(ctx context.Context, offerID string) ([]models.RosterEntry, error)
}

type OfferGetter interface {
	GetByID(ctx context.Context, id string) (*models.Offer, error)
}

// Lifecycle is the slice of the offer engine this engine drives.
type Lifecycle interface {
	AutoClose(ctx context.Context, o *models.Offer) ([]notify.Event, error)
	AutoReopen(ctx context.Context, o *models.Offer) ([]notify.Event, error)
}

type UserGetter interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Locker serializes apply calls per offer so two students observing
// count=4 cannot both slip past the cap.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func() error) error
}

// TxRunner runs fn as one database transaction, committing on nil error.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type Engine struct {
	store     Store
	offers    OfferGetter
	lifecycle Lifecycle
	users     UserGetter
	gate      *authz.Gate
	locks     Locker
	logger    logger.Logger

	txRunner TxRunner                            // optional
	bindTx   func(tx *sql.Tx) (Store, Lifecycle) // rebinds store and lifecycle to a tx
}

func NewEngine(store Store, offers OfferGetter, lifecycle Lifecycle, users UserGetter, gate *authz.Gate, locks Locker, log logger.Logger) *Engine {
	return &Engine{
		store:     store,
		offers:    offers,
		lifecycle: lifecycle,
		users:     users,
		gate:      gate,
		locks:     locks,
		logger:    log.WithFields(map[string]interface{}{"component": "candidature-engine"}),
	}
}

// WithUnitOfWork makes Apply and Withdraw run their writes inside one
// transaction, so a failed auto-close rolls back the insert and a failed
// reopen rolls back the delete. bind must return the store and lifecycle
// rebound to the given transaction.
func (e *Engine) WithUnitOfWork(runner TxRunner, bind func(tx *sql.Tx) (Store, Lifecycle)) *Engine {
	e.txRunner = runner
	e.bindTx = bind
	return e
}

// unit runs fn against the engine's store and lifecycle, inside a
// transaction when one is configured.
func (e *Engine) unit(ctx context.Context, fn func(store Store, lifecycle Lifecycle) error) error {
	if e.txRunner == nil {
		return fn(e.store, e.lifecycle)
	}
	return e.txRunner.WithTx(ctx, func(tx *sql.Tx) error {
		s, lc := e.bindTx(tx)
		return fn(s, lc)
	})
}

// Apply records a student's application. Ordering matters: the application
// is created first, then the count is re-read, and the 5th one triggers the
// offer's auto-close. Closing is a side effect of the 5th apply, never a
// precondition checked before it.
func (e *Engine) Apply(ctx context.Context, offerID string, student *models.User) (*models.Candidature, []notify.Event, error) {
	start := time.Now()
	defer func() {
		metrics.OperationDuration.WithLabelValues("apply").Observe(time.Since(start).Seconds())
	}()

	if err := e.gate.CanApply(student); err != nil {
		metrics.EngineFailures.WithLabelValues("apply", string(errors.ErrCodeForbidden)).Inc()
		return nil, nil, err
	}

	var (
		created *models.Candidature
		events  []notify.Event
	)
	err := e.locks.WithLock(ctx, "apply:"+offerID, func() error {
		return e.unit(ctx, func(store Store, lifecycle Lifecycle) error {
			o, err := e.offers.GetByID(ctx, offerID)
			if err != nil {
				return err
			}
			if o.State != models.OfferValidated {
				metrics.EngineFailures.WithLabelValues("apply", string(errors.ErrCodeOfferNotOpen)).Inc()
				return errors.NewOfferNotOpenError(o.ID, string(o.State))
			}

			exists, err := store.Exists(ctx, student.ID, offerID)
			if err != nil {
				return err
			}
			if exists {
				metrics.EngineFailures.WithLabelValues("apply", string(errors.ErrCodeDuplicateApplication)).Inc()
				return errors.NewDuplicateApplicationError(student.ID, offerID)
			}

			// Unreachable under correct operation: the 5th apply closes the
			// offer synchronously, so later applies fail the state check above.
			count, err := store.CountByOffer(ctx, offerID)
			if err != nil {
				return err
			}
			if count >= models.MaxApplicationsPerOffer {
				metrics.EngineFailures.WithLabelValues("apply", string(errors.ErrCodeCapacityExceeded)).Inc()
				return errors.NewCapacityExceededError(offerID, count)
			}

			created, err = store.Create(ctx, offerID, student.ID)
			if err != nil {
				return err
			}
			events = append(events, notify.CandidatureEvent(notify.EventApplicationCreated, o, created, student))

			newCount, err := store.CountByOffer(ctx, offerID)
			if err != nil {
				return err
			}
			if newCount >= models.MaxApplicationsPerOffer {
				closeEvents, err := lifecycle.AutoClose(ctx, o)
				if err != nil {
					return err
				}
				events = append(events, closeEvents...)
			}
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.CandidaturesCreated.Inc()
	e.logger.Info("candidature created", map[string]interface{}{
		"candidatureId": created.ID,
		"offerId":       offerID,
		"studentId":     student.ID,
	})
	return created, events, nil
}

// Withdraw deletes an application on its owner's request, then re-checks
// whether a capacity-closed offer can reopen.
func (e *Engine) Withdraw(ctx context.Context, candidatureID string, requester *models.User) ([]notify.Event, error) {
	start := time.Now()
	defer func() {
		metrics.OperationDuration.WithLabelValues("withdraw").Observe(time.Since(start).Seconds())
	}()

	c, err := e.store.GetByID(ctx, candidatureID)
	if err != nil {
		return nil, err
	}
	if requester == nil || c.StudentID != requester.ID {
		metrics.EngineFailures.WithLabelValues("withdraw", string(errors.ErrCodeNotOwner)).Inc()
		return nil, errors.NewNotOwnerError(candidatureID)
	}

	o, err := e.offers.GetByID(ctx, c.OfferID)
	if err != nil {
		return nil, err
	}

	var events []notify.Event
	err = e.unit(ctx, func(store Store, lifecycle Lifecycle) error {
		if err := store.Delete(ctx, candidatureID); err != nil {
			return err
		}
		// Sticky manual closes are filtered inside AutoReopen.
		ev, err := lifecycle.AutoReopen(ctx, o)
		if err != nil {
			return err
		}
		events = ev
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CandidaturesWithdrawn.Inc()
	e.logger.Info("candidature withdrawn", map[string]interface{}{
		"candidatureId": candidatureID,
		"offerId":       o.ID,
	})
	return events, nil
}

// UpdateStatus records the company's or staff's decision on an application.
// Only accepted/refused decisions notify the student; reverting to pending
// stays silent.
func (e *Engine) UpdateStatus(ctx context.Context, candidatureID string, newStatus models.CandidatureStatus, actor *models.User) (*models.Candidature, []notify.Event, error) {
	c, err := e.store.GetByID(ctx, candidatureID)
	if err != nil {
		return nil, nil, err
	}
	o, err := e.offers.GetByID(ctx, c.OfferID)
	if err != nil {
		return nil, nil, err
	}

	if err := e.gate.CanDecideCandidature(actor, o); err != nil {
		metrics.EngineFailures.WithLabelValues("update_status", string(errors.ErrCodeForbidden)).Inc()
		return nil, nil, err
	}
	if !models.ValidCandidatureStatus(newStatus) {
		metrics.EngineFailures.WithLabelValues("update_status", string(errors.ErrCodeInvalidStatus)).Inc()
		return nil, nil, errors.NewInvalidStatusError(string(newStatus))
	}

	if err := e.store.UpdateStatus(ctx, candidatureID, newStatus); err != nil {
		return nil, nil, err
	}
	c.Status = newStatus

	var events []notify.Event
	if newStatus == models.CandidatureAccepted || newStatus == models.CandidatureRefused {
		student, err := e.users.GetByID(ctx, c.StudentID)
		if err != nil {
			// The decision is committed; a missing student record only
			// costs the notification.
			e.logger.Warn("student lookup failed for notification", map[string]interface{}{
				"candidatureId": candidatureID,
				"studentId":     c.StudentID,
				"error":         err.Error(),
			})
		}
		events = append(events, notify.CandidatureEvent(notify.EventApplicationStatusChanged, o, c, student))
	}
	return c, events, nil
}

// ListForStudent returns the student's own applications.
func (e *Engine) ListForStudent(ctx context.Context, student *models.User) ([]models.Candidature, error) {
	return e.store.ListByStudent(ctx, student.ID)
}

// Roster returns an offer's applications with applicant details, gated to
// staff and the owning company.
func (e *Engine) Roster(ctx context.Context, offerID string, actor *models.User) ([]models.RosterEntry, error) {
	o, err := e.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if err := e.gate.CanViewRoster(actor, o); err != nil {
		metrics.EngineFailures.WithLabelValues("roster", string(errors.ErrCodeForbidden)).Inc()
		return nil, err
	}
	return e.store.Roster(ctx, offerID)
}
