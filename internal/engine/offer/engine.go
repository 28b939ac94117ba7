// internal/engine/offer/engine.go

// Package offer owns the offer state machine. Every write of an offer's
// state or closing reason goes through this engine; nothing else in the
// codebase touches those columns.
package offer

import (
	"context"

	"stageconnect/internal/authz"
	"stageconnect/internal/common/errors"
	"stageconnect/internal/common/logger"
	"stageconnect/internal/common/metrics"
	"stageconnect/internal/models"
	"stageconnect/internal/notify"
	"stageconnect/internal/validation"
)

// Store is the persistence surface the engine needs.
type Store interface {
	Create(ctx context.Context, draft models.OfferDraft, companyID string) (*models.Offer, error)
	GetByID(ctx context.Context, id string) (*models.Offer, error)
	SetState(ctx context.Context, id string, state models.OfferState, closingReason string) error
	List(ctx context.Context, filter models.OfferFilter) ([]models.Offer, error)
}

// Counter supplies fresh application counts for reopen eligibility.
type Counter interface {
	CountByOffer(ctx context.Context, offerID string) (int, error)
}

// Indexer keeps the search index in step with offer visibility. Indexing is
// best-effort, like notifications.
type Indexer interface {
	IndexOffer(ctx context.Context, o *models.Offer) error
	RemoveOffer(ctx context.Context, id string) error
}

// Searcher serves full-text listings when a search backend is configured.
type Searcher interface {
	Search(ctx context.Context, filter models.OfferFilter) ([]models.Offer, error)
}

type Engine struct {
	store    Store
	counts   Counter
	gate     *authz.Gate
	indexer  Indexer  // optional
	searcher Searcher // optional
	logger   logger.Logger
}

func NewEngine(store Store, counts Counter, gate *authz.Gate, log logger.Logger) *Engine {
	return &Engine{
		store:  store,
		counts: counts,
		gate:   gate,
		logger: log.WithFields(map[string]interface{}{"component": "offer-engine"}),
	}
}

// WithSearch attaches a search backend for indexing and full-text listings.
func (e *Engine) WithSearch(indexer Indexer, searcher Searcher) *Engine {
	e.indexer = indexer
	e.searcher = searcher
	return e
}

// WithStore returns a copy of the engine whose reads and writes go through
// s. The candidature engine uses this to bind auto-close and auto-reopen to
// its transaction.
func (e *Engine) WithStore(s Store) *Engine {
	c := *e
	c.store = s
	return &c
}

// Submit records a new offer in pending state. An authenticated company
// submitter gets bound as the owning company; anyone else leaves the offer
// unclaimed (the legacy anonymous path).
func (e *Engine) Submit(ctx context.Context, draft models.OfferDraft, submitter *models.User) (*models.Offer, []notify.Event, error) {
	if err := validation.ValidateOfferDraft(draft); err != nil {
		metrics.EngineFailures.WithLabelValues("submit", string(errors.CodeOf(err))).Inc()
		return nil, nil, err
	}

	companyID := ""
	if submitter != nil && submitter.Role == models.RoleCompany {
		companyID = submitter.ID
	}

	created, err := e.store.Create(ctx, draft, companyID)
	if err != nil {
		return nil, nil, err
	}

	metrics.OffersSubmitted.Inc()
	e.logger.Info("offer submitted", map[string]interface{}{
		"offerId":   created.ID,
		"organisme": created.Organisme,
		"bound":     companyID != "",
	})

	return created, []notify.Event{notify.OfferEvent(notify.EventOfferSubmitted, created)}, nil
}

// Validate moves a pending offer into the validated state.
func (e *Engine) Validate(ctx context.Context, offerID string, actor *models.User) (*models.Offer, []notify.Event, error) {
	if err := e.gate.CanModerateOffer(actor); err != nil {
		metrics.EngineFailures.WithLabelValues("validate", string(errors.ErrCodeForbidden)).Inc()
		return nil, nil, err
	}

	o, err := e.store.GetByID(ctx, offerID)
	if err != nil {
		return nil, nil, err
	}
	if o.State != models.OfferPending {
		metrics.EngineFailures.WithLabelValues("validate", string(errors.ErrCodeInvalidTransition)).Inc()
		return nil, nil, errors.NewInvalidTransitionError(o.ID, string(o.State), "validation")
	}

	if err := e.setState(ctx, o, models.OfferValidated, ""); err != nil {
		return nil, nil, err
	}
	metrics.OfferTransitions.WithLabelValues("validate").Inc()

	e.indexUpsert(ctx, o)
	return o, []notify.Event{notify.OfferEvent(notify.EventOfferValidated, o)}, nil
}

// Refuse moves a pending offer into the refused state.
func (e *Engine) Refuse(ctx context.Context, offerID string, actor *models.User) (*models.Offer, []notify.Event, error) {
	if err := e.gate.CanModerateOffer(actor); err != nil {
		metrics.EngineFailures.WithLabelValues("refuse", string(errors.ErrCodeForbidden)).Inc()
		return nil, nil, err
	}

	o, err := e.store.GetByID(ctx, offerID)
	if err != nil {
		return nil, nil, err
	}
	if o.State != models.OfferPending {
		metrics.EngineFailures.WithLabelValues("refuse", string(errors.ErrCodeInvalidTransition)).Inc()
		return nil, nil, errors.NewInvalidTransitionError(o.ID, string(o.State), "refus")
	}

	if err := e.setState(ctx, o, models.OfferRefused, ""); err != nil {
		return nil, nil, err
	}
	metrics.OfferTransitions.WithLabelValues("refuse").Inc()

	e.indexRemove(ctx, o.ID)
	return o, []notify.Event{notify.OfferEvent(notify.EventOfferRefused, o)}, nil
}

// AutoClose is invoked by the candidature engine the moment the capacity cap
// is reached. The 5th application is already recorded when this runs.
func (e *Engine) AutoClose(ctx context.Context, o *models.Offer) ([]notify.Event, error) {
	if o.State != models.OfferValidated {
		return nil, errors.NewInvalidTransitionError(o.ID, string(o.State), "clôture automatique")
	}

	if err := e.setState(ctx, o, models.OfferClosed, models.CapacityClosingReason); err != nil {
		return nil, err
	}
	metrics.OfferTransitions.WithLabelValues("auto_close").Inc()
	e.logger.Info("offer auto-closed at capacity", map[string]interface{}{"offerId": o.ID})

	e.indexRemove(ctx, o.ID)
	return []notify.Event{notify.OfferEvent(notify.EventOfferClosed, o)}, nil
}

// AutoReopen runs after a withdrawal. It only reopens capacity-closed
// offers; manual closes are sticky. Reopening is silent: the company was
// already congratulated when the offer was validated.
func (e *Engine) AutoReopen(ctx context.Context, o *models.Offer) ([]notify.Event, error) {
	if !o.CapacityClosed() {
		return nil, nil
	}
	count, err := e.counts.CountByOffer(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxApplicationsPerOffer {
		return nil, nil
	}

	if err := e.setState(ctx, o, models.OfferValidated, ""); err != nil {
		return nil, err
	}
	metrics.OfferTransitions.WithLabelValues("auto_reopen").Inc()
	e.logger.Info("offer reopened after withdrawal", map[string]interface{}{
		"offerId": o.ID,
		"count":   count,
	})

	e.indexUpsert(ctx, o)
	return nil, nil
}

// ManualClose closes a validated offer on an administrator's initiative.
// The attributed reason marks the close as sticky.
func (e *Engine) ManualClose(ctx context.Context, offerID string, actor *models.User, reason string) (*models.Offer, []notify.Event, error) {
	if err := e.gate.CanAdministerOffer(actor); err != nil {
		metrics.EngineFailures.WithLabelValues("manual_close", string(errors.ErrCodeForbidden)).Inc()
		return nil, nil, err
	}

	o, err := e.store.GetByID(ctx, offerID)
	if err != nil {
		return nil, nil, err
	}
	if o.State != models.OfferValidated {
		metrics.EngineFailures.WithLabelValues("manual_close", string(errors.ErrCodeInvalidTransition)).Inc()
		return nil, nil, errors.NewInvalidTransitionError(o.ID, string(o.State), "clôture manuelle")
	}

	if reason == "" {
		reason = "Clôturée par l'administrateur"
	}
	if err := e.setState(ctx, o, models.OfferClosed, reason); err != nil {
		return nil, nil, err
	}
	metrics.OfferTransitions.WithLabelValues("manual_close").Inc()

	e.indexRemove(ctx, o.ID)
	return o, []notify.Event{notify.OfferEvent(notify.EventOfferClosed, o)}, nil
}

// ManualReopen clears a closed offer back to validated, whatever the close
// reason was. Admin-only.
func (e *Engine) ManualReopen(ctx context.Context, offerID string, actor *models.User) (*models.Offer, []notify.Event, error) {
	if err := e.gate.CanAdministerOffer(actor); err != nil {
		metrics.EngineFailures.WithLabelValues("manual_reopen", string(errors.ErrCodeForbidden)).Inc()
		return nil, nil, err
	}

	o, err := e.store.GetByID(ctx, offerID)
	if err != nil {
		return nil, nil, err
	}
	if o.State != models.OfferClosed {
		metrics.EngineFailures.WithLabelValues("manual_reopen", string(errors.ErrCodeInvalidTransition)).Inc()
		return nil, nil, errors.NewInvalidTransitionError(o.ID, string(o.State), "réouverture")
	}

	if err := e.setState(ctx, o, models.OfferValidated, ""); err != nil {
		return nil, nil, err
	}
	metrics.OfferTransitions.WithLabelValues("manual_reopen").Inc()

	e.indexUpsert(ctx, o)
	return o, []notify.Event{notify.OfferEvent(notify.EventOfferValidated, o)}, nil
}

// AdminChangeState is the raw state override. Unknown literals are an
// explicit InvalidState error; the historical behavior of silently ignoring
// them hid typos.
func (e *Engine) AdminChangeState(ctx context.Context, offerID string, newState models.OfferState, actor *models.User) (*models.Offer, error) {
	if err := e.gate.CanAdministerOffer(actor); err != nil {
		metrics.EngineFailures.WithLabelValues("admin_change_state", string(errors.ErrCodeForbidden)).Inc()
		return nil, err
	}
	if !models.ValidOfferState(newState) {
		metrics.EngineFailures.WithLabelValues("admin_change_state", string(errors.ErrCodeInvalidState)).Inc()
		return nil, errors.NewInvalidStateError(string(newState))
	}

	o, err := e.store.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	reason := ""
	if newState == models.OfferClosed {
		reason = "Clôturée par l'administrateur"
	}
	if err := e.setState(ctx, o, newState, reason); err != nil {
		return nil, err
	}
	metrics.OfferTransitions.WithLabelValues("admin_change_state").Inc()

	if newState == models.OfferValidated {
		e.indexUpsert(ctx, o)
	} else {
		e.indexRemove(ctx, o.ID)
	}
	return o, nil
}

// Get fetches one offer.
func (e *Engine) Get(ctx context.Context, offerID string) (*models.Offer, error) {
	return e.store.GetByID(ctx, offerID)
}

// List returns the offers visible to the actor, filtered and searched.
// Companies are scoped to their own offers; everyone else is scoped by
// state. Full-text search goes through the search backend when one is
// attached, with the SQL ILIKE path as fallback.
func (e *Engine) List(ctx context.Context, actor *models.User, filter models.OfferFilter) ([]models.Offer, error) {
	if actor != nil && actor.Role == models.RoleCompany && !actor.IsSuperuser {
		filter.CompanyID = actor.ID
		filter.ContactEmail = actor.Email
		// The index holds validated offers only; a company must also see
		// its pending and closed offers, so ownership-scoped listings
		// always go through SQL.
		return e.store.List(ctx, filter)
	}
	if states := e.gate.VisibleStates(actor); states != nil {
		filter.States = states
	}

	if filter.Search != "" && e.searcher != nil {
		offers, err := e.searcher.Search(ctx, filter)
		if err == nil {
			return offers, nil
		}
		e.logger.Warn("search backend failed, falling back to SQL", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return e.store.List(ctx, filter)
}

// setState writes state and closing reason together, keeping the invariant
// that the reason is set iff the offer is closed.
func (e *Engine) setState(ctx context.Context, o *models.Offer, state models.OfferState, reason string) error {
	if state != models.OfferClosed {
		reason = ""
	}
	if err := e.store.SetState(ctx, o.ID, state, reason); err != nil {
		return err
	}
	o.State = state
	o.ClosingReason = reason
	return nil
}

func (e *Engine) indexUpsert(ctx context.Context, o *models.Offer) {
	if e.indexer == nil {
		return
	}
	if err := e.indexer.IndexOffer(ctx, o); err != nil {
		e.logger.Warn("offer indexing failed", map[string]interface{}{
			"offerId": o.ID,
			"error":   err.Error(),
		})
	}
}

func (e *Engine) indexRemove(ctx context.Context, id string) {
	if e.indexer == nil {
		return
	}
	if err := e.indexer.RemoveOffer(ctx, id); err != nil {
		e.logger.Warn("offer index removal failed", map[string]interface{}{
			"offerId": id,
			"error":   err.Error(),
		})
	}
}
