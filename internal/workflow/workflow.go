// Package workflow sequences one proof submission: validate, fill
// identifier gaps, upload the artifact, register the payment, build the
// wait-page hand-off. Each step is a hard sequence point; a later step
// never starts unless the earlier one fully succeeded, because later
// payloads embed earlier results.
package workflow

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/BEAUVILLE/abos/config"
	"github.com/BEAUVILLE/abos/internal/ident"
	"github.com/BEAUVILLE/abos/internal/redirect"
	"github.com/BEAUVILLE/abos/internal/validate"
	"github.com/BEAUVILLE/abos/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State names one stage of a submission attempt. Completed and the
// failure states are terminal; a new user action starts over from Idle.
type State string

const (
	StateIdle                 State = "IDLE"
	StateValidating           State = "VALIDATING"
	StateResolvingIdentifiers State = "RESOLVING_IDENTIFIERS"
	StateUploading            State = "UPLOADING"
	StateRegistering          State = "REGISTERING"
	StateCompleted            State = "COMPLETED"
	StateFailed               State = "FAILED"
)

const minSlugLen = 3

type Uploader interface {
	ObjectPath(a *models.ProofArtifact) string
	Upload(ctx context.Context, path string, a *models.ProofArtifact) (*models.StorageObjectRef, error)
}

type Registrar interface {
	CreatePayment(ctx context.Context, o *models.Order, proofPath, source string) (*models.PaymentRecord, error)
}

// Journal records attempts for later orphan reconciliation. Best-effort:
// journal failures never fail a submission.
type Journal interface {
	PutAttempt(a *models.Attempt) error
	UpdateAttempt(id string, state models.AttemptState, errMsg string) error
}

// Receipt is the outcome of a completed submission.
type Receipt struct {
	Record      *models.PaymentRecord
	Object      *models.StorageObjectRef
	Slug        string
	Phone       string
	RedirectURL string
}

type Orchestrator struct {
	cfg       *config.Config
	uploader  Uploader
	registrar Registrar
	journal   Journal
	logger    *zap.SugaredLogger
	source    string
	inFlight  atomic.Bool
}

// NewOrchestrator wires one submission pipeline. journal may be nil.
// source labels the originating surface in the payment metadata.
func NewOrchestrator(cfg *config.Config, uploader Uploader, registrar Registrar, journal Journal, logger *zap.SugaredLogger, source string) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		uploader:  uploader,
		registrar: registrar,
		journal:   journal,
		logger:    logger,
		source:    source,
	}
}

// Submit runs one attempt to completion. The two network calls are the
// only suspension points and registration strictly depends on the
// upload's output. Exactly one submission may be past validation at a
// time; concurrent calls fail with KindBusy.
func (o *Orchestrator) Submit(ctx context.Context, order *models.Order, artifact *models.ProofArtifact) (*Receipt, error) {
	// Runtime configuration is re-checked at the start of every attempt;
	// its absence is not a validation problem.
	if o.cfg.StorageBaseURL == "" || o.cfg.StorageKey == "" {
		return nil, fail(KindConfig, errors.New("storage base URL and key are required"))
	}

	// Validating. No network calls have happened yet, so a concurrent
	// attempt can still validate in parallel without risk.
	phone, outcome := validate.Submission(order, artifact)
	if !outcome.Valid {
		return nil, &Error{Kind: KindValidation, Field: outcome.Field, Err: errors.New(outcome.Reason)}
	}

	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, fail(KindBusy, errors.New("a submission is already in progress"))
	}
	defer o.inFlight.Store(false)

	// ResolvingIdentifiers. Synchronous, cannot fail.
	order.Phone = phone
	slug := validate.NormalizeSlug(order.Slug)
	if len(slug) < minSlugLen {
		slug = ident.Slug(order.Plan)
	}
	order.Slug = slug
	if strings.TrimSpace(order.Reference) == "" {
		order.Reference = ident.Reference(order.Module)
	}

	attemptID := uuid.New().String()
	path := o.uploader.ObjectPath(artifact)
	o.recordAttempt(attemptID, order, path)

	// Uploading.
	o.logger.Infow("uploading proof", "attempt", attemptID, "path", path, "reference", order.Reference)
	object, err := o.uploader.Upload(ctx, path, artifact)
	if err != nil {
		o.updateAttempt(attemptID, models.AttemptFailed, err.Error())
		return nil, fail(KindUpload, err)
	}
	o.updateAttempt(attemptID, models.AttemptUploaded, "")

	// Registering.
	o.logger.Infow("registering payment", "attempt", attemptID, "reference", order.Reference)
	record, err := o.registrar.CreatePayment(ctx, order, object.Path, o.source)
	if err != nil {
		// The uploaded object is now orphaned; the journal keeps enough
		// to reconcile it later. No compensating delete.
		o.updateAttempt(attemptID, models.AttemptFailed, err.Error())
		return nil, fail(KindRegistration, err)
	}
	o.updateAttempt(attemptID, models.AttemptRegistered, "")

	// Completed. The canonical reference supersedes the proposed one
	// everywhere downstream; a registrar that returned none leaves the
	// proposed reference standing.
	if record.Reference == "" {
		record.Reference = order.Reference
	}
	receipt := &Receipt{
		Record: record,
		Object: object,
		Slug:   slug,
		Phone:  phone,
		RedirectURL: redirect.WaitURL(o.cfg.WaitPagePath, record.Reference, redirect.Params{
			Phone:  phone,
			Module: order.Module,
			Slug:   slug,
		}),
	}
	o.logger.Infow("submission completed", "attempt", attemptID, "reference", record.Reference)
	return receipt, nil
}

func (o *Orchestrator) recordAttempt(id string, order *models.Order, path string) {
	if o.journal == nil {
		return
	}
	err := o.journal.PutAttempt(&models.Attempt{
		ID:        id,
		Reference: order.Reference,
		Slug:      order.Slug,
		Phone:     order.Phone,
		Module:    order.Module,
		Plan:      order.Plan,
		Amount:    order.Amount,
		ProofPath: path,
		State:     models.AttemptUploading,
	})
	if err != nil {
		o.logger.Warnw("failed to journal attempt", "attempt", id, "error", err)
	}
}

func (o *Orchestrator) updateAttempt(id string, state models.AttemptState, errMsg string) {
	if o.journal == nil {
		return
	}
	if err := o.journal.UpdateAttempt(id, state, errMsg); err != nil {
		o.logger.Warnw("failed to update journal", "attempt", id, "state", state, "error", err)
	}
}
