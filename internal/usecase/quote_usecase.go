package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"weld_quote/internal/domain/entities"
	"weld_quote/internal/domain/pricing"
	"weld_quote/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrQuoteNotFound         = errors.New("quote not found")
	ErrInvalidQuoteID        = errors.New("invalid quote id")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrQuoteClosed           = fmt.Errorf("%w: quote is closed", ErrInvalidTransition)
	ErrExportNotConfigured   = errors.New("quote export not configured")
	ErrRepositoryUnavailable = errors.New("quote repository not configured")
)

const defaultNotifyTimeout = 15 * time.Second

// ExportFile is a rendered export ready to be streamed to the client.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// IQuoteUseCase is the quote assembler and lifecycle.
//
//   - POST /v1/estimates          => Estimate() (preview, nothing stored)
//   - POST /v1/quotes             => CreateQuote() (stored as draft)
//   - PATCH /v1/quotes/:id/order  => ConfirmOrder() (draft -> ordered, notifies the workshop)
//   - PATCH /v1/quotes/:id/status => UpdateStatus() (operator transitions)
type IQuoteUseCase interface {
	Estimate(ctx context.Context, job entities.JobSpec) (entities.EstimateResult, error)
	CreateQuote(ctx context.Context, job entities.JobSpec) (entities.Quote, error)
	ConfirmOrder(ctx context.Context, id string) (entities.Quote, error)
	UpdateStatus(ctx context.Context, id string, status entities.QuoteStatus) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	List(ctx context.Context, status entities.QuoteStatus) ([]entities.QuoteSummary, error)
	Export(ctx context.Context, status entities.QuoteStatus) (ExportFile, error)
}

type QuoteUseCase struct {
	repo       interfaces.IQuoteRepository
	external   interfaces.IExternalEstimator
	notifier   interfaces.INotifier
	exporter   interfaces.IQuoteExporter
	local      *pricing.LocalEstimator
	reconciler *pricing.Reconciler

	notifyTimeout time.Duration
	inflight      sync.WaitGroup
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

// NewQuoteUseCase wires the pricing engine with its collaborators. external, notifier
// and exporter may be nil; estimates then fall back to the local tariff.
func NewQuoteUseCase(
	repo interfaces.IQuoteRepository,
	external interfaces.IExternalEstimator,
	notifier interfaces.INotifier,
	exporter interfaces.IQuoteExporter,
	tariff pricing.Tariff,
) *QuoteUseCase {
	local := pricing.NewLocalEstimator(tariff)
	return &QuoteUseCase{
		repo:          repo,
		external:      external,
		notifier:      notifier,
		exporter:      exporter,
		local:         local,
		reconciler:    pricing.NewReconciler(local),
		notifyTimeout: defaultNotifyTimeout,
	}
}

// Estimate never fails: the external estimator is best effort and the local
// tariff always produces a range.
func (u *QuoteUseCase) Estimate(ctx context.Context, job entities.JobSpec) (entities.EstimateResult, error) {
	start := time.Now()
	local := u.local.Estimate(job)

	var external *entities.ExternalEstimate
	if u.external != nil {
		ext, err := u.external.Estimate(ctx, job, local)
		if err != nil {
			log.Printf("[quote][usecase] external estimate unavailable err=%v", err)
		} else {
			external = &ext
		}
	}

	result := u.reconciler.Reconcile(local, external, job)
	log.Printf("[quote][usecase] estimate done method=%s min=%d max=%d local_min=%d local_max=%d elapsed_ms=%d",
		result.Method, result.Range.Min, result.Range.Max, local.Min, local.Max, time.Since(start).Milliseconds())
	return result, nil
}

func (u *QuoteUseCase) CreateQuote(ctx context.Context, job entities.JobSpec) (entities.Quote, error) {
	if u.repo == nil {
		return entities.Quote{}, ErrRepositoryUnavailable
	}
	log.Printf("[quote][usecase] create start work_type=%s material=%s scope=%s", job.WorkType, job.Material, job.WorkScope)

	result, err := u.Estimate(ctx, job)
	if err != nil {
		return entities.Quote{}, err
	}

	now := time.Now().UTC()
	q := entities.Quote{
		ID:        uuid.NewString(),
		Job:       job,
		Estimate:  result,
		Status:    entities.QuoteStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := u.repo.Create(ctx, q)
	if err != nil {
		log.Printf("[quote][usecase] create failed quote_id=%s err=%v", q.ID, err)
		return entities.Quote{}, err
	}
	log.Printf("[quote][usecase] created quote_id=%s method=%s", created.ID, created.Estimate.Method)
	return created, nil
}

// ConfirmOrder moves a draft to ordered. The notification runs after the write and
// never affects the result.
func (u *QuoteUseCase) ConfirmOrder(ctx context.Context, id string) (entities.Quote, error) {
	updated, err := u.transition(ctx, id, entities.QuoteStatusOrdered)
	if err != nil {
		return entities.Quote{}, err
	}
	u.notifyAsync(ctx, updated)
	return updated, nil
}

func (u *QuoteUseCase) UpdateStatus(ctx context.Context, id string, status entities.QuoteStatus) (entities.Quote, error) {
	status = entities.QuoteStatus(strings.TrimSpace(string(status)))
	if !status.Valid() || status == entities.QuoteStatusDraft {
		return entities.Quote{}, ErrInvalidStatus
	}
	if status == entities.QuoteStatusOrdered {
		return u.ConfirmOrder(ctx, id)
	}
	return u.transition(ctx, id, status)
}

func (u *QuoteUseCase) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}
	if u.repo == nil {
		return entities.Quote{}, ErrRepositoryUnavailable
	}

	q, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if q.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

func (u *QuoteUseCase) List(ctx context.Context, status entities.QuoteStatus) ([]entities.QuoteSummary, error) {
	quotes, err := u.list(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]entities.QuoteSummary, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, q.Summary())
	}
	return out, nil
}

func (u *QuoteUseCase) Export(ctx context.Context, status entities.QuoteStatus) (ExportFile, error) {
	if u.exporter == nil {
		return ExportFile{}, ErrExportNotConfigured
	}
	quotes, err := u.list(ctx, status)
	if err != nil {
		return ExportFile{}, err
	}

	var buf bytes.Buffer
	if err := u.exporter.Export(&buf, quotes); err != nil {
		log.Printf("[quote][usecase] export failed count=%d err=%v", len(quotes), err)
		return ExportFile{}, err
	}
	name := "quotes"
	if status != "" {
		name += "-" + string(status)
	}
	return ExportFile{
		FileName:    fmt.Sprintf("%s-%s.%s", name, time.Now().UTC().Format("20060102-150405"), u.exporter.FileExtension()),
		ContentType: u.exporter.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

// Wait blocks until in-flight notifications have finished. Used on shutdown.
func (u *QuoteUseCase) Wait() {
	u.inflight.Wait()
}

func (u *QuoteUseCase) list(ctx context.Context, status entities.QuoteStatus) ([]entities.Quote, error) {
	status = entities.QuoteStatus(strings.TrimSpace(string(status)))
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if u.repo == nil {
		return nil, ErrRepositoryUnavailable
	}
	return u.repo.List(ctx, status)
}

// transition checks the state machine against the stored status, then writes
// conditionally on that status so a concurrent change makes this one fail.
func (u *QuoteUseCase) transition(ctx context.Context, id string, to entities.QuoteStatus) (entities.Quote, error) {
	current, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if current.Status.Terminal() {
		log.Printf("[quote][usecase] transition rejected quote_id=%s status=%s closed", current.ID, current.Status)
		return entities.Quote{}, ErrQuoteClosed
	}
	if !current.Status.CanTransitionTo(to) {
		log.Printf("[quote][usecase] transition rejected quote_id=%s from=%s to=%s", current.ID, current.Status, to)
		return entities.Quote{}, ErrInvalidTransition
	}

	updated, err := u.repo.UpdateStatus(ctx, current.ID, current.Status, to)
	if err != nil {
		return entities.Quote{}, err
	}
	if updated.ID == "" {
		log.Printf("[quote][usecase] transition lost race quote_id=%s from=%s to=%s", current.ID, current.Status, to)
		return entities.Quote{}, ErrInvalidTransition
	}
	log.Printf("[quote][usecase] transition quote_id=%s from=%s to=%s", updated.ID, current.Status, updated.Status)
	return updated, nil
}

func (u *QuoteUseCase) notifyAsync(ctx context.Context, q entities.Quote) {
	if u.notifier == nil {
		return
	}
	u.inflight.Add(1)
	go func() {
		defer u.inflight.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.notifyTimeout)
		defer cancel()
		if err := u.notifier.NotifyOrder(nctx, q); err != nil {
			log.Printf("[quote][usecase] notify failed quote_id=%s err=%v", q.ID, err)
		}
	}()
}
