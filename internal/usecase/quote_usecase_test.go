package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"weld_quote/internal/domain/entities"
	"weld_quote/internal/domain/pricing"
	mock_interfaces "weld_quote/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func steelJob() entities.JobSpec {
	return entities.JobSpec{
		WorkType:      entities.WorkTypeWelding,
		WorkScope:     entities.WorkScopePreCut,
		Material:      entities.MaterialSteel,
		Thickness:     entities.ThicknessLT3,
		WeldType:      entities.WeldTypeButt,
		Position:      entities.PositionFlat,
		Conditions:    []entities.Condition{entities.ConditionIndoor},
		MaterialOwner: entities.MaterialOwnerClient,
		Deadline:      entities.DeadlineNormal,
		VolumeText:    "16.3 м",
		FreeText:      "ворота",
	}
}

func storedQuote(status entities.QuoteStatus) entities.Quote {
	return entities.Quote{
		ID:       "q-1",
		Job:      steelJob(),
		Estimate: entities.EstimateResult{Range: entities.PriceRange{Min: 134496, Max: 164384}, Method: entities.EstimateMethodLocal},
		Status:   status,
	}
}

func TestQuoteUseCase_Estimate(t *testing.T) {
	localRange := pricing.NewLocalEstimator(pricing.DefaultTariff()).Estimate(steelJob())

	t.Run("external accepted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ext := mock_interfaces.NewMockIExternalEstimator(ctrl)
		uc := NewQuoteUseCase(nil, ext, nil, nil, pricing.DefaultTariff())

		ext.EXPECT().Estimate(gomock.Any(), steelJob(), localRange).Return(entities.ExternalEstimate{
			Range:            entities.PriceRange{Min: 150000, Max: 170000},
			ExplanationShort: "ворота 16 м",
		}, nil)

		got, err := uc.Estimate(context.Background(), steelJob())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Method != entities.EstimateMethodExternal || got.Range.Min != 150000 || got.Range.Max != 170000 {
			t.Fatalf("unexpected result: %+v", got)
		}
		if got.TariffVersion != "2024.2" {
			t.Fatalf("expected tariff version, got %q", got.TariffVersion)
		}
	})

	t.Run("external failure falls back to local", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ext := mock_interfaces.NewMockIExternalEstimator(ctrl)
		uc := NewQuoteUseCase(nil, ext, nil, nil, pricing.DefaultTariff())

		ext.EXPECT().Estimate(gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.ExternalEstimate{}, errors.New("timeout"))

		got, err := uc.Estimate(context.Background(), steelJob())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Method != entities.EstimateMethodLocal || got.Range != localRange {
			t.Fatalf("unexpected result: %+v", got)
		}
		if len(got.Warnings) != 1 || got.Warnings[0] != pricing.WarningExternalUnavailable {
			t.Fatalf("unexpected warnings: %v", got.Warnings)
		}
	})

	t.Run("no external estimator configured", func(t *testing.T) {
		uc := NewQuoteUseCase(nil, nil, nil, nil, pricing.DefaultTariff())
		got, err := uc.Estimate(context.Background(), steelJob())
		if err != nil || got.Method != entities.EstimateMethodLocal || got.Range != localRange {
			t.Fatalf("unexpected result: %+v err=%v", got, err)
		}
	})

	t.Run("implausible external is corrected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ext := mock_interfaces.NewMockIExternalEstimator(ctrl)
		uc := NewQuoteUseCase(nil, ext, nil, nil, pricing.DefaultTariff())

		ext.EXPECT().Estimate(gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.ExternalEstimate{
			Range: entities.PriceRange{Min: 1500000, Max: 2000000},
		}, nil)

		got, _ := uc.Estimate(context.Background(), steelJob())
		if got.Method != entities.EstimateMethodExternalCorrected {
			t.Fatalf("expected corrected method, got %+v", got)
		}
	})
}

func TestQuoteUseCase_CreateQuote(t *testing.T) {
	t.Run("stores draft", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, nil, pricing.DefaultTariff())

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, q entities.Quote) (entities.Quote, error) {
			if q.ID == "" || q.Status != entities.QuoteStatusDraft {
				t.Fatalf("unexpected quote: %+v", q)
			}
			if q.CreatedAt.IsZero() || !q.CreatedAt.Equal(q.UpdatedAt) {
				t.Fatalf("unexpected timestamps: %+v", q)
			}
			if q.Estimate.Range.Min != 134496 || q.Job.FreeText != "ворота" {
				t.Fatalf("unexpected estimate/job: %+v", q)
			}
			return q, nil
		})

		got, err := uc.CreateQuote(context.Background(), steelJob())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.QuoteStatusDraft {
			t.Fatalf("expected draft, got %s", got.Status)
		}
	})

	t.Run("persistence error is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, nil, pricing.DefaultTariff())

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Quote{}, errors.New("ddb down"))

		if _, err := uc.CreateQuote(context.Background(), steelJob()); err == nil || err.Error() != "ddb down" {
			t.Fatalf("expected ddb error, got %v", err)
		}
	})

	t.Run("repository not configured", func(t *testing.T) {
		uc := NewQuoteUseCase(nil, nil, nil, nil, pricing.DefaultTariff())
		if _, err := uc.CreateQuote(context.Background(), steelJob()); !errors.Is(err, ErrRepositoryUnavailable) {
			t.Fatalf("expected ErrRepositoryUnavailable, got %v", err)
		}
	})
}

func TestQuoteUseCase_ConfirmOrder(t *testing.T) {
	t.Run("draft to ordered notifies with detached context", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := NewQuoteUseCase(repo, nil, notifier, nil, pricing.DefaultTariff())

		ordered := storedQuote(entities.QuoteStatusOrdered)
		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(storedQuote(entities.QuoteStatusDraft), nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", entities.QuoteStatusDraft, entities.QuoteStatusOrdered).Return(ordered, nil)

		ctx, cancel := context.WithCancel(context.Background())
		release := make(chan struct{})
		notifier.EXPECT().NotifyOrder(gomock.Any(), ordered).DoAndReturn(func(nctx context.Context, _ entities.Quote) error {
			<-release
			if nctx.Err() != nil {
				t.Errorf("notification context cancelled with the request: %v", nctx.Err())
			}
			if _, ok := nctx.Deadline(); !ok {
				t.Errorf("notification context has no deadline")
			}
			return nil
		})

		got, err := uc.ConfirmOrder(ctx, " q-1 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.QuoteStatusOrdered {
			t.Fatalf("expected ordered, got %s", got.Status)
		}
		cancel()
		close(release)
		uc.Wait()
	})

	t.Run("notification failure does not fail the order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := NewQuoteUseCase(repo, nil, notifier, nil, pricing.DefaultTariff())

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(storedQuote(entities.QuoteStatusDraft), nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", entities.QuoteStatusDraft, entities.QuoteStatusOrdered).Return(storedQuote(entities.QuoteStatusOrdered), nil)
		notifier.EXPECT().NotifyOrder(gomock.Any(), gomock.Any()).Return(errors.New("telegram down"))

		if _, err := uc.ConfirmOrder(context.Background(), "q-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		uc.Wait()
	})

	t.Run("already ordered", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := NewQuoteUseCase(repo, nil, notifier, nil, pricing.DefaultTariff())

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(storedQuote(entities.QuoteStatusOrdered), nil)

		if _, err := uc.ConfirmOrder(context.Background(), "q-1"); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("lost race", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := NewQuoteUseCase(repo, nil, notifier, nil, pricing.DefaultTariff())

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(storedQuote(entities.QuoteStatusDraft), nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", entities.QuoteStatusDraft, entities.QuoteStatusOrdered).Return(entities.Quote{}, nil)

		if _, err := uc.ConfirmOrder(context.Background(), "q-1"); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, nil, pricing.DefaultTariff())

		repo.EXPECT().GetByID(gomock.Any(), "missing").Return(entities.Quote{}, nil)

		if _, err := uc.ConfirmOrder(context.Background(), "missing"); !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound, got %v", err)
		}
	})

	t.Run("empty id", func(t *testing.T) {
		uc := NewQuoteUseCase(nil, nil, nil, nil, pricing.DefaultTariff())
		if _, err := uc.ConfirmOrder(context.Background(), "  "); !errors.Is(err, ErrInvalidQuoteID) {
			t.Fatalf("expected ErrInvalidQuoteID, got %v", err)
		}
	})
}

func TestQuoteUseCase_UpdateStatus(t *testing.T) {
	t.Run("rejects unknown and draft", func(t *testing.T) {
		uc := NewQuoteUseCase(nil, nil, nil, nil, pricing.DefaultTariff())
		for _, s := range []entities.QuoteStatus{"paid", entities.QuoteStatusDraft, ""} {
			if _, err := uc.UpdateStatus(context.Background(), "q-1", s); !errors.Is(err, ErrInvalidStatus) {
				t.Fatalf("status %q: expected ErrInvalidStatus, got %v", s, err)
			}
		}
	})

	t.Run("ordered to in_progress", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := NewQuoteUseCase(repo, nil, notifier, nil, pricing.DefaultTariff())

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(storedQuote(entities.QuoteStatusOrdered), nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", entities.QuoteStatusOrdered, entities.QuoteStatusInProgress).
			Return(storedQuote(entities.QuoteStatusInProgress), nil)

		got, err := uc.UpdateStatus(context.Background(), "q-1", entities.QuoteStatusInProgress)
		if err != nil || got.Status != entities.QuoteStatusInProgress {
			t.Fatalf("unexpected result %+v err=%v", got, err)
		}
	})

	t.Run("ordered to done is not allowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, nil, pricing.DefaultTariff())

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(storedQuote(entities.QuoteStatusOrdered), nil)

		if _, err := uc.UpdateStatus(context.Background(), "q-1", entities.QuoteStatusDone); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("closed quotes are terminal", func(t *testing.T) {
		cases := []struct {
			from entities.QuoteStatus
			to   entities.QuoteStatus
		}{
			{entities.QuoteStatusCancelled, entities.QuoteStatusInProgress},
			{entities.QuoteStatusDone, entities.QuoteStatusCancelled},
			{entities.QuoteStatusDone, entities.QuoteStatusOrdered},
		}
		for _, tc := range cases {
			ctrl := gomock.NewController(t)
			repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
			uc := NewQuoteUseCase(repo, nil, nil, nil, pricing.DefaultTariff())

			// no UpdateStatus expectation: the write must not be attempted
			repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(storedQuote(tc.from), nil)

			_, err := uc.UpdateStatus(context.Background(), "q-1", tc.to)
			if !errors.Is(err, ErrQuoteClosed) || !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("%s -> %s: expected ErrQuoteClosed, got %v", tc.from, tc.to, err)
			}
			ctrl.Finish()
		}
	})

	t.Run("ordered via status goes through confirmation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := NewQuoteUseCase(repo, nil, notifier, nil, pricing.DefaultTariff())

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(storedQuote(entities.QuoteStatusDraft), nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", entities.QuoteStatusDraft, entities.QuoteStatusOrdered).Return(storedQuote(entities.QuoteStatusOrdered), nil)
		notifier.EXPECT().NotifyOrder(gomock.Any(), gomock.Any()).Return(nil)

		if _, err := uc.UpdateStatus(context.Background(), "q-1", entities.QuoteStatusOrdered); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		uc.Wait()
	})

	t.Run("store error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, nil, pricing.DefaultTariff())

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(storedQuote(entities.QuoteStatusInProgress), nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", entities.QuoteStatusInProgress, entities.QuoteStatusDone).Return(entities.Quote{}, errors.New("throttled"))

		if _, err := uc.UpdateStatus(context.Background(), "q-1", entities.QuoteStatusDone); err == nil || err.Error() != "throttled" {
			t.Fatalf("expected store error, got %v", err)
		}
	})
}

func TestQuoteUseCase_GetAndList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
	uc := NewQuoteUseCase(repo, nil, nil, nil, pricing.DefaultTariff())

	repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(storedQuote(entities.QuoteStatusDraft), nil)
	got, err := uc.GetByID(context.Background(), "q-1")
	if err != nil || got.ID != "q-1" {
		t.Fatalf("unexpected result %+v err=%v", got, err)
	}

	repo.EXPECT().List(gomock.Any(), entities.QuoteStatusOrdered).Return([]entities.Quote{storedQuote(entities.QuoteStatusOrdered)}, nil)
	list, err := uc.List(context.Background(), entities.QuoteStatusOrdered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Description != "ворота" || list[0].Range.Max != 164384 || list[0].Status != entities.QuoteStatusOrdered {
		t.Fatalf("unexpected summaries: %+v", list)
	}

	repo.EXPECT().List(gomock.Any(), entities.QuoteStatus("")).Return(nil, nil)
	list, err = uc.List(context.Background(), "")
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %v err=%v", list, err)
	}

	if _, err := uc.List(context.Background(), "paid"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestQuoteUseCase_Export(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		uc := NewQuoteUseCase(nil, nil, nil, nil, pricing.DefaultTariff())
		if _, err := uc.Export(context.Background(), ""); !errors.Is(err, ErrExportNotConfigured) {
			t.Fatalf("expected ErrExportNotConfigured, got %v", err)
		}
	})

	t.Run("renders filtered quotes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		exporter := mock_interfaces.NewMockIQuoteExporter(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, exporter, pricing.DefaultTariff())

		quotes := []entities.Quote{storedQuote(entities.QuoteStatusDone)}
		repo.EXPECT().List(gomock.Any(), entities.QuoteStatusDone).Return(quotes, nil)
		exporter.EXPECT().Export(gomock.Any(), quotes).DoAndReturn(func(w io.Writer, _ []entities.Quote) error {
			_, err := io.WriteString(w, "xlsx-bytes")
			return err
		})
		exporter.EXPECT().FileExtension().Return("xlsx")
		exporter.EXPECT().ContentType().Return("application/test")

		file, err := uc.Export(context.Background(), entities.QuoteStatusDone)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(file.Data) != "xlsx-bytes" || file.ContentType != "application/test" {
			t.Fatalf("unexpected file: %+v", file)
		}
		if !strings.HasPrefix(file.FileName, "quotes-done-") || !strings.HasSuffix(file.FileName, ".xlsx") {
			t.Fatalf("unexpected file name %q", file.FileName)
		}
	})

	t.Run("exporter error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		exporter := mock_interfaces.NewMockIQuoteExporter(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, exporter, pricing.DefaultTariff())

		repo.EXPECT().List(gomock.Any(), entities.QuoteStatus("")).Return(nil, nil)
		exporter.EXPECT().Export(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		if _, err := uc.Export(context.Background(), ""); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestQuoteUseCase_NotifyTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
	notifier := mock_interfaces.NewMockINotifier(ctrl)
	uc := NewQuoteUseCase(repo, nil, notifier, nil, pricing.DefaultTariff())
	uc.notifyTimeout = 20 * time.Millisecond

	repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(storedQuote(entities.QuoteStatusDraft), nil)
	repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", entities.QuoteStatusDraft, entities.QuoteStatusOrdered).Return(storedQuote(entities.QuoteStatusOrdered), nil)
	notifier.EXPECT().NotifyOrder(gomock.Any(), gomock.Any()).DoAndReturn(func(nctx context.Context, _ entities.Quote) error {
		<-nctx.Done()
		return nctx.Err()
	})

	if _, err := uc.ConfirmOrder(context.Background(), "q-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	uc.Wait()
}
