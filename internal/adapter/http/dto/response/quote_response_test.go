package response

import (
	"testing"
	"time"

	"weld_quote/internal/domain/entities"
)

func TestFromEstimateResult(t *testing.T) {
	res := FromEstimateResult(entities.EstimateResult{
		Range:            entities.PriceRange{Min: 97800, Max: 146700},
		Method:           entities.EstimateMethodExternalCorrected,
		ExplanationShort: "ворота",
		TariffVersion:    "2024.2",
	})
	if res.PriceMin != 97800 || res.PriceMax != 146700 || res.Range.Min != 97800 || res.Range.Max != 146700 {
		t.Fatalf("unexpected range: %+v", res)
	}
	if res.Trust != TrustAdjusted || res.Method != "external_corrected" || res.Currency != "RUB" {
		t.Fatalf("unexpected method fields: %+v", res)
	}
	if res.Warnings == nil {
		t.Fatalf("warnings must serialize as an empty list")
	}

	if got := FromEstimateResult(entities.EstimateResult{Method: entities.EstimateMethodLocal}).Trust; got != TrustTariff {
		t.Fatalf("expected tariff trust, got %s", got)
	}
	if got := FromEstimateResult(entities.EstimateResult{Method: entities.EstimateMethodExternal}).Trust; got != TrustCorroborated {
		t.Fatalf("expected corroborated trust, got %s", got)
	}
}

func TestFromQuote(t *testing.T) {
	now := time.Now().UTC()
	q := entities.Quote{
		ID:        "q-1",
		Status:    entities.QuoteStatusOrdered,
		Job:       entities.JobSpec{Material: entities.MaterialBrass, FreeText: "перила"},
		Estimate:  entities.EstimateResult{Range: entities.PriceRange{Min: 1, Max: 2}, Method: entities.EstimateMethodLocal},
		CreatedAt: now,
		UpdatedAt: now,
	}
	res := FromQuote(q)
	if res.ID != "q-1" || res.Status != "ordered" || res.Job.Material != entities.MaterialBrass {
		t.Fatalf("unexpected quote: %+v", res)
	}
	if res.Estimate.PriceMax != 2 || !res.CreatedAt.Equal(now) || !res.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected mapped fields: %+v", res)
	}
}

func TestFromQuoteSummaries(t *testing.T) {
	res := FromQuoteSummaries([]entities.QuoteSummary{
		{ID: "a", Description: "перила", Material: entities.MaterialSteel, Method: entities.EstimateMethodExternal, Status: entities.QuoteStatusDraft},
		{ID: "b", Status: entities.QuoteStatusDone},
	})
	if res.Count != 2 || len(res.Items) != 2 {
		t.Fatalf("unexpected count: %+v", res)
	}
	if res.Items[0].Trust != TrustCorroborated || res.Items[0].Description != "перила" || res.Items[1].Status != "done" {
		t.Fatalf("unexpected items: %+v", res.Items)
	}

	empty := FromQuoteSummaries(nil)
	if empty.Items == nil || empty.Count != 0 {
		t.Fatalf("expected empty list, got %+v", empty)
	}
}
