package response

import (
	"time"

	"weld_quote/internal/domain/entities"
)

// Trust levels shown next to a price so operators can tell a tariff figure from a
// model-backed one.
const (
	TrustTariff       = "tariff"
	TrustCorroborated = "corroborated"
	TrustAdjusted     = "adjusted"
)

type PriceRangeResponse struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

type EstimateResponse struct {
	PriceMin         int64              `json:"price_min"`
	PriceMax         int64              `json:"price_max"`
	Range            PriceRangeResponse `json:"range"`
	Currency         string             `json:"currency"`
	Method           string             `json:"method"`
	Trust            string             `json:"trust"`
	ExplanationShort string             `json:"explanation_short"`
	ExplanationLong  string             `json:"explanation_long,omitempty"`
	Warnings         []string           `json:"warnings"`
	TariffVersion    string             `json:"tariff_version"`
}

type QuoteResponse struct {
	ID        string           `json:"id"`
	Status    string           `json:"status"`
	Job       entities.JobSpec `json:"job"`
	Estimate  EstimateResponse `json:"estimate"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type QuoteSummaryResponse struct {
	ID          string             `json:"id"`
	Description string             `json:"description"`
	WorkType    string             `json:"work_type"`
	Material    string             `json:"material"`
	Range       PriceRangeResponse `json:"range"`
	Method      string             `json:"method"`
	Trust       string             `json:"trust"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

type QuoteListResponse struct {
	Items []QuoteSummaryResponse `json:"items"`
	Count int                    `json:"count"`
}

func FromEstimateResult(r entities.EstimateResult) EstimateResponse {
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return EstimateResponse{
		PriceMin:         r.Range.Min,
		PriceMax:         r.Range.Max,
		Range:            fromRange(r.Range),
		Currency:         "RUB",
		Method:           string(r.Method),
		Trust:            trustOf(r.Method),
		ExplanationShort: r.ExplanationShort,
		ExplanationLong:  r.ExplanationLong,
		Warnings:         warnings,
		TariffVersion:    r.TariffVersion,
	}
}

func FromQuote(q entities.Quote) QuoteResponse {
	return QuoteResponse{
		ID:        q.ID,
		Status:    string(q.Status),
		Job:       q.Job,
		Estimate:  FromEstimateResult(q.Estimate),
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

func FromQuoteSummaries(list []entities.QuoteSummary) QuoteListResponse {
	items := make([]QuoteSummaryResponse, 0, len(list))
	for _, s := range list {
		items = append(items, QuoteSummaryResponse{
			ID:          s.ID,
			Description: s.Description,
			WorkType:    string(s.WorkType),
			Material:    string(s.Material),
			Range:       fromRange(s.Range),
			Method:      string(s.Method),
			Trust:       trustOf(s.Method),
			Status:      string(s.Status),
			CreatedAt:   s.CreatedAt,
		})
	}
	return QuoteListResponse{Items: items, Count: len(items)}
}

func fromRange(r entities.PriceRange) PriceRangeResponse {
	return PriceRangeResponse{Min: r.Min, Max: r.Max}
}

func trustOf(m entities.EstimateMethod) string {
	switch m {
	case entities.EstimateMethodExternal:
		return TrustCorroborated
	case entities.EstimateMethodExternalCorrected:
		return TrustAdjusted
	default:
		return TrustTariff
	}
}
