package entities

import "time"

// QuoteStatus represents the lifecycle of a quote.
//
//	draft -> ordered -> in_progress -> done
//	any non-terminal state -> cancelled
//
// done and cancelled are terminal. Transitions never touch the estimate.
type QuoteStatus string

const (
	QuoteStatusDraft      QuoteStatus = "draft"
	QuoteStatusOrdered    QuoteStatus = "ordered"
	QuoteStatusInProgress QuoteStatus = "in_progress"
	QuoteStatusDone       QuoteStatus = "done"
	QuoteStatusCancelled  QuoteStatus = "cancelled"
)

var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusDraft:      {QuoteStatusOrdered, QuoteStatusCancelled},
	QuoteStatusOrdered:    {QuoteStatusInProgress, QuoteStatusCancelled},
	QuoteStatusInProgress: {QuoteStatusDone, QuoteStatusCancelled},
}

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusOrdered, QuoteStatusInProgress, QuoteStatusDone, QuoteStatusCancelled:
		return true
	}
	return false
}

func (s QuoteStatus) Terminal() bool {
	return s == QuoteStatusDone || s == QuoteStatusCancelled
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s QuoteStatus) CanTransitionTo(next QuoteStatus) bool {
	for _, allowed := range quoteTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Quote is the persisted job + estimate pair.
//
// Storage model (DynamoDB):
//   - PK: id
//
// Estimate is written once on creation; only Status and UpdatedAt change afterwards.
type Quote struct {
	ID        string         `json:"id"`
	Job       JobSpec        `json:"job"`
	Estimate  EstimateResult `json:"estimate"`
	Status    QuoteStatus    `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// QuoteSummary is the list view of a quote.
type QuoteSummary struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	WorkType    WorkType       `json:"work_type"`
	Material    Material       `json:"material"`
	Range       PriceRange     `json:"range"`
	Method      EstimateMethod `json:"method"`
	Status      QuoteStatus    `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (q Quote) Summary() QuoteSummary {
	return QuoteSummary{
		ID:          q.ID,
		Description: q.Job.FreeText,
		WorkType:    q.Job.WorkType,
		Material:    q.Job.Material,
		Range:       q.Estimate.Range,
		Method:      q.Estimate.Method,
		Status:      q.Status,
		CreatedAt:   q.CreatedAt,
	}
}
