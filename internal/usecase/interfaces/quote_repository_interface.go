package interfaces

import (
	"context"

	"weld_quote/internal/domain/entities"
)

// IQuoteRepository abstracts DynamoDB persistence for Quote.
//
// A zero Quote (empty ID) with a nil error means "not found" or, for UpdateStatus,
// "the quote was not in the expected state".
type IQuoteRepository interface {
	Create(ctx context.Context, q entities.Quote) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	// List returns quotes newest first. An empty status returns all of them.
	List(ctx context.Context, status entities.QuoteStatus) ([]entities.Quote, error)
	UpdateStatus(ctx context.Context, id string, from, to entities.QuoteStatus) (entities.Quote, error)
}
