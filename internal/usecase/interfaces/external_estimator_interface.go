package interfaces

import (
	"context"

	"weld_quote/internal/domain/entities"
)

// IExternalEstimator asks a remote text-generation service for a second opinion.
// The local range is sent as a reference only. Any error means "external estimate unavailable".
type IExternalEstimator interface {
	Estimate(ctx context.Context, job entities.JobSpec, local entities.PriceRange) (entities.ExternalEstimate, error)
}
