package interfaces

import (
	"context"

	"weld_quote/internal/domain/entities"
)

// INotifier delivers the "new order" message to the workshop. Best effort.
type INotifier interface {
	NotifyOrder(ctx context.Context, q entities.Quote) error
}
