package order

import "context"

// Repository defines the interface for order persistence
type Repository interface {
	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id int64) (*Order, error)

	// FindByRef finds an order by its reference
	FindByRef(ctx context.Context, orderRef string) (*Order, error)

	// FindAll lists orders newest first, optionally filtered by doc type
	FindAll(ctx context.Context, docType string, take int) ([]Order, error)

	// Lines returns the lines of an order
	Lines(ctx context.Context, orderID int64) ([]OrderLine, error)

	// Create persists an order together with its lines
	Create(ctx context.Context, o *Order, lines []OrderLine) error
}
