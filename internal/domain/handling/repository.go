package handling

import "context"

// Repository defines the interface for handling unit persistence
type Repository interface {
	// Create inserts a unit with its placeholder code and fills in the ID
	Create(ctx context.Context, hu *Hu) error

	// UpdateCode replaces the placeholder code after the ID is known
	UpdateCode(ctx context.Context, id int64, code string) error

	// FindByCode finds a unit by its code
	FindByCode(ctx context.Context, code string) (*Hu, error)

	// FindAll lists units newest first, optionally filtered by a code search
	FindAll(ctx context.Context, search string, take int) ([]Hu, error)

	// Update persists status changes of an existing unit
	Update(ctx context.Context, hu *Hu) error
}
