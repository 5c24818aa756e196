package sync

import "context"

// Repository defines the interface for sync record persistence
type Repository interface {
	// CreateApiDoc registers a terminal document UID
	CreateApiDoc(ctx context.Context, doc *ApiDoc) error

	// FindApiDoc finds the registration for a terminal UID
	FindApiDoc(ctx context.Context, docUID string) (*ApiDoc, error)

	// UpdateApiDoc persists enriched header context
	UpdateApiDoc(ctx context.Context, doc *ApiDoc) error

	// UpdateApiDocStatus transitions the registration status
	UpdateApiDocStatus(ctx context.Context, docUID, status string) error

	// FindEvent finds a processed event by its ID
	FindEvent(ctx context.Context, eventID string) (*ApiEvent, error)

	// RecordEvent stores a processed event
	RecordEvent(ctx context.Context, event *ApiEvent) error
}
