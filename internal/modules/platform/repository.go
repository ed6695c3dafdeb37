package platform

import "context"

// Repository defines the interface for platform data storage.
type Repository interface {
	// Begin opens a unit of work for staging new platforms.
	Begin(ctx context.Context) (Tx, error)
	GetPlatformByID(ctx context.Context, id int) (*Platform, error)
	// ListPlatforms returns a snapshot of every committed platform ordered by id.
	ListPlatforms(ctx context.Context) ([]*Platform, error)
}

// Tx is a request-local unit of work. Creates become visible to readers only
// after Commit succeeds.
type Tx interface {
	// CreatePlatform assigns p.ID and stages p. A nil p is a *ValidationError.
	CreatePlatform(ctx context.Context, p *Platform) error
	Commit() error
	// Rollback discards staged creates. It is a no-op after Commit.
	Rollback() error
}
