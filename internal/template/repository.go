package template

import "context"

// Repository stores the templates of each owner.
type Repository interface {
	// ListTemplates returns the owner's templates ordered by day and start.
	ListTemplates(ctx context.Context, owner string) ([]Wire, error)
	// ReplaceTemplates swaps the owner's whole set in one transaction.
	ReplaceTemplates(ctx context.Context, owner string, templates []Wire) error
	// AddTemplates inserts templates, ignoring exact duplicates.
	AddTemplates(ctx context.Context, owner string, templates []Wire) error
	// DeleteTemplates removes templates matching by value and returns how
	// many rows went.
	DeleteTemplates(ctx context.Context, owner string, templates []Wire) (int, error)
	Close() error
}
