package event

import "context"

type Repository interface {
	// Append persists the event and returns it with the store-assigned
	// identifier and timestamp filled in.
	Append(ctx context.Context, e Event) (Event, error)
	ListByMatch(ctx context.Context, matchID string) ([]Event, error)
}
