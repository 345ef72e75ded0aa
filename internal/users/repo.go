package users

import "context"

// Repo persists users. Upsert is a single atomic insert-or-update and reports
// whether the record was created.
type Repo interface {
	Upsert(ctx context.Context, in UpsertInput) (User, bool, error)
	GetByID(ctx context.Context, userID string) (User, error)
	List(ctx context.Context) ([]User, error)
}
