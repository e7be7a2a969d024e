package users

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "user not found" }

type Repo interface {
	// UpsertByGoogleID creates or refreshes the row keyed by the Google
	// subject and returns the stored user with its internal id.
	UpsertByGoogleID(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
}
