package session

import (
	"context"

	"github.com/rbright/mockprep/internal/store"
)

// Committer persists the result bundle when a session finalizes.
type Committer interface {
	Commit(context.Context, store.Bundle) error
}

// CommitFunc adapts a function to the Committer interface.
type CommitFunc func(context.Context, store.Bundle) error

func (f CommitFunc) Commit(ctx context.Context, bundle store.Bundle) error {
	return f(ctx, bundle)
}

// StoreCommitter writes bundles through typed store accessors.
func StoreCommitter(s *store.Store) Committer {
	return CommitFunc(s.SaveBundle)
}
