package session

import "context"

// Repo is the persistent key/value storage behind a Session.
// Values are scoped by namespace, one namespace per backend origin.
type Repo interface {
	// Get returns the stored values for the requested keys. Absent keys are
	// omitted from the result.
	Get(ctx context.Context, namespace string, keys ...string) (map[string]string, error)
	Set(ctx context.Context, namespace, key, value string) error
	// Delete removes all keys in one operation.
	Delete(ctx context.Context, namespace string, keys ...string) error
}
