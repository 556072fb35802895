package storage

import "context"

// Store persists artifact bytes and returns a resolvable public locator.
type Store interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
