package storage

import "context"

// Keys the session layer persists for every browser.
const (
	KeyToken = "jwt_token"
	KeyEmail = "user_email"
)

// Storage is the per-browser key-value port the session store persists to.
// A missing key is reported through ok=false, never as an error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend hands out one Storage bucket per browser.
type Backend interface {
	Bucket(browserID string) Storage
	Close() error
}
