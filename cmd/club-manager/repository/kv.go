package repository

import (
	"context"
	"errors"
)

var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrStaleRevision = errors.New("stale revision")
)

// Keys the browser build used in local storage. Each holds one JSON array.
const (
	KeyUsers         = "cms_users"
	KeyMembers       = "cms_members"
	KeyEvents        = "cms_events"
	KeyAnnouncements = "cms_announcements"
	KeyFunds         = "cms_funds"
)

type Entry struct {
	Key      string
	Value    []byte
	Revision int64
}

// Store is a revisioned key-value blob store. A key that was never written
// has revision 0. Set succeeds only when expectedRevision matches the
// stored revision and returns the new one; otherwise it fails with
// ErrStaleRevision and leaves the value untouched.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, value []byte, expectedRevision int64) (int64, error)
	Ping(ctx context.Context) error
}
