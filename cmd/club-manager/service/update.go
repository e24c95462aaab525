package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"club-manager-backend/cmd/club-manager/repository"

	"github.com/google/uuid"
)

const defaultWriteRetries = 3

// Collection is the persistence contract every service is built on: the
// whole list is read together with its revision and written back at that
// revision.
type Collection[T any] interface {
	Load(ctx context.Context) ([]T, int64, error)
	Save(ctx context.Context, items []T, revision int64) (int64, error)
}

// errUnchanged lets an update callback finish without writing.
var errUnchanged = errors.New("unchanged")

type options struct {
	writeRetries int
	now          func() time.Time
}

type Option func(*options)

// WithWriteRetries bounds how many times a read-modify-write is repeated
// after losing a race with another writer.
func WithWriteRetries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.writeRetries = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{
		writeRetries: defaultWriteRetries,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func load[T any](ctx context.Context, coll Collection[T]) ([]T, error) {
	items, _, err := coll.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	return items, nil
}

// update reads the collection, hands it to fn and writes back whatever fn
// returns. fn runs again on a fresh read whenever the write loses to
// another writer, so it must derive everything from the slice it is given.
func update[T any](ctx context.Context, coll Collection[T], attempts int, fn func([]T) ([]T, error)) error {
	return updateAt(ctx, coll, attempts, func(items []T, _ int64) ([]T, error) {
		return fn(items)
	})
}

// updateAt is update with the revision the items were read at. Revision 0
// means the key has never been written.
func updateAt[T any](ctx context.Context, coll Collection[T], attempts int, fn func([]T, int64) ([]T, error)) error {
	for i := 0; i < attempts; i++ {
		items, rev, err := coll.Load(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStorageFailure, err)
		}

		items, err = fn(items, rev)
		if errors.Is(err, errUnchanged) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = coll.Save(ctx, items, rev)
		if errors.Is(err, repository.ErrStaleRevision) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStorageFailure, err)
		}
		return nil
	}
	return ErrConflict
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
