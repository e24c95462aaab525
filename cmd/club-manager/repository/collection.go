package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"club-manager-backend/cmd/club-manager/model"
)

// Collection stores a whole slice of T as one JSON array under one key.
// Reads and writes are always of the full array.
type Collection[T any] struct {
	store Store
	key   string
}

func NewCollection[T any](store Store, key string) *Collection[T] {
	return &Collection[T]{
		store: store,
		key:   key,
	}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns the stored items and the revision they were read at. A key
// that has never been written loads as an empty slice at revision 0.
func (c *Collection[T]) Load(ctx context.Context) ([]T, int64, error) {

	entry, err := c.store.Get(ctx, c.key)
	if errors.Is(err, ErrKeyNotFound) {
		return []T{}, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	items := []T{}
	if len(entry.Value) > 0 {
		if err := json.Unmarshal(entry.Value, &items); err != nil {
			return nil, 0, fmt.Errorf("decode %s: %w", c.key, err)
		}
	}
	if items == nil {
		items = []T{}
	}

	return items, entry.Revision, nil
}

func (c *Collection[T]) Save(ctx context.Context, items []T, revision int64) (int64, error) {

	if items == nil {
		items = []T{}
	}

	value, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", c.key, err)
	}

	return c.store.Set(ctx, c.key, value, revision)
}

type EventRepo struct {
	*Collection[model.Event]
}

func NewEventRepo(store Store) *EventRepo {
	return &EventRepo{NewCollection[model.Event](store, KeyEvents)}
}

type UserRepo struct {
	*Collection[model.User]
}

func NewUserRepo(store Store) *UserRepo {
	return &UserRepo{NewCollection[model.User](store, KeyUsers)}
}

type MemberRepo struct {
	*Collection[model.Member]
}

func NewMemberRepo(store Store) *MemberRepo {
	return &MemberRepo{NewCollection[model.Member](store, KeyMembers)}
}

type AnnouncementRepo struct {
	*Collection[model.Announcement]
}

func NewAnnouncementRepo(store Store) *AnnouncementRepo {
	return &AnnouncementRepo{NewCollection[model.Announcement](store, KeyAnnouncements)}
}

type FundRepo struct {
	*Collection[model.Transaction]
}

func NewFundRepo(store Store) *FundRepo {
	return &FundRepo{NewCollection[model.Transaction](store, KeyFunds)}
}
