package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-redis/redis/v8"
)

const (
	fieldValue    = "value"
	fieldRevision = "revision"
)

// RedisStore keeps every key as a hash holding the JSON value and its
// revision. Set is a WATCH/MULTI compare-and-set on that hash.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisStore) redisKey(key string) string {
	return s.prefix + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, error) {

	fields, err := s.client.HGetAll(ctx, s.redisKey(key)).Result()
	if err != nil {
		return Entry{}, err
	}
	if len(fields) == 0 {
		return Entry{Key: key}, ErrKeyNotFound
	}

	rev, err := strconv.ParseInt(fields[fieldRevision], 10, 64)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Key:      key,
		Value:    []byte(fields[fieldValue]),
		Revision: rev,
	}, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, expectedRevision int64) (int64, error) {

	rk := s.redisKey(key)
	next := expectedRevision + 1

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {

		current, err := tx.HGet(ctx, rk, fieldRevision).Int64()
		if errors.Is(err, redis.Nil) {
			current = 0
		} else if err != nil {
			return err
		}

		if current != expectedRevision {
			return ErrStaleRevision
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, rk, fieldValue, string(value), fieldRevision, next)
			return nil
		})
		return err
	}, rk)

	if errors.Is(err, redis.TxFailedErr) {
		return 0, ErrStaleRevision
	}
	if err != nil {
		return 0, err
	}

	return next, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
