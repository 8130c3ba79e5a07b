// Package redisstore implements the repository interfaces on Redis. Each
// collection is a hash of ID to JSON record plus a list holding IDs in
// insertion order, so scans come back in the order records were created.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"ridereservation/internal/repository"
)

// insertScript writes the record only if the ID is new and appends the ID to
// the order list in the same step.
var insertScript = redis.NewScript(`
if redis.call('HSETNX', KEYS[1], ARGV[1], ARGV[2]) == 0 then
	return 0
end
redis.call('RPUSH', KEYS[2], ARGV[1])
return 1
`)

var replaceScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return 1
`)

type collection[T any] struct {
	client   *redis.Client
	hashKey  string
	orderKey string
}

func newCollection[T any](client *redis.Client, prefix, name string) *collection[T] {
	return &collection[T]{
		client:   client,
		hashKey:  prefix + ":" + name,
		orderKey: prefix + ":" + name + ":order",
	}
}

func (c *collection[T]) insert(ctx context.Context, id string, row *T) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.hashKey, id, err)
	}
	created, err := insertScript.Run(ctx, c.client, []string{c.hashKey, c.orderKey}, id, data).Int()
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", c.hashKey, id, err)
	}
	if created == 0 {
		return repository.ErrAlreadyExists
	}
	return nil
}

func (c *collection[T]) get(ctx context.Context, id string) (*T, error) {
	data, err := c.client.HGet(ctx, c.hashKey, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", c.hashKey, id, err)
	}
	var row T
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", c.hashKey, id, err)
	}
	return &row, nil
}

func (c *collection[T]) replace(ctx context.Context, id string, row *T) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.hashKey, id, err)
	}
	replaced, err := replaceScript.Run(ctx, c.client, []string{c.hashKey}, id, data).Int()
	if err != nil {
		return fmt.Errorf("replace %s/%s: %w", c.hashKey, id, err)
	}
	if replaced == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (c *collection[T]) scan(ctx context.Context) ([]*T, error) {
	ids, err := c.client.LRange(ctx, c.orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", c.orderKey, err)
	}
	if len(ids) == 0 {
		return []*T{}, nil
	}

	values, err := c.client.HMGet(ctx, c.hashKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", c.hashKey, err)
	}

	rows := make([]*T, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// ID listed without a record.
			continue
		}
		var row T
		if err := json.Unmarshal([]byte(s), &row); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", c.hashKey, ids[i], err)
		}
		rows = append(rows, &row)
	}
	return rows, nil
}
