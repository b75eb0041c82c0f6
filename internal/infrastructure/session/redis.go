package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
)

var _ api.Session = (*RedisStore)(nil)

// RedisStore sesión compartida en Redis (varias terminales de la tienda con el mismo login).
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore conecta y verifica con PING. ttl 0 = sin expiración.
func NewRedisStore(ctx context.Context, addr, key string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session: conectar a Redis %s: %w", addr, err)
	}
	return NewRedisStoreFromClient(client, key, ttl), nil
}

// NewRedisStoreFromClient usa un cliente ya configurado.
func NewRedisStoreFromClient(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{client: client, key: key, ttl: ttl}
}

func (s *RedisStore) Token(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: leer token: %w", err)
	}
	return val, nil
}

func (s *RedisStore) Save(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: guardar token: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("session: borrar token: %w", err)
	}
	return nil
}

// Close libera la conexión.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
