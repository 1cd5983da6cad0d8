package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"habitquest/core"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration
type Config struct {
	Addr         string        `json:"addr" env:"ADDR"`
	Password     string        `json:"password" env:"PASSWORD"`
	DB           int           `json:"db" env:"DB"`
	PoolSize     int           `json:"pool_size" env:"POOL_SIZE"`
	MinIdleConns int           `json:"min_idle_conns" env:"MIN_IDLE_CONNS"`
	DialTimeout  time.Duration `json:"dial_timeout" env:"DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `json:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `json:"write_timeout" env:"WRITE_TIMEOUT"`
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Store implements engine.ProfileStore using Redis. Each profile is kept as
// a single versioned JSON snapshot under profile:{id}:snapshot.
type Store struct {
	client *redis.Client
}

// snapshotVersion is bumped only for incompatible layout changes; additive
// field changes ride on JSON defaulting.
const snapshotVersion = 1

type snapshot struct {
	Version int          `json:"version"`
	Profile core.Profile `json:"profile"`
}

// New creates a Redis-backed store with the provided configuration.
func New(config Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client}, nil
}

// NewWithClient creates a Store using an existing Redis client (useful for testing)
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

func snapshotKey(id core.ProfileID) string {
	return fmt.Sprintf("profile:%s:snapshot", id)
}

func (s *Store) Load(ctx context.Context, id core.ProfileID) (core.Profile, bool, error) {
	b, err := s.client.Get(ctx, snapshotKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return core.Profile{}, false, nil
	}
	if err != nil {
		return core.Profile{}, false, fmt.Errorf("load profile %q: %w", id, err)
	}
	var snap snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		// corrupt snapshot falls back to absent; callers substitute the
		// initial profile rather than failing the process
		return core.Profile{}, false, nil
	}
	p := snap.Profile
	p.Normalize(time.Now())
	return p, true, nil
}

func (s *Store) Save(ctx context.Context, id core.ProfileID, p core.Profile) error {
	b, err := json.Marshal(snapshot{Version: snapshotVersion, Profile: p})
	if err != nil {
		return fmt.Errorf("marshal profile %q: %w", id, err)
	}
	if err := s.client.Set(ctx, snapshotKey(id), b, 0).Err(); err != nil {
		return fmt.Errorf("save profile %q: %w", id, err)
	}
	return nil
}
