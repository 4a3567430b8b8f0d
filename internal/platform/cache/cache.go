package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// NewClient connects to Redis and pings it.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// Namespace is a JSON cache whose entries are dropped together by bumping a
// generation counter, so invalidation never has to scan keys.
type Namespace struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewNamespace creates a namespace under prefix with the given entry TTL.
func NewNamespace(client redis.Cmdable, prefix string, ttl time.Duration) *Namespace {
	return &Namespace{client: client, prefix: prefix, ttl: ttl}
}

func (n *Namespace) generationKey() string {
	return n.prefix + ":generation"
}

// Generation returns the current generation. Callers read it once before
// loading the data they intend to cache and pass it to Get and Set, so a page
// read across an Invalidate is filed under the generation it belongs to.
func (n *Namespace) Generation(ctx context.Context) (string, error) {
	gen, err := n.client.Get(ctx, n.generationKey()).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

// EntryKey returns the redis key for parts under the given generation.
func (n *Namespace) EntryKey(generation string, parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, "\x00")))
	return fmt.Sprintf("%s:g%s:%s", n.prefix, generation, hex.EncodeToString(sum[:]))
}

// Get loads the entry identified by parts in generation into dest. The
// boolean is false on a miss.
func (n *Namespace) Get(ctx context.Context, generation string, dest interface{}, parts ...string) (bool, error) {
	raw, err := n.client.Get(ctx, n.EntryKey(generation, parts...)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return true, nil
}

// Set stores value under parts in generation. Writing to a generation that
// has since been invalidated is harmless: nobody reads it again.
func (n *Namespace) Set(ctx context.Context, generation string, value interface{}, parts ...string) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return n.client.Set(ctx, n.EntryKey(generation, parts...), raw, n.ttl).Err()
}

// Invalidate starts a new generation; older entries expire on their own.
func (n *Namespace) Invalidate(ctx context.Context) error {
	return n.client.Incr(ctx, n.generationKey()).Err()
}
