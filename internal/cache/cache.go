package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math"
	"time"

	"github.com/osuushi/convexify/advanced"
	"github.com/osuushi/convexify/internal/polyio"
	"github.com/pkg/errors"
	backend "github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when nothing is cached under the key.
var ErrMiss = errors.New("cache miss")

// Cache stores decomposition results in Redis, keyed by the input.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Cache)

// WithTTL sets the expiration for cached results.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a new Redis cache with options.
func New(address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	c := &Cache{
		client: client,
		prefix: "convexify:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Key identifies a decomposition request: the exact coordinates, in order,
// and the mode.
func Key(points []*advanced.Point, bestEffort bool) string {
	h := sha256.New()
	var buf [8]byte
	for _, p := range points {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p.X))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p.Y))
		h.Write(buf[:])
	}
	if bestEffort {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) key(key string) string {
	return c.prefix + "result:" + key
}

// Get loads a cached result.
func (c *Cache) Get(ctx context.Context, key string) (*polyio.Document, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, ErrMiss
		}
		return nil, errors.Wrap(err, "loading from redis")
	}

	var doc polyio.Document
	if err := json.Unmarshal(val, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding cached result")
	}
	return &doc, nil
}

// Set stores a result.
func (c *Cache) Set(ctx context.Context, key string, doc *polyio.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encoding result")
	}
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "saving to redis")
	}
	return nil
}

// Ping checks the connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
