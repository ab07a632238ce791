package notes

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"thinkvault/internal/board"
)

const boardCacheKey = "notes:board"

// Cache wraps a Store with a Redis copy of the full board listing, the one
// read every client issues on load and after a failed reorder. Any write
// evicts it. Redis errors fall back to the wrapped store.
//
// gen counts writes. A listing read while a write was in flight is not cached.
type Cache struct {
	base  Store
	redis *redis.Client
	ttl   time.Duration
	gen   atomic.Uint64
}

// NewCache creates a caching Store. A nil client or zero TTL disables caching.
func NewCache(base Store, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("notes.NewCache: base store is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) List(ctx context.Context, q ListQuery) ([]*Note, error) {
	if q != (ListQuery{}) {
		return c.base.List(ctx, q)
	}
	if notes, ok := c.load(ctx); ok {
		return notes, nil
	}

	gen := c.gen.Load()
	notes, err := c.base.List(ctx, q)
	if err != nil {
		return nil, err
	}
	c.store(ctx, notes, gen)
	return notes, nil
}

func (c *Cache) FindByID(ctx context.Context, id primitive.ObjectID) (*Note, error) {
	return c.base.FindByID(ctx, id)
}

func (c *Cache) Search(ctx context.Context, q SearchQuery) ([]*Note, error) {
	return c.base.Search(ctx, q)
}

func (c *Cache) Count(ctx context.Context, status board.Status) (int64, error) {
	return c.base.Count(ctx, status)
}

func (c *Cache) Insert(ctx context.Context, n *Note) error {
	return c.write(ctx, func() error { return c.base.Insert(ctx, n) })
}

func (c *Cache) Update(ctx context.Context, id primitive.ObjectID, in UpdateNoteInput) (*Note, error) {
	var n *Note
	err := c.write(ctx, func() (err error) {
		n, err = c.base.Update(ctx, id, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (c *Cache) Reorder(ctx context.Context, placements []Placement) error {
	return c.write(ctx, func() error { return c.base.Reorder(ctx, placements) })
}

func (c *Cache) Delete(ctx context.Context, id primitive.ObjectID) error {
	return c.write(ctx, func() error { return c.base.Delete(ctx, id) })
}

// write runs fn between two generation bumps and evicts afterwards, also on
// failure: an unordered bulk write may have applied part of a reorder.
func (c *Cache) write(ctx context.Context, fn func() error) error {
	c.gen.Add(1)
	defer c.evict(ctx)
	return fn()
}

func (c *Cache) load(ctx context.Context) ([]*Note, bool) {
	if c.redis == nil || c.ttl == 0 {
		return nil, false
	}
	data, err := c.redis.Get(ctx, boardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			_ = c.redis.Del(ctx, boardCacheKey).Err()
		}
		return nil, false
	}
	var notes []*Note
	if err := json.Unmarshal(data, &notes); err != nil {
		_ = c.redis.Del(ctx, boardCacheKey).Err()
		return nil, false
	}
	return notes, true
}

// store caches a listing read at generation gen. A write that started since
// then, or that finishes while the SET is in flight, keeps it out.
func (c *Cache) store(ctx context.Context, notes []*Note, gen uint64) {
	if c.redis == nil || c.ttl == 0 || c.gen.Load() != gen {
		return
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, boardCacheKey, data, c.ttl).Err()
	if c.gen.Load() != gen {
		_ = c.redis.Del(ctx, boardCacheKey).Err()
	}
}

func (c *Cache) evict(ctx context.Context) {
	c.gen.Add(1)
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, boardCacheKey).Err()
}

var _ Store = (*Cache)(nil)
var _ Store = (*Repo)(nil)
