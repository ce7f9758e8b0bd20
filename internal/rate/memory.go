package rate

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	rdb "github.com/redis/go-redis/v9"
)

// MemoryLimiter es el mismo fixed window sobre go-cache. Solo vale para una instancia.
type MemoryLimiter struct {
	c      *gocache.Cache
	mu     sync.Mutex
	Max    int64
	Window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		c:      gocache.New(window, 2*window),
		Max:    int64(max),
		Window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now().UTC()
	winStart := now.Truncate(l.Window)
	k := fmt.Sprintf("%s:%d", sanitizeKey(key), winStart.Unix())
	ttl := winStart.Add(l.Window).Sub(now)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Add falla si la clave existe: en ese caso incrementamos.
	var hits int64 = 1
	if err := l.c.Add(k, int64(1), ttl); err != nil {
		n, err := l.c.IncrementInt64(k, 1)
		if err != nil {
			return Result{}, fmt.Errorf("rate: memory: %w", err)
		}
		hits = n
	}
	return decide(hits, l.Max, ttl, l.Window), nil
}

// Config elige el backend del limiter.
type Config struct {
	Kind   string // memory | redis
	Prefix string
	Max    int
	Window time.Duration
}

// New construye el limiter según cfg.Kind. redis solo se usa si Kind == "redis".
func New(cfg Config, client rdb.Cmdable) (Limiter, error) {
	if cfg.Max <= 0 || cfg.Window <= 0 {
		return nil, fmt.Errorf("rate: invalid limit %d/%s", cfg.Max, cfg.Window)
	}
	switch cfg.Kind {
	case "", "memory":
		return NewMemoryLimiter(cfg.Max, cfg.Window), nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("rate: redis client required")
		}
		return NewRedisLimiter(client, cfg.Prefix, cfg.Max, cfg.Window), nil
	default:
		return nil, fmt.Errorf("rate: unknown kind %q", cfg.Kind)
	}
}

var (
	_ Limiter = (*RedisLimiter)(nil)
	_ Limiter = (*MemoryLimiter)(nil)
)
