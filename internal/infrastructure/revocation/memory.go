package revocation

import (
	"context"
	"sync"
	"time"

	"bootcamp-directory/internal/logger"

	"go.uber.org/zap"
)

// MemoryRegistry is the single-process fallback used when redis is not
// configured. Entries are dropped by StartCleanupJob once they expire.
type MemoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (r *MemoryRegistry) Revoke(_ context.Context, token string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key(token)] = r.now().Add(ttl)
	return nil
}

func (r *MemoryRegistry) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	until, ok := r.entries[key(token)]
	return ok && r.now().Before(until), nil
}

// StartCleanupJob purges expired entries every interval until ctx is done.
func (r *MemoryRegistry) StartCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Revocation cleanup job started",
		zap.Duration("interval", interval),
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Revocation cleanup job stopped")
			return
		case <-ticker.C:
			r.cleanup()
		}
	}
}

func (r *MemoryRegistry) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for k, until := range r.entries {
		if !now.Before(until) {
			delete(r.entries, k)
			removed++
		}
	}

	logger.Debug("Expired revocations cleaned up",
		zap.Int("removed", removed),
		zap.Int("remaining", len(r.entries)),
	)
}
