package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter keeps one token bucket per key in process memory / Un seau de jetons par clé en mémoire
type MemoryLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	idleTTL  time.Duration
	cancel   context.CancelFunc
}

// visitor is one key and its limiter / Une clé et son limiteur
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter starts a limiter and its cleanup goroutine / Démarre un limiteur et son nettoyage
func NewMemoryLimiter(ctx context.Context, rps float64, burst int) *MemoryLimiter {
	cleanupCtx, cancel := context.WithCancel(ctx)

	ml := &MemoryLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(rps),
		burst:    burst,
		idleTTL:  3 * time.Minute,
		cancel:   cancel,
	}

	go ml.cleanupLoop(cleanupCtx, 5*time.Minute)

	return ml
}

// Allow consumes one token for key / Consomme un jeton pour la clé
func (ml *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	return ml.getVisitor(key).Allow(), nil
}

// Stop ends the cleanup goroutine / Arrête le nettoyage
func (ml *MemoryLimiter) Stop() {
	ml.cancel()
}

// Len returns the number of tracked keys / Retourne le nombre de clés suivies
func (ml *MemoryLimiter) Len() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return len(ml.visitors)
}

func (ml *MemoryLimiter) getVisitor(key string) *rate.Limiter {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	v, exists := ml.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(ml.rate, ml.burst)
		ml.visitors[key] = &visitor{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (ml *MemoryLimiter) cleanupLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ml.evictIdle(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

// evictIdle drops keys not seen within idleTTL / Supprime les clés inactives
func (ml *MemoryLimiter) evictIdle(now time.Time) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	for key, v := range ml.visitors {
		if now.Sub(v.lastSeen) > ml.idleTTL {
			delete(ml.visitors, key)
		}
	}
}
