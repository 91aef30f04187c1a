package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the snapshot served by /health: the ledger store plus the
// two Redis roles the engine depends on (cache, and the queue backing the
// reconciliation sweep).
type HealthStatus struct {
	Ledger     bool      `json:"ledger"`
	CacheRedis bool      `json:"cacheRedis"`
	QueueRedis bool      `json:"queueRedis"`
	CheckedAt  time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor pings each dependency once a minute and keeps the
// snapshot in memory. A failed ping marks the component down until the next
// tick; the handler never pings on the request path.
func StartHealthMonitor(mongoClient *mongo.Client, cacheClient, queueClient *redis.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()

		for range ticker.C {
			snapshot := HealthStatus{
				Ledger:     mongoClient.Ping(ctx, nil) == nil,
				CacheRedis: cacheClient.Ping(ctx).Err() == nil,
				QueueRedis: queueClient.Ping(ctx).Err() == nil,
				CheckedAt:  time.Now(),
			}

			healthMu.Lock()
			currentHealth = snapshot
			healthMu.Unlock()
		}
	}()
}
