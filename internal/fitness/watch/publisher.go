package watch

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/2beens/fittrack/internal/telemetry/metrics"
)

// ChangesChannel carries the name of the collection that changed.
const ChangesChannel = "fittrack:snapshot:changed"

type Publisher struct {
	redisClient    *redis.Client
	metricsManager *metrics.Manager
}

func NewPublisher(redisClient *redis.Client, metricsManager *metrics.Manager) *Publisher {
	return &Publisher{
		redisClient:    redisClient,
		metricsManager: metricsManager,
	}
}

func (p *Publisher) NotifyChanged(ctx context.Context, collection string) error {
	if err := p.redisClient.Publish(ctx, ChangesChannel, collection).Err(); err != nil {
		return fmt.Errorf("publish %s change: %w", collection, err)
	}
	p.metricsManager.CounterSnapshotChanges.WithLabelValues("published").Inc()
	return nil
}
