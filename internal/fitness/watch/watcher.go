package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fittrack/internal/telemetry/metrics"
)

var ErrChannelClosed = errors.New("change notification channel closed")

type refresher interface {
	Refresh(ctx context.Context, now time.Time) error
}

// Watcher recomputes the dashboard whenever a collection change is announced.
// Notifications arriving while a recompute is pending are coalesced into it.
type Watcher struct {
	redisClient    *redis.Client
	target         refresher
	metricsManager *metrics.Manager
}

func NewWatcher(redisClient *redis.Client, target refresher, metricsManager *metrics.Manager) *Watcher {
	return &Watcher{
		redisClient:    redisClient,
		target:         target,
		metricsManager: metricsManager,
	}
}

// Run blocks until ctx is done or the subscription breaks.
func (w *Watcher) Run(ctx context.Context) error {
	pubsub := w.redisClient.Subscribe(ctx, ChangesChannel)
	defer func() {
		if err := pubsub.Close(); err != nil {
			log.Errorf("watcher: close subscription: %s", err)
		}
	}()

	// wait for the subscription confirmation so no change published after Run returns is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", ChangesChannel, err)
	}
	log.Debugf("watcher: subscribed to %s", ChangesChannel)

	return w.run(ctx, pubsub.Channel())
}

func (w *Watcher) run(ctx context.Context, messages <-chan *redis.Message) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return ErrChannelClosed
			}

			collections := []string{msg.Payload}
			collections, closed := drain(messages, collections)
			w.metricsManager.CounterSnapshotChanges.WithLabelValues("received").Add(float64(len(collections)))

			if err := w.target.Refresh(ctx, time.Now()); err != nil {
				log.Errorf("watcher: refresh after %v changed: %s", collections, err)
			} else {
				log.Debugf("watcher: refreshed after %v changed", collections)
			}

			if closed {
				return ErrChannelClosed
			}
		}
	}
}

func drain(messages <-chan *redis.Message, collections []string) ([]string, bool) {
	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return collections, true
			}
			collections = append(collections, msg.Payload)
		default:
			return collections, false
		}
	}
}
