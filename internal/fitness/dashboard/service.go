package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"
)

var ErrGoalNotFound = errors.New("goal not found")

// SnapshotLoader reads both collections at once.
type SnapshotLoader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Service serves dashboards and trends computed from the latest snapshot.
// Results are memoized per snapshot hash and calendar day until Invalidate is called.
type Service struct {
	loader         SnapshotLoader
	engine         *analytics.Engine
	trendCfg       analytics.TrendConfig
	cache          *freecache.Cache
	metricsManager *metrics.Manager

	mu           sync.Mutex
	snapshot     *Snapshot
	snapshotHash string
}

func NewService(
	loader SnapshotLoader,
	engine *analytics.Engine,
	trendCfg analytics.TrendConfig,
	cacheSizeMB int,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		loader:         loader,
		engine:         engine,
		trendCfg:       trendCfg,
		cache:          freecache.NewCache(cacheSizeMB * 1024 * 1024),
		metricsManager: metricsManager,
	}
}

func (s *Service) Dashboard(ctx context.Context, now time.Time) (_ *Dashboard, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.dashboard.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	snapshot, hash, err := s.currentSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	key := cacheKey(hash, "dashboard", analytics.Day(now).Format(pkg.DateLayout))
	var cached Dashboard
	if s.lookup(key, &cached) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		s.metricsManager.CounterDashboardCacheHits.Inc()
		return &cached, nil
	}

	start := time.Now()
	d := Build(*snapshot, now, s.engine, s.trendCfg)
	s.metricsManager.HistDashboardComputeDuration.Observe(time.Since(start).Seconds())
	s.metricsManager.CounterDashboardsComputed.Inc()
	s.metricsManager.CounterGoalConfigErrors.Add(float64(len(d.GoalErrors)))

	s.store(key, d)
	return d, nil
}

func (s *Service) GoalProgress(ctx context.Context, goalID string, now time.Time) (_ *analytics.GoalProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.dashboard.goalprogress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("goal.id", goalID))

	snapshot, _, err := s.currentSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	goal, ok := snapshot.goal(goalID)
	if !ok {
		return nil, ErrGoalNotFound
	}

	progress, err := goalProgress(s.engine, goal, upTo(snapshot.Workouts, now), now)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidGoalConfig) || errors.Is(err, analytics.ErrUnknownGoalType) {
			s.metricsManager.CounterGoalConfigErrors.Inc()
		}
		return nil, fmt.Errorf("goal %s: %w", goalID, err)
	}
	return progress, nil
}

func (s *Service) Trend(ctx context.Context, metric Metric, exerciseID string, now time.Time) (_ *analytics.TrendStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.dashboard.trend")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("trend.metric", string(metric)))

	snapshot, hash, err := s.currentSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	key := cacheKey(hash, "trend", string(metric), exerciseID, analytics.Day(now).Format(pkg.DateLayout))
	var cached analytics.TrendStats
	if s.lookup(key, &cached) {
		return &cached, nil
	}

	series, err := Series(metric, snapshot.Workouts, exerciseID, now)
	if err != nil {
		return nil, err
	}
	stats := analytics.Analyze(series, s.trendCfg)

	s.store(key, stats)
	return &stats, nil
}

// Invalidate drops the loaded snapshot together with every memoized result.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	s.snapshotHash = ""
	s.cache.Clear()
}

// Refresh reloads the snapshot and recomputes the dashboard for now.
func (s *Service) Refresh(ctx context.Context, now time.Time) error {
	s.Invalidate()
	if _, err := s.Dashboard(ctx, now); err != nil {
		return fmt.Errorf("refresh dashboard: %w", err)
	}
	return nil
}

func (s *Service) currentSnapshot(ctx context.Context) (*Snapshot, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot != nil {
		return s.snapshot, s.snapshotHash, nil
	}

	snapshot, err := s.loader.Load(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("load snapshot: %w", err)
	}
	hash, err := snapshot.Hash()
	if err != nil {
		return nil, "", err
	}

	s.snapshot = snapshot
	s.snapshotHash = hash
	return snapshot, hash, nil
}

func (s *Service) lookup(key []byte, dst any) bool {
	b, err := s.cache.Get(key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		log.Warnf("dashboard cache: drop corrupt entry %s: %s", key, err)
		s.cache.Del(key)
		return false
	}
	return true
}

func (s *Service) store(key []byte, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Errorf("dashboard cache: marshal %s: %s", key, err)
		return
	}
	if err := s.cache.Set(key, b, 0); err != nil {
		log.Warnf("dashboard cache: store %s: %s", key, err)
	}
}

func cacheKey(parts ...string) []byte {
	var key []byte
	for i, p := range parts {
		if i > 0 {
			key = append(key, ':')
		}
		key = append(key, p...)
	}
	return key
}
