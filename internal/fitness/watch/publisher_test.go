package watch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/2beens/fittrack/internal/fitness/watch"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
)

func TestMain(m *testing.M) {
	// redismock keeps an internal, unclosable redis client whose pool reaper outlives the tests
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper"))
}

func TestPublisher_NotifyChanged(t *testing.T) {
	db, mock := redismock.NewClientMock()
	metricsManager := metrics.NewTestManager()
	publisher := watch.NewPublisher(db, metricsManager)

	mock.ExpectPublish(watch.ChangesChannel, "workouts").SetVal(1)
	require.NoError(t, publisher.NotifyChanged(context.Background(), "workouts"))

	mock.ExpectPublish(watch.ChangesChannel, "goals").SetErr(errors.New("connection refused"))
	err := publisher.NotifyChanged(context.Background(), "goals")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish goals change")

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterSnapshotChanges.WithLabelValues("published")))
}
