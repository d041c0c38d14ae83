package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/2beens/fittrack/internal/telemetry/metrics"
)

func TestPanicRecovery_NoPanic(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	next := &panicRecTestHandler{}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats/dashboard", nil)
	PanicRecovery(metricsManager)(next).ServeHTTP(rr, req)

	assert.True(t, next.called)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(0), testutil.ToFloat64(metricsManager.CounterHandleRequestPanic))
}

func TestPanicRecovery_Panic(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	next := &panicRecTestHandler{panic: true}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats/dashboard", nil)
	PanicRecovery(metricsManager)(next).ServeHTTP(rr, req)

	assert.True(t, next.called)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterHandleRequestPanic))
}

func TestPanicRecovery_NilMetrics(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.NotPanics(t, func() {
		PanicRecovery(nil)(&panicRecTestHandler{panic: true}).ServeHTTP(rr, req)
	})
}

type panicRecTestHandler struct {
	panic  bool
	called bool
}

func (p *panicRecTestHandler) ServeHTTP(http.ResponseWriter, *http.Request) {
	p.called = true
	if p.panic {
		panic("YOLO")
	}
}
