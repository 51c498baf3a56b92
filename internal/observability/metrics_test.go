package observability

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveQuery_Success(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveQuery("heatmap", time.Now(), nil, nil)

	assert.Equal(t, 1, testutil.CollectAndCount(m.QueryDuration))
	assert.Equal(t, 0, testutil.CollectAndCount(m.QueryErrors))
}

func TestObserveQuery_ClassifiesErrors(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	unavailable := errors.New("store unavailable")

	m.ObserveQuery("heatmap", time.Now(), fmt.Errorf("%w: closed", unavailable), unavailable)
	m.ObserveQuery("heatmap", time.Now(), errors.New("syntax error"), unavailable)
	m.ObserveQuery("heatmap", time.Now(), errors.New("syntax error"), unavailable)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueryErrors.WithLabelValues("heatmap", ErrorKindUnavailable)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.QueryErrors.WithLabelValues("heatmap", ErrorKindQuery)))
}

func TestObserveRequest(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveRequest("GET", "/api/v1/months", "200")
	m.ObserveRequest("GET", "/api/v1/months", "200")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/v1/months", "200")))
}

func TestNilMetrics_NoPanic(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveQuery("x", time.Now(), errors.New("e"), nil)
		m.ObserveRequest("GET", "/", "200")
	})
}
