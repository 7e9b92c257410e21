package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthUp)
	assert.NotNil(t, SearchDuration)
	assert.NotNil(t, SearchesTotal)
	assert.NotNil(t, ItemsMatchedTotal)
	assert.NotNil(t, SellersEvaluated)
	assert.NotNil(t, OffersLoaded)
	assert.NotNil(t, StoreErrorsTotal)
	assert.NotNil(t, CacheHitsTotal)
	assert.NotNil(t, CacheMissesTotal)
}

func TestSearchesTotalByOutcome(t *testing.T) {
	t.Parallel()

	before := testutil.ToFloat64(SearchesTotal.WithLabelValues(OutcomeNotFound))
	SearchesTotal.WithLabelValues(OutcomeNotFound).Inc()
	after := testutil.ToFloat64(SearchesTotal.WithLabelValues(OutcomeNotFound))

	assert.InDelta(t, before+1, after, 1e-9)
}
