package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, SearchRequestsTotal)
	assert.NotNil(t, SearchDuration)
	assert.NotNil(t, SourceFetchErrorsTotal)
	assert.NotNil(t, SourceItemsTotal)
	assert.NotNil(t, CacheHitsTotal)
	assert.NotNil(t, CacheMissesTotal)
	assert.NotNil(t, AlertItemsTotal)
	assert.NotNil(t, AlertPassDuration)
	assert.NotNil(t, AlertUserErrorsTotal)
	assert.NotNil(t, NotificationFailuresTotal)
	assert.NotNil(t, NotificationDuration)
	assert.NotNil(t, SchedulerNextAlertPassTimestamp)
	assert.NotNil(t, SchedulerSkippedTicksTotal)
}
