package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectors(t *testing.T) {
	before := testutil.ToFloat64(AccountTransitions.WithLabelValues(TransitionUpgraded))
	AccountTransitions.WithLabelValues(TransitionUpgraded).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(AccountTransitions.WithLabelValues(TransitionUpgraded)))

	LessonLinkResolutions.WithLabelValues("video", OutcomeFallback).Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ageback_account_transitions_total")
	assert.Contains(t, w.Body.String(), `ageback_lesson_link_resolutions_total{field="video",outcome="fallback"}`)
}
