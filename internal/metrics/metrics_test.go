package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDonation(t *testing.T) {
	before := testutil.ToFloat64(donations)
	beforeAmount := testutil.ToFloat64(donationAmount)

	RecordDonation(5)

	assert.Equal(t, before+1, testutil.ToFloat64(donations))
	assert.Equal(t, beforeAmount+5, testutil.ToFloat64(donationAmount))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordSignup()
	RequestStarted()
	RequestFinished("GET", "/api", "200", 0.01)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "creator_support_auth_signups_total")
	assert.Contains(t, rec.Body.String(), `creator_support_http_requests_total{method="GET",path="/api",status="200"}`)
}
