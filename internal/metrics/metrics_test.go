package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveProvider(t *testing.T) {
	before := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("etherscan", "unavailable"))
	ObserveProvider("etherscan", false, 0.2)
	after := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("etherscan", "unavailable"))
	assert.Equal(t, before+1, after)
}

func TestObservePublish(t *testing.T) {
	before := testutil.ToFloat64(PublishedReportsTotal.WithLabelValues("kafka", "error"))
	ObservePublish("kafka", errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(PublishedReportsTotal.WithLabelValues("kafka", "error")))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200")))
}
