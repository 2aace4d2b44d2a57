package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpharm/medscheck-forms/internal/extraction"
	"github.com/openpharm/medscheck-forms/internal/forms"
	"github.com/openpharm/medscheck-forms/internal/http/handlers"
	"github.com/openpharm/medscheck-forms/internal/store"
	"github.com/openpharm/medscheck-forms/pkg/logging"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := logging.NewWithWriter("error", io.Discard)
	extractor := extraction.NewExtractor(nil, extraction.ExtractorConfig{}, logger, nil)
	pipeline := extraction.NewPipeline(extractor, forms.NewEngine(), nil, logger, nil)
	records := handlers.NewRecordsHandler(store.NewInMemoryRepository(), pipeline, 5*time.Second, logger)

	return New(&Config{
		Logger:         logger,
		Records:        records,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
	})
}

func TestRouterRoutes(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	cases := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodPost, "/records", "", http.StatusCreated},
		{http.MethodGet, "/records", "", http.StatusOK},
		{http.MethodGet, "/records/missing", "", http.StatusNotFound},
		{http.MethodPost, "/records/missing/extract", `{"text":"notes"}`, http.StatusNotFound},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		req, err := http.NewRequest(tc.method, srv.URL+tc.path, strings.NewReader(tc.body))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, tc.want, resp.StatusCode, "%s %s", tc.method, tc.path)
	}
}
