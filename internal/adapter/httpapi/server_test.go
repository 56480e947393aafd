package httpapi_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/nri-explorer/internal/adapter/httpapi"
	"github.com/couchcryptid/nri-explorer/internal/dataset"
	"github.com/couchcryptid/nri-explorer/internal/domain"
	"github.com/couchcryptid/nri-explorer/internal/export"
	"github.com/couchcryptid/nri-explorer/internal/observability"
)

func testRecords() []domain.CountyRecord {
	records := []domain.CountyRecord{
		{State: "Texas", County: "Travis", FIPS: "48453", RiskScore: 40.2, Population: 1290188, SoviScore: 42, ReslScore: 55, EAL: 2.1e8},
		{State: "Texas", County: "Harris", FIPS: "48201", RiskScore: 84.9, Population: 4731145, SoviScore: 61, ReslScore: 52, EAL: 9.9e8},
		{State: "Oklahoma", County: "Tulsa", FIPS: "40143", RiskScore: 55.1, Population: 669279, SoviScore: 48, ReslScore: 49, EAL: 1.4e8},
		{State: "Oregon", County: "Lane", FIPS: "41039", RiskScore: 33.7, Population: 382971, SoviScore: 35, ReslScore: 58, EAL: 0.6e8},
		{State: "Vermont", County: "Orange", FIPS: "50017", RiskScore: 8.4, Population: 29277, SoviScore: 19, ReslScore: 61, EAL: 0.02e8},
		{State: "Ohio", County: "Franklin", FIPS: "39049", RiskScore: 47.0, Population: 1323807, SoviScore: 44, ReslScore: 54, EAL: 1.8e8},
	}
	domain.DeriveRegions(records)
	return records
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(loaded bool) *httpapi.Server {
	store := dataset.NewStore()
	if loaded {
		store.SetRecords(testRecords(), dataset.SourceNetwork)
	}
	return httpapi.NewServer(":0", store, "filtered_data.csv", discardLogger(), observability.NewMetricsForTesting())
}

func doRequest(t *testing.T, srv *httpapi.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealthzReturns200(t *testing.T) {
	rec := doRequest(t, newTestServer(false), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzBeforeAndAfterLoad(t *testing.T) {
	t.Run("not ready before load", func(t *testing.T) {
		rec := doRequest(t, newTestServer(false), "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]string
		decode(t, rec, &body)
		assert.Equal(t, "not ready", body["status"])
		assert.Contains(t, body["error"], "not loaded")
	})

	t.Run("ready after load", func(t *testing.T) {
		rec := doRequest(t, newTestServer(true), "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAPIReturns503BeforeLoad(t *testing.T) {
	srv := newTestServer(false)
	for _, path := range []string{
		"/api/v1/options", "/api/v1/counties", "/api/v1/choropleth",
		"/api/v1/summary", "/api/v1/scatter", "/api/v1/regression",
		"/api/v1/clusters", "/api/v1/export",
	} {
		rec := doRequest(t, srv, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)

		var body map[string]string
		decode(t, rec, &body)
		assert.Contains(t, body["error"], "dataset unavailable", path)
	}
}

func TestOptionsCascade(t *testing.T) {
	srv := newTestServer(true)

	rec := doRequest(t, srv, "/api/v1/options?region=South")
	require.Equal(t, http.StatusOK, rec.Code)

	var opts domain.FilterOptions
	decode(t, rec, &opts)
	assert.Equal(t, []string{"Oklahoma", "Texas"}, opts.States)
	assert.Equal(t, []string{"Harris", "Travis", "Tulsa"}, opts.Counties)
	assert.Contains(t, opts.Regions, "West")
}

func TestCountiesFilterSubset(t *testing.T) {
	srv := newTestServer(true)

	rec := doRequest(t, srv, "/api/v1/counties?region=South&state=Texas")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var body struct {
		Rows    int                   `json:"rows"`
		Records []domain.CountyRecord `json:"records"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 2, body.Rows)
	for _, r := range body.Records {
		assert.Equal(t, "Texas", r.State)
		assert.Equal(t, "South", r.Region)
	}
}

func TestChoropleth(t *testing.T) {
	rec := doRequest(t, newTestServer(true), "/api/v1/choropleth?state=Vermont")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Points []domain.ChoroplethPoint `json:"points"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Points, 1)
	assert.Equal(t, "50017", body.Points[0].FIPS)
	assert.InDelta(t, 8.4, body.Points[0].RiskScore, 1e-9)
}

func TestSummaryGroups(t *testing.T) {
	srv := newTestServer(true)

	t.Run("by state descending", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/summary?region=South")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			GroupBy string             `json:"group_by"`
			Groups  []domain.GroupStat `json:"groups"`
		}
		decode(t, rec, &body)
		assert.Equal(t, "state", body.GroupBy)
		require.Len(t, body.Groups, 2)
		assert.Equal(t, "Texas", body.Groups[0].Group)
		assert.InDelta(t, (40.2+84.9)/2, body.Groups[0].MeanRisk, 1e-9)
	})

	t.Run("bad group_by", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/summary?group_by=planet")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestScatterOutlierToggle(t *testing.T) {
	srv := newTestServer(true)

	rec := doRequest(t, srv, "/api/v1/scatter")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Points   []domain.ScatterPoint `json:"points"`
		Excluded int                   `json:"excluded"`
	}
	decode(t, rec, &body)
	assert.Len(t, body.Points, 6)
	assert.Zero(t, body.Excluded)
}

func TestRegression(t *testing.T) {
	srv := newTestServer(true)

	t.Run("population predictor", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/regression?x=population")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Predictor string  `json:"predictor"`
			N         int     `json:"n"`
			RSquared  float64 `json:"r_squared"`
		}
		decode(t, rec, &body)
		assert.Equal(t, "population", body.Predictor)
		assert.Equal(t, 6, body.N)
	})

	t.Run("bad predictor", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/regression?x=altitude")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too few rows", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/regression?county=Travis")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestClusters(t *testing.T) {
	srv := newTestServer(true)

	t.Run("k=2", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/clusters?k=2")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			K        int `json:"k"`
			Clusters []struct {
				Size int      `json:"size"`
				FIPS []string `json:"fips"`
			} `json:"clusters"`
		}
		decode(t, rec, &body)
		assert.Equal(t, 2, body.K)
		total := 0
		for _, c := range body.Clusters {
			total += c.Size
		}
		assert.Equal(t, 6, total)
	})

	t.Run("invalid k", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/clusters?k=abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("k larger than rows", func(t *testing.T) {
		rec := doRequest(t, srv, "/api/v1/clusters?k=9")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestExportRoundTrip(t *testing.T) {
	srv := newTestServer(true)

	rec := doRequest(t, srv, "/api/v1/export?region=South")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="filtered_data.csv"`)

	parsed, err := export.ReadCSV(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)

	want := domain.Filter{Regions: []string{"South"}}.Apply(testRecords())
	if diff := cmp.Diff(want, parsed); diff != "" {
		t.Fatalf("export round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doRequest(t, newTestServer(false), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
