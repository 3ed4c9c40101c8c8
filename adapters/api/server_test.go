package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lottolab/internal/fairness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	return NewServer(Config{Addr: ":0", RateLimitRPS: 1000, RateBurst: 1000})
}

func post(t *testing.T, h http.Handler, path string, v interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func flatFrequency(each int) []int {
	freq := make([]int, fairness.Categories)
	for i := range freq {
		freq[i] = each
	}
	return freq
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestUniformityEndpoint(t *testing.T) {
	h := newTestServer().Handler()

	w := post(t, h, "/v1/uniformity", UniformityRequest{Frequency: flatFrequency(10), Total: 450})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res fairness.UniformityResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 0.0, res.Statistic)
	assert.Equal(t, 44, res.DegreesOfFreedom)
	assert.InDelta(t, 1.0, res.PValue, 1e-9)

	w = post(t, h, "/v1/uniformity", UniformityRequest{Frequency: flatFrequency(0), Total: 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = post(t, h, "/v1/uniformity", UniformityRequest{Frequency: []int{1, 2}, Total: 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPairsEndpoint(t *testing.T) {
	h := newTestServer().Handler()
	co := make([][]int, fairness.Categories)
	for i := range co {
		co[i] = make([]int, fairness.Categories)
	}
	co[0][1], co[1][0] = 9, 9

	q := 0.05
	w := post(t, h, "/v1/pairs", PairsRequest{Cooccurrence: co, Frequency: flatFrequency(12), Draws: 90, Q: &q})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp PairsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Pairs, fairness.Pairs)
	assert.Equal(t, 1, resp.Pairs[0].A)
	assert.Equal(t, 2, resp.Pairs[0].B)
	assert.Equal(t, 9, resp.Pairs[0].Observed)

	w = post(t, h, "/v1/pairs", PairsRequest{Cooccurrence: co, Frequency: flatFrequency(12), Draws: 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = post(t, h, "/v1/pairs", PairsRequest{Cooccurrence: co, Frequency: flatFrequency(0), Draws: 90})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "no observed numbers")

	w = post(t, h, "/v1/pairs", map[string]interface{}{
		"cooccurrence": co, "frequency": flatFrequency(12), "draws": 90, "q": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "explicit q=0 is rejected, not treated as absent")

	w = post(t, h, "/v1/pairs", PairsRequest{Cooccurrence: co, Frequency: flatFrequency(12), Draws: 90})
	require.Equal(t, http.StatusOK, w.Code)
	resp = PairsResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Pairs, fairness.Pairs)
	assert.Empty(t, resp.Significant)
}

func TestFDREndpoint(t *testing.T) {
	h := newTestServer().Handler()

	w := post(t, h, "/v1/fdr", FDRRequest{PValues: []float64{0.01, 0.03, 0.02, 0.5}, Q: 0.05})
	require.Equal(t, http.StatusOK, w.Code)
	var decisions []fairness.FDRDecision
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decisions))
	require.Len(t, decisions, 4)
	assert.True(t, decisions[0].Significant)
	assert.True(t, decisions[1].Significant)
	assert.True(t, decisions[2].Significant)
	assert.False(t, decisions[3].Significant)

	w = post(t, h, "/v1/fdr", FDRRequest{PValues: []float64{0.01}, Q: 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectsUnknownFieldsAndWrongContentType(t *testing.T) {
	h := newTestServer().Handler()

	w := post(t, h, "/v1/fdr", map[string]interface{}{"pvalues": []float64{0.1}, "q": 0.05})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/fdr", bytes.NewReader([]byte(`{"p_values":[0.1],"q":0.05}`)))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRateLimit(t *testing.T) {
	h := NewServer(Config{RateLimitRPS: 0.001, RateBurst: 1}).Handler()

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
