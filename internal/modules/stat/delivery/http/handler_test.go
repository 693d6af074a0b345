package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/weddingsalon/internal/modules/dress/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStats struct {
	stats *dto.DressStatistics
	err   error
}

func (s *stubStats) GetDressStatistics(ctx context.Context) (*dto.DressStatistics, error) {
	return s.stats, s.err
}

func (s *stubStats) Invalidate(ctx context.Context) {}

func serve(t *testing.T, stub *stubStats) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/histogram", NewStatHandler(stub).GetDressStatistics)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/histogram", nil))
	return w
}

func TestGetDressStatistics(t *testing.T) {
	w := serve(t, &stubStats{stats: &dto.DressStatistics{
		CountByDate:      []dto.DateCount{{Date: "2024-05-01", Count: 2}},
		AveragePrice:     150,
		MostPopularMonth: "MAY",
		Total:            2,
	}})

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "MAY", body["most_popular_month"])
	assert.Equal(t, 150.0, body["average_price"])
	assert.Len(t, body["count_by_date"], 1)
}

func TestGetDressStatistics_Error(t *testing.T) {
	w := serve(t, &stubStats{err: errors.New("connection reset")})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}
