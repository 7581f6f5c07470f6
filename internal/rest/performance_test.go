package rest

import (
	"context"
	"myBrandStore/business/performance"
	"myBrandStore/domain"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePerformanceService struct {
	recorded  []string
	lastPrice float64
	lastID    string
	err       error

	insights domain.Insights
	records  map[string]domain.ProductMetrics
	th       domain.PerformanceThresholds
	gotTh    domain.PerformanceThresholds
	optimize domain.OptimizeResult
}

func (f *fakePerformanceService) record(kind, id string) error {
	f.recorded = append(f.recorded, kind)
	f.lastID = id
	return f.err
}

func (f *fakePerformanceService) RecordView(ctx context.Context, id string) error {
	return f.record("view", id)
}

func (f *fakePerformanceService) RecordClick(ctx context.Context, id string) error {
	return f.record("click", id)
}

func (f *fakePerformanceService) RecordAddToCart(ctx context.Context, id string, price float64) error {
	f.lastPrice = price
	return f.record("cart", id)
}

func (f *fakePerformanceService) RecordPurchase(ctx context.Context, id string, revenue float64) error {
	f.lastPrice = revenue
	return f.record("purchase", id)
}

func (f *fakePerformanceService) Product(ctx context.Context, id string) (domain.ProductMetrics, bool) {
	rec, ok := f.records[id]
	return rec, ok
}

func (f *fakePerformanceService) GetInsights(ctx context.Context) domain.Insights {
	return f.insights
}

func (f *fakePerformanceService) Thresholds() domain.PerformanceThresholds {
	return f.th
}

func (f *fakePerformanceService) Underperformers(ctx context.Context, th domain.PerformanceThresholds) []string {
	f.gotTh = th
	return []string{"p2"}
}

func (f *fakePerformanceService) TopPerformers(ctx context.Context, th domain.PerformanceThresholds) []domain.ProductMetrics {
	f.gotTh = th
	return []domain.ProductMetrics{{ProductID: "p9", PerformanceScore: 97}}
}

func (f *fakePerformanceService) AutoOptimize(ctx context.Context) domain.OptimizeResult {
	return f.optimize
}

func newTestServer(svc *fakePerformanceService) *echo.Echo {
	e := echo.New()
	h := NewPerformanceHandler(svc, time.Second, time.Second)

	api := e.Group("/api/v1")
	api.POST("/products/:id/views", h.RecordView)
	api.POST("/products/:id/clicks", h.RecordClick)
	api.POST("/products/:id/cart", h.RecordAddToCart)
	api.POST("/products/:id/purchases", h.RecordPurchase)
	api.GET("/analytics/insights", h.GetInsights)
	api.GET("/analytics/products/:id", h.GetProductMetrics)
	api.GET("/analytics/underperformers", h.GetUnderperformers)
	api.GET("/analytics/top-performers", h.GetTopPerformers)
	api.POST("/admin/optimize", h.AutoOptimize)

	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func defaultTestThresholds() domain.PerformanceThresholds {
	return domain.PerformanceThresholds{MinViews: 50, MinConversionRate: 0.02, StaleDays: 30, TopPerformerPercentile: 0.2}
}

func TestPerformanceHandler_RecordEvents(t *testing.T) {
	svc := &fakePerformanceService{}
	e := newTestServer(svc)

	assert.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/api/v1/products/p1/views", "").Code)
	assert.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/api/v1/products/p1/clicks", "").Code)

	rec := do(e, http.MethodPost, "/api/v1/products/p1/cart", `{"price": 19.5}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 19.5, svc.lastPrice)

	rec = do(e, http.MethodPost, "/api/v1/products/p1/purchases", `{"revenue": 42}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 42.0, svc.lastPrice)

	assert.Equal(t, []string{"view", "click", "cart", "purchase"}, svc.recorded)
	assert.Equal(t, "p1", svc.lastID)
}

func TestPerformanceHandler_RejectsNegativeAmounts(t *testing.T) {
	svc := &fakePerformanceService{}
	e := newTestServer(svc)

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/api/v1/products/p1/cart", `{"price": -1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/api/v1/products/p1/purchases", `{"revenue": "lots"}`).Code)
	assert.Empty(t, svc.recorded)
}

func TestPerformanceHandler_MapsServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid id", performance.ErrInvalidProductID, http.StatusBadRequest},
		{"invalid amount", performance.ErrInvalidAmount, http.StatusBadRequest},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"other", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(&fakePerformanceService{err: tt.err})
			assert.Equal(t, tt.want, do(e, http.MethodPost, "/api/v1/products/p1/views", "").Code)
		})
	}
}

func TestPerformanceHandler_GetInsights(t *testing.T) {
	svc := &fakePerformanceService{insights: domain.Insights{
		TotalProducts:   3,
		Recommendations: []string{"Remove 1 underperforming products"},
	}}

	rec := do(newTestServer(svc), http.MethodGet, "/api/v1/analytics/insights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_products":3`)
	assert.Contains(t, rec.Body.String(), "Remove 1 underperforming products")
}

func TestPerformanceHandler_GetProductMetrics(t *testing.T) {
	svc := &fakePerformanceService{records: map[string]domain.ProductMetrics{
		"p1": {ProductID: "p1", Views: 12},
	}}
	e := newTestServer(svc)

	rec := do(e, http.MethodGet, "/api/v1/analytics/products/p1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"views":12`)

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/api/v1/analytics/products/nope", "").Code)
}

func TestPerformanceHandler_ThresholdOverrides(t *testing.T) {
	svc := &fakePerformanceService{th: defaultTestThresholds()}
	e := newTestServer(svc)

	rec := do(e, http.MethodGet, "/api/v1/analytics/underperformers?min_views=10&stale_days=7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "p2")

	want := defaultTestThresholds()
	want.MinViews = 10
	want.StaleDays = 7
	assert.Equal(t, want, svc.gotTh)

	rec = do(e, http.MethodGet, "/api/v1/analytics/top-performers?top_performer_percentile=0.5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "p9")
	assert.Equal(t, 0.5, svc.gotTh.TopPerformerPercentile)
	assert.Equal(t, 50, svc.gotTh.MinViews)
}

func TestPerformanceHandler_InvalidThresholds(t *testing.T) {
	e := newTestServer(&fakePerformanceService{th: defaultTestThresholds()})

	for _, q := range []string{
		"min_views=-1",
		"min_views=abc",
		"min_conversion_rate=1.5",
		"top_performer_percentile=2",
	} {
		rec := do(e, http.MethodGet, "/api/v1/analytics/top-performers?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestPerformanceHandler_AutoOptimize(t *testing.T) {
	svc := &fakePerformanceService{optimize: domain.OptimizeResult{
		RunID:        "run-1",
		RemovedCount: 1,
		CreatedCount: 3,
		Message:      "Removed 1 underperforming products and created 3 new variations",
	}}

	rec := do(newTestServer(svc), http.MethodPost, "/api/v1/admin/optimize", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"removed":1`)
	assert.Contains(t, rec.Body.String(), `"created":3`)
}
