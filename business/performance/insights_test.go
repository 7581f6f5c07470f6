package performance

import (
	"context"
	"fmt"
	"myBrandStore/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInsights_ColdStart(t *testing.T) {
	svc := newTestService(newMemRepo(), nil, nil)

	got := svc.GetInsights(context.Background())

	assert.Equal(t, 0, got.TotalProducts)
	assert.Equal(t, 0, got.TotalViews)
	assert.Equal(t, 0.0, got.TotalRevenue)
	assert.Empty(t, got.TopPerformers)
	assert.Empty(t, got.Underperformers)
	assert.Equal(t, []string{coldStartRecommendation}, got.Recommendations)
}

func TestGetInsights_ColdStartOnUnreadableStore(t *testing.T) {
	repo := newMemRepo(qualified("a", 50))
	repo.loadErr = errBoom
	svc := newTestService(repo, nil, nil)

	assert.Equal(t, []string{coldStartRecommendation}, svc.GetInsights(context.Background()).Recommendations)
}

func TestGetInsights_Aggregates(t *testing.T) {
	records := []domain.ProductMetrics{}
	for i := 1; i <= 7; i++ {
		rec := qualified(fmt.Sprintf("p%d", i), i*10)
		rec.Revenue = 10
		rec.ConversionRate = 0.01 * float64(i)
		records = append(records, rec)
	}
	small := domain.ProductMetrics{ProductID: "tiny", Views: 4, ConversionRate: 0.5, PerformanceScore: 99, LastViewed: testNow}
	records = append(records, small)

	svc := newTestService(newMemRepo(records...), nil, nil)
	got := svc.GetInsights(context.Background())

	assert.Equal(t, 8, got.TotalProducts)
	assert.Equal(t, 704, got.TotalViews)
	assert.InDelta(t, 70.0, got.TotalRevenue, 1e-9)
	assert.InDelta(t, (0.28+0.5)/8, got.AverageConversionRate, 1e-9)

	require.Len(t, got.TopPerformers, 5)
	assert.Equal(t, []string{"tiny", "p7", "p6", "p5", "p4"}, productIDs(got.TopPerformers))

	// p2 sits exactly on both floors and is kept
	assert.Equal(t, []string{"p1"}, got.Underperformers)

	assert.Contains(t, got.Recommendations, "Remove 1 underperforming products")
	assert.Contains(t, got.Recommendations, "Create variations of 2 top performing products")
}

func TestGetInsights_LowAverageConversion(t *testing.T) {
	rec := qualified("p1", 50)
	rec.ConversionRate = 0.001
	rec.Views = 10

	svc := newTestService(newMemRepo(rec), nil, nil)
	got := svc.GetInsights(context.Background())

	assert.Equal(t, []string{"Average conversion rate is below 2.0%, review pricing and product imagery"}, got.Recommendations)
}

func TestGetInsights_Healthy(t *testing.T) {
	rec := qualified("p1", 50)
	rec.Views = 10

	svc := newTestService(newMemRepo(rec), nil, nil)
	got := svc.GetInsights(context.Background())

	assert.Equal(t, []string{"Catalog is performing within thresholds"}, got.Recommendations)
}

func TestGetInsights_Idempotent(t *testing.T) {
	repo := newMemRepo(qualified("a", 10), qualified("b", 60), qualified("c", 60))
	svc := newTestService(repo, nil, nil)
	ctx := context.Background()

	first := svc.GetInsights(ctx)
	second := svc.GetInsights(ctx)

	assert.Equal(t, first, second)
	assert.Equal(t, 0, repo.saves)
}

func TestProduct(t *testing.T) {
	svc := newTestService(newMemRepo(qualified("a", 10)), nil, nil)
	ctx := context.Background()

	rec, ok := svc.Product(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, 10, rec.PerformanceScore)

	_, ok = svc.Product(ctx, "missing")
	assert.False(t, ok)
}
