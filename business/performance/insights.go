package performance

import (
	"context"
	"fmt"
	"myBrandStore/domain"
)

const coldStartRecommendation = "Start tracking product views to gather performance data"

// GetInsights aggregates the store for display. It never writes.
func (s *Service) GetInsights(ctx context.Context) domain.Insights {
	metrics := s.Load(ctx)
	if len(metrics) == 0 {
		return coldStartInsights()
	}

	th := s.cfg.Thresholds

	out := domain.Insights{
		TotalProducts: len(metrics),
	}

	all := make([]domain.ProductMetrics, 0, len(metrics))
	var rateSum float64
	for id, m := range metrics {
		if m == nil {
			continue
		}
		rec := *m
		rec.ProductID = id
		all = append(all, rec)

		out.TotalViews += m.Views
		out.TotalRevenue += m.Revenue
		rateSum += m.ConversionRate
	}
	if len(all) > 0 {
		out.AverageConversionRate = rateSum / float64(len(all))
	}

	sortByScore(all)
	if len(all) > defaultInsightsTopN {
		all = all[:defaultInsightsTopN]
	}
	out.TopPerformers = all

	out.Underperformers = underperformers(metrics, th, s.now())
	winners := topPerformers(metrics, th)

	out.Recommendations = recommendations(out, len(winners), th)

	return out
}

func recommendations(in domain.Insights, winners int, th domain.PerformanceThresholds) []string {
	recs := []string{}

	if n := len(in.Underperformers); n > 0 {
		recs = append(recs, fmt.Sprintf("Remove %d underperforming products", n))
	}
	if winners > 0 {
		recs = append(recs, fmt.Sprintf("Create variations of %d top performing products", winners))
	}
	if in.TotalViews > 0 && in.AverageConversionRate < th.MinConversionRate {
		recs = append(recs, fmt.Sprintf("Average conversion rate is below %.1f%%, review pricing and product imagery", th.MinConversionRate*100))
	}
	if len(recs) == 0 {
		recs = append(recs, "Catalog is performing within thresholds")
	}

	return recs
}

func coldStartInsights() domain.Insights {
	return domain.Insights{
		TopPerformers:   []domain.ProductMetrics{},
		Underperformers: []string{},
		Recommendations: []string{coldStartRecommendation},
	}
}
