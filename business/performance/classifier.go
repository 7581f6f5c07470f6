package performance

import (
	"context"
	"math"
	"myBrandStore/domain"
	"sort"
	"time"
)

// Underperformers returns the ids flagged for removal, sorted by id.
func (s *Service) Underperformers(ctx context.Context, th domain.PerformanceThresholds) []string {
	return underperformers(s.Load(ctx), th, s.now())
}

// TopPerformers returns the best scoring slice of sufficiently sampled products.
func (s *Service) TopPerformers(ctx context.Context, th domain.PerformanceThresholds) []domain.ProductMetrics {
	return topPerformers(s.Load(ctx), th)
}

// underperformers applies the rules in order, first match wins:
// skip small samples, then staleness, then conversion floor, then score floor.
func underperformers(metrics domain.MetricsMap, th domain.PerformanceThresholds, now time.Time) []string {
	staleAfter := time.Duration(th.StaleDays) * 24 * time.Hour

	out := []string{}
	for id, m := range metrics {
		if m == nil || m.Views < th.MinViews {
			continue
		}

		switch {
		case now.Sub(m.LastViewed) > staleAfter:
			out = append(out, id)
		case m.ConversionRate < th.MinConversionRate:
			out = append(out, id)
		case m.PerformanceScore < scoreFloor:
			out = append(out, id)
		}
	}

	sort.Strings(out)
	return out
}

func topPerformers(metrics domain.MetricsMap, th domain.PerformanceThresholds) []domain.ProductMetrics {
	qualified := make([]domain.ProductMetrics, 0, len(metrics))
	for id, m := range metrics {
		if m == nil || m.Views < th.MinViews {
			continue
		}
		rec := *m
		rec.ProductID = id
		qualified = append(qualified, rec)
	}
	if len(qualified) == 0 {
		return []domain.ProductMetrics{}
	}

	sortByScore(qualified)

	n := int(math.Ceil(float64(len(qualified)) * th.TopPerformerPercentile))
	if n < 1 {
		n = 1
	}
	if n > len(qualified) {
		n = len(qualified)
	}

	return qualified[:n]
}

// sortByScore orders by score descending, ties by product id ascending.
func sortByScore(list []domain.ProductMetrics) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].PerformanceScore == list[j].PerformanceScore {
			return list[i].ProductID < list[j].ProductID
		}
		return list[i].PerformanceScore > list[j].PerformanceScore
	})
}

func productIDs(list []domain.ProductMetrics) []string {
	ids := make([]string, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.ProductID)
	}
	return ids
}
