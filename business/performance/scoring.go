package performance

import (
	"math"
	"myBrandStore/domain"
)

const (
	conversionWeight   = 2000.0
	conversionCap      = 40.0
	clickThroughWeight = 300.0
	clickThroughCap    = 30.0
	purchaseWeight     = 3000.0
	purchaseCap        = 30.0
)

// Score maps a metrics record to an integer in [0, 100].
//
//	conversion  min(conversionRate * 2000, 40)
//	ctr         min(clicks/views * 300, 30)
//	purchases   min(purchased/views * 3000, 30)
//
// Zero-view records score 0.
func Score(m domain.ProductMetrics) int {
	if m.Views <= 0 {
		return 0
	}

	views := float64(m.Views)

	conversion := capped(m.ConversionRate*conversionWeight, conversionCap)
	ctr := capped(float64(m.Clicks)/views*clickThroughWeight, clickThroughCap)
	purchases := capped(float64(m.Purchased)/views*purchaseWeight, purchaseCap)

	score := int(math.Round(conversion + ctr + purchases))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}

	return score
}

func capped(v, limit float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, limit)
}

func conversionRate(m domain.ProductMetrics) float64 {
	if m.Views <= 0 {
		return 0
	}
	return float64(m.AddedToCart) / float64(m.Views)
}

// refreshDerived recomputes every derived field from the counters.
func refreshDerived(m *domain.ProductMetrics) {
	m.ConversionRate = conversionRate(*m)
	m.PerformanceScore = Score(*m)
}
