package performance

import (
	"myBrandStore/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		in   domain.ProductMetrics
		want int
	}{
		{
			name: "all components capped",
			in:   domain.ProductMetrics{Views: 100, Clicks: 10, AddedToCart: 4, Purchased: 1, ConversionRate: 0.04},
			want: 100,
		},
		{
			name: "partial components",
			in:   domain.ProductMetrics{Views: 100, Clicks: 5, AddedToCart: 1, ConversionRate: 0.01},
			want: 35,
		},
		{
			name: "rounding",
			in:   domain.ProductMetrics{Views: 300, Clicks: 1, ConversionRate: 0},
			want: 1,
		},
		{
			name: "zero views ignores counters",
			in:   domain.ProductMetrics{Views: 0, Clicks: 50, AddedToCart: 10, Purchased: 5, ConversionRate: 1},
			want: 0,
		},
		{
			name: "empty record",
			in:   domain.ProductMetrics{},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.in))
		})
	}
}

func TestScore_Bounded(t *testing.T) {
	for views := 0; views <= 200; views += 20 {
		for clicks := 0; clicks <= 300; clicks += 75 {
			for carts := 0; carts <= 300; carts += 75 {
				for bought := 0; bought <= 300; bought += 75 {
					m := domain.ProductMetrics{Views: views, Clicks: clicks, AddedToCart: carts, Purchased: bought}
					m.ConversionRate = conversionRate(m)

					got := Score(m)
					assert.GreaterOrEqual(t, got, 0)
					assert.LessOrEqual(t, got, 100)
				}
			}
		}
	}
}

func TestScore_MonotonicInCounters(t *testing.T) {
	base := domain.ProductMetrics{Views: 500}
	prev := -1

	for step := 0; step < 40; step++ {
		m := base
		m.Clicks = step * 2
		m.AddedToCart = step
		m.Purchased = step / 2
		m.ConversionRate = conversionRate(m)

		got := Score(m)
		assert.GreaterOrEqual(t, got, prev, "step %d", step)
		prev = got
	}
}

func TestRefreshDerived(t *testing.T) {
	m := domain.ProductMetrics{Views: 100, Clicks: 10, AddedToCart: 4, Purchased: 1}
	refreshDerived(&m)

	assert.InDelta(t, 0.04, m.ConversionRate, 1e-9)
	assert.Equal(t, 100, m.PerformanceScore)

	zero := domain.ProductMetrics{AddedToCart: 3}
	refreshDerived(&zero)
	assert.Equal(t, 0.0, zero.ConversionRate)
	assert.Equal(t, 0, zero.PerformanceScore)
}
