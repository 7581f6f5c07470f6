package domain

import "time"

// ProductMetrics is the engagement record kept per catalog item.
type ProductMetrics struct {
	ProductID        string    `json:"product_id"`
	Views            int       `json:"views"`
	Clicks           int       `json:"clicks"`
	AddedToCart      int       `json:"added_to_cart"`
	Purchased        int       `json:"purchased"`
	Revenue          float64   `json:"revenue"`
	FirstSeen        time.Time `json:"first_seen"`
	LastViewed       time.Time `json:"last_viewed"`
	ConversionRate   float64   `json:"conversion_rate"`
	PerformanceScore int       `json:"performance_score"`
}

// MetricsMap is the whole persisted blob, keyed by product id.
type MetricsMap map[string]*ProductMetrics

type PerformanceThresholds struct {
	MinViews               int     `json:"min_views" query:"min_views" validate:"gte=0"`
	MinConversionRate      float64 `json:"min_conversion_rate" query:"min_conversion_rate" validate:"gte=0,lte=1"`
	StaleDays              int     `json:"stale_days" query:"stale_days" validate:"gte=0"`
	TopPerformerPercentile float64 `json:"top_performer_percentile" query:"top_performer_percentile" validate:"gte=0,lte=1"`
}

type Insights struct {
	TotalProducts         int              `json:"total_products"`
	TotalViews            int              `json:"total_views"`
	TotalRevenue          float64          `json:"total_revenue"`
	AverageConversionRate float64          `json:"average_conversion_rate"`
	TopPerformers         []ProductMetrics `json:"top_performers"`
	Underperformers       []string         `json:"underperformers"`
	Recommendations       []string         `json:"recommendations"`
}
