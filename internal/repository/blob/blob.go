package blob

import (
	"bytes"
	"fmt"
	"myBrandStore/domain"

	"github.com/goccy/go-json"
)

// Encode serializes the whole metrics mapping.
func Encode(metrics domain.MetricsMap) ([]byte, error) {
	if metrics == nil {
		metrics = domain.MetricsMap{}
	}

	raw, err := json.Marshal(metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product metrics: %w", err)
	}

	return raw, nil
}

// Decode parses a stored blob. An empty blob is an empty store. Entries are
// keyed by product id, so the key wins over whatever id the record carries.
func Decode(raw []byte) (domain.MetricsMap, error) {
	metrics := domain.MetricsMap{}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return metrics, nil
	}

	if err := json.Unmarshal(raw, &metrics); err != nil {
		return domain.MetricsMap{}, fmt.Errorf("failed to unmarshal product metrics: %w", err)
	}

	for id, m := range metrics {
		if m == nil {
			delete(metrics, id)
			continue
		}
		m.ProductID = id
	}

	return metrics, nil
}
