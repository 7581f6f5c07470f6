package performance

import (
	"context"
	"errors"
	"myBrandStore/domain"
	"sync"
	"time"
)

var testNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// memRepo copies on every Load/Save the way a serializing backend would.
type memRepo struct {
	mu      sync.Mutex
	data    domain.MetricsMap
	loadErr error
	saveErr error
	saves   int
}

func newMemRepo(records ...domain.ProductMetrics) *memRepo {
	r := &memRepo{data: domain.MetricsMap{}}
	for i := range records {
		rec := records[i]
		r.data[rec.ProductID] = &rec
	}
	return r
}

func (r *memRepo) Load(ctx context.Context) (domain.MetricsMap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return cloneMap(r.data), nil
}

func (r *memRepo) Save(ctx context.Context, metrics domain.MetricsMap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.data = cloneMap(metrics)
	return nil
}

func (r *memRepo) get(id string) (domain.ProductMetrics, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.data[id]
	if !ok {
		return domain.ProductMetrics{}, false
	}
	return *rec, true
}

type atomicMemRepo struct {
	*memRepo
	updates int
}

func (r *atomicMemRepo) Update(ctx context.Context, mutate func(domain.MetricsMap)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	m := cloneMap(r.data)
	mutate(m)
	r.data = m
	return nil
}

func cloneMap(in domain.MetricsMap) domain.MetricsMap {
	out := make(domain.MetricsMap, len(in))
	for k, v := range in {
		if v == nil {
			continue
		}
		rec := *v
		out[k] = &rec
	}
	return out
}

type fakeSink struct {
	mu     sync.Mutex
	events []domain.TelemetryEvent
	err    error
}

func (s *fakeSink) Track(ctx context.Context, event domain.TelemetryEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *fakeSink) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.EventName)
	}
	return out
}

type fakeCatalog struct {
	calls        []string
	runIDs       []string
	removed      []string
	replicated   []string
	variations   int
	created      int
	removeErr    error
	replicateErr error
	// when set, RemoveProducts reports this many removals instead of len(productIDs)
	removedCount *int
}

func (c *fakeCatalog) RemoveProducts(ctx context.Context, runID string, productIDs []string) (int, error) {
	c.calls = append(c.calls, "remove")
	c.runIDs = append(c.runIDs, runID)
	c.removed = productIDs
	if c.removeErr != nil {
		return 0, c.removeErr
	}
	if c.removedCount != nil {
		return *c.removedCount, nil
	}
	return len(productIDs), nil
}

func (c *fakeCatalog) ReplicateProducts(ctx context.Context, runID string, productIDs []string, variationsPerProduct int) (int, error) {
	c.calls = append(c.calls, "replicate")
	c.runIDs = append(c.runIDs, runID)
	c.replicated = productIDs
	c.variations = variationsPerProduct
	if c.replicateErr != nil {
		return 0, c.replicateErr
	}
	return c.created, nil
}

type fakeNotifier struct {
	to      string
	subject string
	body    string
	err     error
}

func (n *fakeNotifier) SendEmail(toName, toEmail, subject, message string) error {
	n.to = toEmail
	n.subject = subject
	n.body = message
	return n.err
}

var errBoom = errors.New("boom")

func newTestService(repo MetricsRepository, sink TelemetrySink, catalog CatalogService) *Service {
	return NewService(repo, sink, catalog, nil, DefaultConfig()).WithClock(fixedClock)
}

// qualified builds a record that passes every threshold except what the caller overrides.
func qualified(id string, score int) domain.ProductMetrics {
	return domain.ProductMetrics{
		ProductID:        id,
		Views:            100,
		Clicks:           10,
		AddedToCart:      4,
		Purchased:        1,
		ConversionRate:   0.04,
		PerformanceScore: score,
		FirstSeen:        testNow.Add(-60 * 24 * time.Hour),
		LastViewed:       testNow.Add(-time.Hour),
	}
}
