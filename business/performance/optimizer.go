package performance

import (
	"context"
	"fmt"
	"myBrandStore/domain"
	"myBrandStore/pkg/logger"
	"strings"

	"github.com/google/uuid"
)

const subjectOptimizeReport = "Catalog auto-optimization report"

// AutoOptimize removes underperformers and asks for variations of top performers.
// It always returns a summary; per-step failures are reported in the result.
//
// Classifying -> Removing -> Replicating -> Reporting. The replicate call
// starts only after the remove call has settled, and runs even if removal failed.
func (s *Service) AutoOptimize(ctx context.Context) domain.OptimizeResult {
	runID := uuid.New().String()
	th := s.cfg.Thresholds

	// Classifying: one snapshot feeds both lists
	snapshot := s.Load(ctx)
	losers := underperformers(snapshot, th, s.now())
	winners := productIDs(topPerformers(snapshot, th))

	logger.Info("auto optimize started",
		"run_id", runID,
		"underperformers", len(losers),
		"top_performers", len(winners),
	)

	result := domain.OptimizeResult{RunID: runID}

	// Removing
	result.Removal = s.removeStep(ctx, runID, losers)
	if result.Removal.Status == domain.StepSucceeded {
		result.RemovedCount = result.Removal.Affected
		if s.cfg.PurgeRemovedMetrics {
			s.purge(ctx, losers)
		}
	}

	// Replicating
	var created int
	result.Replication, created = s.replicateStep(ctx, runID, winners)
	result.CreatedCount = created

	// Reporting
	result.Message = optimizeMessage(result)

	OptimizeRunsTotal.Inc()
	OptimizeStepsTotal.WithLabelValues("remove", string(result.Removal.Status)).Inc()
	OptimizeStepsTotal.WithLabelValues("replicate", string(result.Replication.Status)).Inc()

	logger.Info("auto optimize finished",
		"run_id", runID,
		"removed", result.RemovedCount,
		"created", result.CreatedCount,
		"removal_status", result.Removal.Status,
		"replication_status", result.Replication.Status,
	)

	s.sendReport(result)

	return result
}

func (s *Service) removeStep(ctx context.Context, runID string, ids []string) domain.StepOutcome {
	outcome := domain.StepOutcome{ProductIDs: ids}

	switch {
	case len(ids) == 0:
		outcome.Status = domain.StepSkipped
		return outcome
	case s.catalog == nil:
		outcome.Status = domain.StepFailed
		outcome.Error = "catalog service not configured"
		return outcome
	}

	removed, err := s.catalog.RemoveProducts(ctx, runID, ids)
	if err != nil {
		logger.Error("failed to remove underperforming products", "run_id", runID, "count", len(ids), "error", err)
		outcome.Status = domain.StepFailed
		outcome.Error = err.Error()
		return outcome
	}
	if removed < len(ids) {
		logger.Warn("catalog removed fewer products than requested", "run_id", runID, "requested", len(ids), "removed", removed)
	}

	outcome.Status = domain.StepSucceeded
	outcome.Affected = removed
	return outcome
}

func (s *Service) replicateStep(ctx context.Context, runID string, ids []string) (domain.StepOutcome, int) {
	outcome := domain.StepOutcome{ProductIDs: ids}

	switch {
	case len(ids) == 0:
		outcome.Status = domain.StepSkipped
		return outcome, 0
	case s.catalog == nil:
		outcome.Status = domain.StepFailed
		outcome.Error = "catalog service not configured"
		return outcome, 0
	}

	created, err := s.catalog.ReplicateProducts(ctx, runID, ids, s.cfg.VariationsPerProduct)
	if err != nil {
		logger.Error("failed to replicate top performing products", "run_id", runID, "count", len(ids), "error", err)
		outcome.Status = domain.StepFailed
		outcome.Error = err.Error()
		return outcome, 0
	}

	outcome.Status = domain.StepSucceeded
	outcome.Affected = created
	return outcome, created
}

// purge drops metrics records of products sent for removal. Ids the catalog
// did not know are dropped too since they no longer have a product behind them.
func (s *Service) purge(ctx context.Context, ids []string) {
	if s.metricsRepo == nil {
		return
	}

	s.mutate(ctx, func(metrics domain.MetricsMap) {
		for _, id := range ids {
			delete(metrics, id)
		}
	})
}

func optimizeMessage(r domain.OptimizeResult) string {
	parts := []string{
		fmt.Sprintf("Removed %d underperforming products and created %d new variations", r.RemovedCount, r.CreatedCount),
	}

	if r.Removal.Status == domain.StepFailed {
		parts = append(parts, "removal failed: "+r.Removal.Error)
	}
	if missing := len(r.Removal.ProductIDs) - r.Removal.Affected; r.Removal.Status == domain.StepSucceeded && missing > 0 {
		parts = append(parts, fmt.Sprintf("%d of %d products were not found in the catalog", missing, len(r.Removal.ProductIDs)))
	}
	if r.Replication.Status == domain.StepFailed {
		parts = append(parts, "replication failed: "+r.Replication.Error)
	}

	return strings.Join(parts, "; ")
}

func (s *Service) sendReport(r domain.OptimizeResult) {
	if s.notifRepo == nil || s.cfg.ReportEmail == "" {
		return
	}

	body := fmt.Sprintf("Run %s</br></br>%s</br></br>Removal: %s (%d of %d products)</br>Replication: %s (%d products)",
		r.RunID, r.Message,
		r.Removal.Status, r.Removal.Affected, len(r.Removal.ProductIDs),
		r.Replication.Status, len(r.Replication.ProductIDs),
	)

	if err := s.notifRepo.SendEmail(s.cfg.ReportName, s.cfg.ReportEmail, subjectOptimizeReport, body); err != nil {
		logger.Warn("failed to send optimize report", "run_id", r.RunID, "error", err)
	}
}
