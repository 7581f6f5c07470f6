package domain

type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// StepOutcome reports what happened to one external catalog call.
type StepOutcome struct {
	Status     StepStatus `json:"status"`
	ProductIDs []string   `json:"product_ids"`
	Error      string     `json:"error,omitempty"`
	// products the catalog reported as changed by a succeeded call
	Affected   int        `json:"affected"`
}

type OptimizeResult struct {
	RunID        string      `json:"run_id"`
	RemovedCount int         `json:"removed"`
	CreatedCount int         `json:"created"`
	Message      string      `json:"message"`
	Removal      StepOutcome `json:"removal"`
	Replication  StepOutcome `json:"replication"`
}

// ReplicateRequest is the body sent to the catalog replication service.
type ReplicateRequest struct {
	ProductIDs           []string `json:"productIds"`
	VariationsPerProduct int      `json:"variationsPerProduct"`
}

type ReplicateResponse struct {
	Created int `json:"created"`
}

type RemoveRequest struct {
	ProductIDs []string `json:"productIds"`
}

// RemoveResponse is optional; an empty body means every id was removed.
type RemoveResponse struct {
	Removed *int `json:"removed"`
}
