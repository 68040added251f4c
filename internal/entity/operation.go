package entity

import "time"

// OperationStatus tracks the lifecycle of an ingestion run record.
type OperationStatus string

const (
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
)

// Operation mirrors the `ingestion_operations` SQLite table schema. One row
// is created per invocation and finalized when the run ends, successfully or
// not.
type Operation struct {
	ID         int64
	RunID      string // uuid, stable across log lines and metrics
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     OperationStatus

	// Source-control provenance captured once at run start.
	GitCommit string
	GitBranch string
	GitRepo   string

	ArticlesAttempted int
	ArticlesSucceeded int
	ArticlesFailed    int

	// Parameters is a JSON snapshot of the effective run settings.
	Parameters string
}
