package repository

import (
	"context"
	"time"

	"github.com/user/ingest-service/internal/entity"
)

// Counters holds the final per-run tallies written at finalization.
type Counters struct {
	Attempted int
	Succeeded int
	Failed    int
}

// OperationRepository defines the interface for run metadata records.
type OperationRepository interface {
	// Insert creates the run record at run start and returns it with its ID
	// assigned.
	Insert(ctx context.Context, op *entity.Operation) (*entity.Operation, error)
	// Finalize writes the final counters, status and finish time for a run.
	Finalize(ctx context.Context, id int64, counters Counters, status entity.OperationStatus, finishedAt time.Time) error
	// Get retrieves a run record by ID.
	Get(ctx context.Context, id int64) (*entity.Operation, error)
	// List returns all run records, newest first.
	List(ctx context.Context) ([]*entity.Operation, error)
	// Delete removes a run record.
	Delete(ctx context.Context, id int64) error
}
