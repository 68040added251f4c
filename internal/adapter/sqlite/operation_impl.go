package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/user/ingest-service/internal/entity"
	"github.com/user/ingest-service/internal/repository"
)

// OperationRepoImpl provides a concrete implementation of
// OperationRepository backed by the SQLite store.
type OperationRepoImpl struct {
	store *Store
}

// NewOperationRepo creates a new instance of OperationRepoImpl.
func NewOperationRepo(store *Store) *OperationRepoImpl {
	return &OperationRepoImpl{store: store}
}

// Insert creates the run record and returns it with its ID assigned.
func (r *OperationRepoImpl) Insert(ctx context.Context, op *entity.Operation) (*entity.Operation, error) {
	res, err := r.store.db.ExecContext(ctx,
		`INSERT INTO ingestion_operations (
            run_id, started_at, finished_at, status,
            git_commit, git_branch, git_repo,
            articles_attempted, articles_succeeded, articles_failed, parameters
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		op.RunID,
		op.StartedAt.UTC().Format(time.RFC3339Nano),
		nullableTime(op.FinishedAt),
		string(op.Status),
		op.GitCommit,
		op.GitBranch,
		op.GitRepo,
		op.ArticlesAttempted,
		op.ArticlesSucceeded,
		op.ArticlesFailed,
		nullableString(op.Parameters),
	)
	if err != nil {
		return nil, fmt.Errorf("insert operation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return r.Get(ctx, id)
}

// Finalize writes the final counters, status and finish time for a run.
func (r *OperationRepoImpl) Finalize(ctx context.Context, id int64, counters repository.Counters, status entity.OperationStatus, finishedAt time.Time) error {
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE ingestion_operations SET
            finished_at = ?, status = ?,
            articles_attempted = ?, articles_succeeded = ?, articles_failed = ?
        WHERE id = ?`,
		finishedAt.UTC().Format(time.RFC3339Nano),
		string(status),
		counters.Attempted,
		counters.Succeeded,
		counters.Failed,
		id,
	)
	if err != nil {
		return fmt.Errorf("finalize operation: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finalize operation: no row with id %d", id)
	}
	return nil
}

// Get retrieves a run record by ID.
func (r *OperationRepoImpl) Get(ctx context.Context, id int64) (*entity.Operation, error) {
	row := r.store.db.QueryRowContext(ctx, operationSelect+" WHERE id = ?", id)
	return scanOperation(row)
}

// List returns all run records, newest first.
func (r *OperationRepoImpl) List(ctx context.Context) ([]*entity.Operation, error) {
	rows, err := r.store.db.QueryContext(ctx, operationSelect+" ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()

	var ops []*entity.Operation
	for rows.Next() {
		op, scanErr := scanOperation(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// Delete removes a run record. Article rows referencing it are removed by
// the ON DELETE CASCADE foreign key.
func (r *OperationRepoImpl) Delete(ctx context.Context, id int64) error {
	res, err := r.store.db.ExecContext(ctx,
		"DELETE FROM ingestion_operations WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("delete operation: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete operation: no row with id %d", id)
	}
	return nil
}

const operationSelect = `SELECT
    id, run_id, started_at, finished_at, status,
    git_commit, git_branch, git_repo,
    articles_attempted, articles_succeeded, articles_failed, parameters
FROM ingestion_operations`

func scanOperation(row rowScanner) (*entity.Operation, error) {
	var (
		op         entity.Operation
		startedAt  string
		finishedAt sql.NullString
		status     string
		parameters sql.NullString
	)
	err := row.Scan(
		&op.ID,
		&op.RunID,
		&startedAt,
		&finishedAt,
		&status,
		&op.GitCommit,
		&op.GitBranch,
		&op.GitRepo,
		&op.ArticlesAttempted,
		&op.ArticlesSucceeded,
		&op.ArticlesFailed,
		&parameters,
	)
	if err != nil {
		return nil, fmt.Errorf("scan operation: %w", err)
	}

	op.Status = entity.OperationStatus(status)
	op.Parameters = parameters.String

	if op.StartedAt, err = parseTimestamp(startedAt); err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		finished, parseErr := parseTimestamp(finishedAt.String)
		if parseErr != nil {
			return nil, parseErr
		}
		op.FinishedAt = &finished
	}

	return &op, nil
}
