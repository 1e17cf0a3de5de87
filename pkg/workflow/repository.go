package workflow

import (
	"context"

	"github.com/codeready-toolchain/tarsy/pkg/models"
)

// Repository is the narrow persistence contract the workflow engine depends
// on (SPEC_FULL.md §4.12 Persistence Adapter). Defined on the consumer side
// so pkg/store can implement it without the engine importing pgx directly.
type Repository interface {
	CreateWorkflow(ctx context.Context, w *models.Workflow) error
	UpdateStatus(ctx context.Context, workflowID string, status models.WorkflowStatus) error
	UpdateStage(ctx context.Context, workflowID string, stage string) error
	UpdateCounts(ctx context.Context, workflowID string, speakers, sponsors, sideEvents int) error
	UpdateQAResult(ctx context.Context, workflowID string, score float64, qaRunID string) error
	RecordError(ctx context.Context, workflowID string, errMsg string) error
	MarkCompleted(ctx context.Context, workflowID string) error
	IncrementPostsScheduled(ctx context.Context, workflowID string, n int) error
	GetWorkflow(ctx context.Context, workflowID string) (*models.Workflow, error)

	FindEntitiesByBoard(ctx context.Context, boardID string) ([]*models.Entity, error)
	SaveEntity(ctx context.Context, e *models.Entity) error
	SaveSideEvent(ctx context.Context, se *models.SideEvent) error

	CreateArtifact(ctx context.Context, a *models.WorkflowArtifact) error
	CreateTask(ctx context.Context, t *models.Task) error
	CreateQARun(ctx context.Context, run *models.QARun) error
}
