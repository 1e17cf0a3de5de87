package execution

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/tarsy/pkg/models"
)

// TaskStore is the narrow persistence dependency BoardTaskCreator needs —
// satisfied by *store.Store without this package importing pkg/store
// directly.
type TaskStore interface {
	CreateTask(ctx context.Context, t *models.Task) error
}

// BoardTaskCreator implements TaskCreator by writing one task per stage to
// the board, ahead of stage execution (SPEC_FULL.md §4.8 "Task creation").
type BoardTaskCreator struct {
	store TaskStore
}

// NewBoardTaskCreator builds a TaskCreator backed by store.
func NewBoardTaskCreator(store TaskStore) *BoardTaskCreator {
	return &BoardTaskCreator{store: store}
}

func (c *BoardTaskCreator) CreateTask(ctx context.Context, projectID string, stage models.StageDescriptor, agentID string) (*models.Task, error) {
	task := &models.Task{
		ID:            uuid.NewString(),
		ProjectID:     projectID,
		Title:         fmt.Sprintf("%s: %s", agentID, stage.Name),
		Description:   stage.Description,
		Priority:      models.PriorityMedium,
		AssignedAgent: agentID,
		Tags:          []string{"execution", stage.Name},
	}
	if err := c.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("execution: create task for stage %s: %w", stage.Name, err)
	}
	return task, nil
}
