package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/tarsy/pkg/events"
	"github.com/codeready-toolchain/tarsy/pkg/models"
	"github.com/codeready-toolchain/tarsy/pkg/router"
)

// StageExecutor dispatches one stage of a research agent's workflow,
// assembling a ResearchContext from prior stage outputs
// (SPEC_FULL.md §4.8 "for research agents: a streaming LLM call").
type StageExecutor interface {
	ExecuteStage(ctx context.Context, agent models.AgentDescriptor, stage models.StageDescriptor, inputs map[string]any, priorOutputs map[int]models.WorkflowArtifact) (string, error)
}

// TaskCreator creates one board task per stage, up front, before stage
// execution begins (SPEC_FULL.md §4.8 "Task creation").
type TaskCreator interface {
	CreateTask(ctx context.Context, projectID string, stage models.StageDescriptor, agentID string) (*models.Task, error)
}

// Engine is the generic stage driver: router -> per-stage execution ->
// artifact + event emission (SPEC_FULL.md §4.8).
type Engine struct {
	router   *router.Router
	store    *ArtifactStore
	bus      *events.Bus
	executor StageExecutor // nil permitted: non-research agents only get the stub path
	tasks    TaskCreator   // nil permitted: task creation is then skipped
}

// New builds an Engine. executor and tasks may be nil.
func New(rtr *router.Router, store *ArtifactStore, bus *events.Bus, executor StageExecutor, tasks TaskCreator) *Engine {
	return &Engine{router: rtr, store: store, bus: bus, executor: executor, tasks: tasks}
}

// Execute runs the full Pending -> Planning -> Executing -> Verifying ->
// Completed/Failed state machine of SPEC_FULL.md §4.8.
func (e *Engine) Execute(ctx context.Context, req models.ExecutionRequest) models.ExecutionResult {
	startedAt := time.Now()
	executionID := uuid.NewString()

	e.bus.Publish(events.Event{Kind: events.KindExecutionStarted, ExecutionID: executionID, Timestamp: startedAt})

	match, err := e.router.Route(req)
	if err != nil {
		return e.fail(executionID, startedAt, "", "", fmt.Sprintf("routing failed: %v", err), 0, 0)
	}

	instance := &models.ExecutionInstance{
		ID:        executionID,
		Agent:     match.Agent,
		Workflow:  match.Workflow,
		ProjectID: req.ProjectID,
		Inputs:    req.Inputs,
		Status:    models.ExecutionPlanning,
		StartedAt: startedAt,
	}

	var taskIDs []string
	if req.ProjectID != "" && e.tasks != nil {
		for _, stage := range instance.Workflow.Stages {
			task, terr := e.tasks.CreateTask(ctx, req.ProjectID, stage, instance.Agent.ID)
			if terr != nil {
				continue // task creation is a convenience; never aborts the execution
			}
			taskIDs = append(taskIDs, task.ID)
			e.bus.Publish(events.Event{
				Kind: events.KindTaskCreated, ExecutionID: executionID, Timestamp: time.Now(),
				Payload: events.TaskCreatedPayload{TaskID: task.ID, Title: task.Title},
			})
		}
	}
	instance.TasksCreated = taskIDs

	e.store.Store(executionID, models.WorkflowArtifact{
		ID: uuid.NewString(), WorkflowID: executionID, ArtifactType: models.ArtifactPlan,
		Title: fmt.Sprintf("%s Execution Plan", instance.Workflow.Name), Content: planContent(instance.Workflow), CreatedAt: time.Now(),
	}, -1)

	instance.Status = models.ExecutionExecuting

	total := len(instance.Workflow.Stages)
	for idx, stage := range instance.Workflow.Stages {
		stageStart := time.Now()
		e.bus.Publish(events.Event{
			Kind: events.KindExecutionStageStarted, ExecutionID: executionID, Timestamp: stageStart,
			Payload: events.StageEventPayload{StageIndex: idx, StageName: stage.Name},
		})

		priorOutputs := e.store.GetAllStageOutputs(executionID)
		output, serr := e.dispatchStage(ctx, instance.Agent, stage, req.Inputs, priorOutputs)
		if serr != nil {
			e.store.Store(executionID, models.WorkflowArtifact{
				ID: uuid.NewString(), WorkflowID: executionID, ArtifactType: models.ArtifactError,
				Title: fmt.Sprintf("stage %s failed", stage.Name), Content: serr.Error(), CreatedAt: time.Now(),
			}, -1)
			e.bus.Publish(events.Event{
				Kind: events.KindExecutionStageFailed, ExecutionID: executionID, Timestamp: time.Now(),
				Payload: events.StageEventPayload{StageIndex: idx, StageName: stage.Name, Error: serr.Error()},
			})
			return e.fail(executionID, startedAt, instance.Agent.ID, instance.Workflow.ID, serr.Error(), idx, total)
		}

		artifact := models.WorkflowArtifact{
			ID: uuid.NewString(), WorkflowID: executionID, ArtifactType: models.ArtifactStageOutput,
			Title: stage.Name, Content: output, CreatedAt: time.Now(),
		}
		e.store.Store(executionID, artifact, idx)
		instance.CurrentStage = idx + 1

		e.bus.Publish(events.Event{
			Kind: events.KindExecutionStageCompleted, ExecutionID: executionID, Timestamp: time.Now(),
			Payload: events.StageEventPayload{
				StageIndex: idx, StageName: stage.Name,
				DurationMS: time.Since(stageStart).Milliseconds(), ArtifactCount: e.store.Count(executionID),
			},
		})
	}

	instance.Status = models.ExecutionVerifying
	completedAt := time.Now()
	instance.Status = models.ExecutionCompleted
	instance.CompletedAt = &completedAt

	e.bus.Publish(events.Event{Kind: events.KindExecutionCompleted, ExecutionID: executionID, Timestamp: completedAt})

	return models.ExecutionResult{
		ExecutionID:     executionID,
		AgentID:         instance.Agent.ID,
		AgentName:       instance.Agent.Codename,
		WorkflowID:      instance.Workflow.ID,
		WorkflowName:    instance.Workflow.Name,
		Status:          instance.Status,
		StagesCompleted: total,
		TotalStages:     total,
		Artifacts:       artifactIDs(e.store.GetByExecution(executionID)),
		TasksCreated:    taskIDs,
		StartedAt:       startedAt,
		CompletedAt:     &completedAt,
		DurationMS:      completedAt.Sub(startedAt).Milliseconds(),
	}
}

// dispatchStage runs the stage through the research executor if the agent is
// a research agent, otherwise returns a simulated stub result
// (SPEC_FULL.md §4.8: "the spec does not require domain implementations
// here, only that the dispatch exists and the result is stored").
func (e *Engine) dispatchStage(ctx context.Context, agent models.AgentDescriptor, stage models.StageDescriptor, inputs map[string]any, priorOutputs map[int]models.WorkflowArtifact) (string, error) {
	if agent.IsResearchAgent() && e.executor != nil {
		return e.executor.ExecuteStage(ctx, agent, stage, inputs, priorOutputs)
	}
	return fmt.Sprintf(`{"stage":%q,"output":%q,"simulated":true}`, stage.Name, stage.Output), nil
}

func (e *Engine) fail(executionID string, startedAt time.Time, agentID, workflowID, reason string, stagesCompleted, total int) models.ExecutionResult {
	completedAt := time.Now()
	e.bus.Publish(events.Event{Kind: events.KindExecutionFailed, ExecutionID: executionID, Timestamp: completedAt})
	return models.ExecutionResult{
		ExecutionID:     executionID,
		AgentID:         agentID,
		WorkflowID:      workflowID,
		Status:          models.ExecutionFailed,
		StagesCompleted: stagesCompleted,
		TotalStages:     total,
		StartedAt:       startedAt,
		CompletedAt:     &completedAt,
		DurationMS:      completedAt.Sub(startedAt).Milliseconds(),
		Error:           reason,
	}
}

// planContent renders the stage sequence the Planning phase committed to,
// mirroring the original engine's plan summary (SPEC_FULL.md §4.8).
func planContent(wf models.WorkflowDescriptor) string {
	names := make([]string, len(wf.Stages))
	for i, s := range wf.Stages {
		names[i] = s.Name
	}
	return fmt.Sprintf("stages: %v", names)
}

func artifactIDs(artifacts []models.WorkflowArtifact) []string {
	ids := make([]string, len(artifacts))
	for i, a := range artifacts {
		ids[i] = a.ID
	}
	return ids
}
