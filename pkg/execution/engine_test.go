package execution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/tarsy/pkg/events"
	"github.com/codeready-toolchain/tarsy/pkg/models"
	"github.com/codeready-toolchain/tarsy/pkg/router"
)

func fixtureAgent() models.AgentDescriptor {
	return models.AgentDescriptor{
		ID: "scout-research", Codename: "Scout", PriorityWeight: 1,
		Workflows: []models.WorkflowDescriptor{
			{ID: "wf-research", Name: "conference research", Stages: []models.StageDescriptor{
				{Name: "stage_one", Output: "findings"},
				{Name: "stage_two", Output: "findings"},
			}},
		},
	}
}

type stubExecutor struct{ calls int }

func (s *stubExecutor) ExecuteStage(ctx context.Context, agent models.AgentDescriptor, stage models.StageDescriptor, inputs map[string]any, prior map[int]models.WorkflowArtifact) (string, error) {
	s.calls++
	return `{"ok":true}`, nil
}

func TestEngineExecuteRunsAllStages(t *testing.T) {
	rtr := router.New([]models.AgentDescriptor{fixtureAgent()})
	store := NewArtifactStore()
	bus := events.NewBus()
	ch, id := bus.Subscribe()
	defer bus.Unsubscribe(id)

	exec := &stubExecutor{}
	eng := New(rtr, store, bus, exec, nil)

	result := eng.Execute(context.Background(), models.ExecutionRequest{AgentRef: "scout-research", WorkflowID: "wf-research"})

	require.Equal(t, models.ExecutionCompleted, result.Status)
	assert.Equal(t, 2, result.StagesCompleted)
	assert.Equal(t, 2, exec.calls)
	assert.Len(t, result.Artifacts, 3) // plan + 2 stage outputs

	var sawStarted bool
	for i := 0; i < 10; i++ {
		select {
		case e := <-ch:
			if e.Kind == events.KindExecutionStarted {
				sawStarted = true
			}
		default:
		}
	}
	assert.True(t, sawStarted)
}

func TestEngineExecuteFailsOnNoRoute(t *testing.T) {
	rtr := router.New(nil)
	store := NewArtifactStore()
	bus := events.NewBus()
	eng := New(rtr, store, bus, nil, nil)

	result := eng.Execute(context.Background(), models.ExecutionRequest{AgentRef: "nonexistent"})
	assert.Equal(t, models.ExecutionFailed, result.Status)
	assert.NotEmpty(t, result.Error)
}

func TestArtifactStoreStageOutputsOrdering(t *testing.T) {
	store := NewArtifactStore()
	store.Store("exec-1", models.WorkflowArtifact{ID: "a1", Content: "first"}, 0)
	store.Store("exec-1", models.WorkflowArtifact{ID: "a2", Content: "second"}, 1)

	outputs := store.GetAllStageOutputs("exec-1")
	require.Len(t, outputs, 2)
	assert.Equal(t, "first", outputs[0].Content)
	assert.Equal(t, "second", outputs[1].Content)
	assert.Equal(t, 2, store.Count("exec-1"))
}
