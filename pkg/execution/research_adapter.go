package execution

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/tarsy/pkg/models"
	"github.com/codeready-toolchain/tarsy/pkg/stages"
)

// ResearchStageAdapter satisfies StageExecutor by driving the six canonical
// research stages through a *stages.Executor, for Execution Requests routed
// to a research agent (SPEC_FULL.md §4.8 "for research agents: dispatch to
// the Research Stage Executor"). It is stateless between calls: each call
// rebuilds a ResearchContext from the prior stage artifacts the Engine has
// already stored, since the Execution Engine — unlike the Conference
// Workflow Engine — has no long-lived ResearchContext of its own.
type ResearchStageAdapter struct {
	executor *stages.Executor
}

// NewResearchStageAdapter wraps executor for use as an execution.StageExecutor.
func NewResearchStageAdapter(executor *stages.Executor) *ResearchStageAdapter {
	return &ResearchStageAdapter{executor: executor}
}

// ExecuteStage rebuilds a ResearchContext from priorOutputs (keyed by stage
// index, with each artifact's Title holding the stage name it came from),
// runs the one canonical stage named by stage.Name, and returns its
// findings JSON.
func (a *ResearchStageAdapter) ExecuteStage(ctx context.Context, agent models.AgentDescriptor, stage models.StageDescriptor, inputs map[string]any, priorOutputs map[int]models.WorkflowArtifact) (string, error) {
	website, _ := inputs["website"].(string)
	target, _ := inputs["target"].(string)
	if target == "" {
		target = agent.Codename
	}

	rc := models.NewResearchContext(target, website, nil)
	for _, artifact := range priorOutputs {
		rc.StageFindings[artifact.Title] = artifact.Content
	}

	result, err := a.runOneStage(ctx, stage.Name, rc, website)
	if err != nil {
		return "", err
	}
	return result.FindingsJSON, nil
}

func (a *ResearchStageAdapter) runOneStage(ctx context.Context, stageName string, rc *models.ResearchContext, website string) (models.StageResult, error) {
	switch stageName {
	case models.StageConferenceIntel:
		return a.executor.RunConferenceIntel(ctx, rc, website)
	case models.StageSpeakerResearch:
		return a.executor.RunSpeakerResearch(ctx, rc)
	case models.StageBrandResearch:
		return a.executor.RunBrandResearch(ctx, rc)
	case models.StageProductionTeam:
		return a.executor.RunProductionTeam(ctx, rc)
	case models.StageCompetitiveIntel:
		return a.executor.RunCompetitiveIntel(ctx, rc)
	case models.StageSideEvents:
		return a.executor.RunSideEvents(ctx, rc)
	default:
		return models.StageResult{}, fmt.Errorf("execution: unknown research stage %q", stageName)
	}
}
