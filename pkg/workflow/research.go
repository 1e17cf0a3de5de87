package workflow

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/tarsy/pkg/models"
)

// runResearchStages runs the six canonical stages in order, applying the QA
// gate after each (SPEC_FULL.md §4.11 step 2). It returns (escalated,
// reason): if escalated, the caller records reason as last_error and marks
// the workflow Failed.
func (e *Engine) runResearchStages(ctx context.Context, w *models.Workflow, rc *models.ResearchContext, result *models.WorkflowResult) (bool, string) {
	for _, stageName := range models.CanonicalStages {
		if err := e.repo.UpdateStage(ctx, w.ID, stageName); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("update stage %s: %v", stageName, err))
		}
		w.CurrentStage = stageName

		approved, escalated, reason := e.runStageUntilDecided(ctx, stageName, w, rc)
		if escalated {
			return true, reason
		}
		if approved {
			result.StagesCompleted = append(result.StagesCompleted, stageName)
		}
	}

	for _, ent := range rc.Entities {
		ent.BoardID = w.BoardID
		if err := e.repo.SaveEntity(ctx, ent); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("save entity %s: %v", ent.CanonicalName, err))
		}
	}
	for _, se := range rc.SideEvents {
		se.BoardID = w.BoardID
		if err := e.repo.SaveSideEvent(ctx, se); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("save side event %s: %v", se.Name, err))
		}
	}
	return false, ""
}

// runStageUntilDecided runs one stage, retrying on both execution failure
// and QA-revise decisions, until the gate approves, escalates, or the retry
// budget is exhausted (SPEC_FULL.md §4.5/§4.6).
func (e *Engine) runStageUntilDecided(ctx context.Context, stageName string, w *models.Workflow, rc *models.ResearchContext) (approved, escalated bool, reason string) {
	retriesRemaining := e.qaRetryBudget
	for {
		stageResult, err := e.runOneStage(ctx, stageName, w, rc)
		if err != nil {
			if retriesRemaining <= 0 {
				return false, true, fmt.Sprintf("stage %q failed after exhausting retries: %v", stageName, err)
			}
			retriesRemaining--
			continue
		}

		run := e.gate.EvaluateStage(w.ID, stageResult, retriesRemaining)
		switch run.Decision {
		case models.QAApprove:
			return true, false, ""
		case models.QARevise:
			retriesRemaining--
			continue
		default: // QAEscalate
			return false, true, run.EscalationReason
		}
	}
}

// runOneStage dispatches stageName to its Research Stage Executor operation.
func (e *Engine) runOneStage(ctx context.Context, stageName string, w *models.Workflow, rc *models.ResearchContext) (models.StageResult, error) {
	switch stageName {
	case models.StageConferenceIntel:
		return e.executor.RunConferenceIntel(ctx, rc, w.Website)
	case models.StageSpeakerResearch:
		return e.executor.RunSpeakerResearch(ctx, rc)
	case models.StageBrandResearch:
		return e.executor.RunBrandResearch(ctx, rc)
	case models.StageProductionTeam:
		return e.executor.RunProductionTeam(ctx, rc)
	case models.StageCompetitiveIntel:
		return e.executor.RunCompetitiveIntel(ctx, rc)
	case models.StageSideEvents:
		return e.executor.RunSideEvents(ctx, rc)
	default:
		return models.StageResult{}, fmt.Errorf("workflow: unknown stage %q", stageName)
	}
}
