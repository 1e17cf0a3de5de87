// Package qa implements the Quality Analyst (QA Gate, SPEC_FULL.md §4.6):
// scores a stage or whole workflow and emits approve/revise/escalate
// decisions, recording every decision as a QARun.
package qa

import (
	"fmt"

	"github.com/codeready-toolchain/tarsy/pkg/models"
)

// Gate evaluates stage and workflow results against qa_approval_threshold.
type Gate struct {
	ApprovalThreshold float64
}

// New builds a Gate with the given approval threshold (config.WorkflowConfig.QAApprovalThreshold).
func New(approvalThreshold float64) *Gate {
	return &Gate{ApprovalThreshold: approvalThreshold}
}

// EvaluateStage scores one stage result. approve when overall_score >=
// threshold (tie goes to approve, SPEC_FULL.md §10); revise when below
// threshold but retriesRemaining > 0; escalate when retries are exhausted.
func (g *Gate) EvaluateStage(workflowID string, result models.StageResult, retriesRemaining int) *models.QARun {
	run := &models.QARun{
		WorkflowID:   workflowID,
		StageName:    result.StageName,
		OverallScore: result.ConfidenceScore,
	}
	switch {
	case result.ConfidenceScore >= g.ApprovalThreshold:
		run.Decision = models.QAApprove
	case retriesRemaining > 0:
		run.Decision = models.QARevise
		run.Notes = fmt.Sprintf("stage %q scored %.2f, below threshold %.2f; %d retries remaining", result.StageName, result.ConfidenceScore, g.ApprovalThreshold, retriesRemaining)
	default:
		run.Decision = models.QAEscalate
		run.EscalationReason = fmt.Sprintf("stage %q scored %.2f after exhausting all retries (threshold %.2f)", result.StageName, result.ConfidenceScore, g.ApprovalThreshold)
	}
	return run
}

// WorkflowSummary is the aggregate input to EvaluateWorkflow.
type WorkflowSummary struct {
	WorkflowID             string
	StageScores            []float64
	EntitiesDiscovered     int
	AverageDataCompleteness float64
	ArtifactCount          int
}

// EvaluateWorkflow aggregates stage scores, entity counts, completeness
// averages, and artifact counts into an overall workflow score
// (SPEC_FULL.md §4.6). The workflow-level decision never escalates — a
// workflow that has already run to completion has no further retries to
// exhaust, so a sub-threshold score is recorded as revise for visibility.
func (g *Gate) EvaluateWorkflow(s WorkflowSummary) *models.QARun {
	var stageAvg float64
	if len(s.StageScores) > 0 {
		var sum float64
		for _, sc := range s.StageScores {
			sum += sc
		}
		stageAvg = sum / float64(len(s.StageScores))
	}

	entityScore := 1.0
	if s.EntitiesDiscovered == 0 {
		entityScore = 0
	} else if s.EntitiesDiscovered < 5 {
		entityScore = float64(s.EntitiesDiscovered) / 5
	}

	artifactScore := 1.0
	if s.ArtifactCount == 0 {
		artifactScore = 0
	} else if s.ArtifactCount < 3 {
		artifactScore = float64(s.ArtifactCount) / 3
	}

	overall := 0.4*stageAvg + 0.2*entityScore + 0.2*s.AverageDataCompleteness + 0.2*artifactScore

	run := &models.QARun{
		WorkflowID:   s.WorkflowID,
		OverallScore: overall,
	}
	if overall >= g.ApprovalThreshold {
		run.Decision = models.QAApprove
	} else {
		run.Decision = models.QARevise
		run.Notes = fmt.Sprintf("workflow scored %.2f against threshold %.2f (stage avg %.2f, entities %d, completeness %.2f, artifacts %d)",
			overall, g.ApprovalThreshold, stageAvg, s.EntitiesDiscovered, s.AverageDataCompleteness, s.ArtifactCount)
	}
	return run
}
