package models

import "time"

// ArtifactType enumerates the kinds of output a workflow or execution can
// produce (SPEC_FULL.md §3).
type ArtifactType string

const (
	ArtifactPlan          ArtifactType = "plan"
	ArtifactArticle       ArtifactType = "article"
	ArtifactThumbnail     ArtifactType = "thumbnail"
	ArtifactSocialGraphic ArtifactType = "social_graphic"
	ArtifactSocialPost    ArtifactType = "social_post"
	ArtifactStageOutput   ArtifactType = "stage_output"
	ArtifactError         ArtifactType = "error"
	ArtifactScript        ArtifactType = "script"
)

// WorkflowArtifact is any concrete output produced during the workflow
// (SPEC_FULL.md §3). It also doubles as the Execution Engine's per-stage
// artifact record when WorkflowID is an execution id.
type WorkflowArtifact struct {
	ID           string
	WorkflowID   string
	ArtifactType ArtifactType
	Title        string
	Content      string
	FileURL      string
	Metadata     map[string]any
	CreatedAt    time.Time
}

// TaskPriority mirrors the board's priority tiers.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Task is a human-reviewable work item mirroring an artifact
// (SPEC_FULL.md §3).
type Task struct {
	ID             string
	ProjectID      string
	BoardID        string
	Title          string
	Description    string
	Priority       TaskPriority
	AssignedAgent  string
	RequiresApproval bool
	Tags           []string
	DueDate        *time.Time
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	CustomProperties map[string]any
	CreatedAt      time.Time
}

// QADecision is the outcome of a QA evaluation (SPEC_FULL.md §4.6).
type QADecision string

const (
	QAApprove  QADecision = "approve"
	QARevise   QADecision = "revise"
	QAEscalate QADecision = "escalate"
)

// QARun is the persisted outcome of a QA evaluation.
type QARun struct {
	ID               string
	WorkflowID       string
	StageName        string // empty for a workflow-level run
	OverallScore     float64
	Decision         QADecision
	EscalationReason string
	Notes            string
	CreatedAt        time.Time
}
