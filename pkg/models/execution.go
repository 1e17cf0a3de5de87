package models

import (
	"strings"
	"time"
)

// ExecutionStatus is the Execution Engine's per-execution state tag
// (SPEC_FULL.md §4.8).
type ExecutionStatus string

const (
	ExecutionPending   ExecutionStatus = "pending"
	ExecutionPlanning  ExecutionStatus = "planning"
	ExecutionExecuting ExecutionStatus = "executing"
	ExecutionVerifying ExecutionStatus = "verifying"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
	ExecutionCancelled ExecutionStatus = "cancelled"
)

// StageDescriptor is one declarative stage in a WorkflowDescriptor
// (SPEC_FULL.md §9 "Polymorphism").
type StageDescriptor struct {
	Name        string
	Description string
	Output      string // expected output shape, free-form hint
}

// WorkflowDescriptor is a declarative sequence of stages an agent can run.
type WorkflowDescriptor struct {
	ID     string
	Name   string
	Stages []StageDescriptor
}

// AgentDescriptor is a registered agent: identifier, codename, priority, and
// the workflows it can run.
type AgentDescriptor struct {
	ID             string
	Codename       string
	PriorityWeight float64
	Workflows      []WorkflowDescriptor
}

// IsResearchAgent reports whether this agent should be dispatched through the
// research executor hook rather than receive a stub output
// (SPEC_FULL.md §4.8 "for research agents").
func (a AgentDescriptor) IsResearchAgent() bool {
	switch a.ID {
	case "scout-research", "oracle-strategy":
		return true
	default:
		return false
	}
}

// ExecutionRequest is the input to the Execution Engine (SPEC_FULL.md §4.8).
type ExecutionRequest struct {
	ProjectID  string
	AgentRef   string
	WorkflowID string
	FreeText   string
	Inputs     map[string]any
}

// ExecutionResult is the Execution Engine's output (SPEC_FULL.md §4.8).
type ExecutionResult struct {
	ExecutionID     string
	AgentID         string
	AgentName       string
	WorkflowID      string
	WorkflowName    string
	Status          ExecutionStatus
	StagesCompleted int
	TotalStages     int
	Artifacts       []string
	TasksCreated    []string
	StartedAt       time.Time
	CompletedAt     *time.Time
	DurationMS      int64
	Error           string
}

// ExecutionInstance is the internal state tracked for one in-flight or
// completed execution.
type ExecutionInstance struct {
	ID          string
	Agent       AgentDescriptor
	Workflow    WorkflowDescriptor
	ProjectID   string
	Inputs      map[string]any
	Status      ExecutionStatus
	CurrentStage int
	StageError  string
	TasksCreated []string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// StageResult is what the Research Stage Executor returns for one of its
// six stages (SPEC_FULL.md §4.5).
type StageResult struct {
	StageName       string
	FindingsJSON    string
	EvidenceURLs    []string
	Entity          *Entity
	ConfidenceScore float64
}

// ResearchContext is the in-memory aggregate threaded through a single
// workflow run (SPEC_FULL.md §3).
type ResearchContext struct {
	Request     string
	ProjectName string
	Target      string
	Brief       string

	Entities   []*Entity
	SideEvents []*SideEvent

	// StageFindings holds each stage's raw findings JSON keyed by stage tag,
	// so a later stage can read an earlier one.
	StageFindings map[string]string
}

// NewResearchContext seeds a context from the supplied inputs, preserving
// pre-existing board entities (SPEC_FULL.md §4.11 "Pre-existing entities").
func NewResearchContext(projectName, target string, existing []*Entity) *ResearchContext {
	rc := &ResearchContext{
		ProjectName:   projectName,
		Target:        target,
		Entities:      make([]*Entity, 0, len(existing)),
		StageFindings: make(map[string]string),
	}
	rc.Entities = append(rc.Entities, existing...)
	return rc
}

// MergeEntity adds e unless an entity with the same type and case-folded
// canonical name already exists (board is not compared), in which case the existing
// entity is returned untouched (SPEC_FULL.md §3 merge-by-name invariant).
func (rc *ResearchContext) MergeEntity(e *Entity) *Entity {
	for _, existing := range rc.Entities {
		if existing.EntityType == e.EntityType && strings.EqualFold(existing.CanonicalName, e.CanonicalName) {
			return existing
		}
	}
	rc.Entities = append(rc.Entities, e)
	return e
}

// EntitiesByType filters the context's entities by type.
func (rc *ResearchContext) EntitiesByType(t EntityType) []*Entity {
	out := make([]*Entity, 0)
	for _, e := range rc.Entities {
		if e.EntityType == t {
			out = append(out, e)
		}
	}
	return out
}
