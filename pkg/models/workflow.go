// Package models holds the plain data-transfer structs persisted and passed
// between components. None of these carry ORM behavior — persistence is the
// concern of pkg/store.
package models

import "time"

// WorkflowStatus is the Conference Workflow Engine's state tag (SPEC_FULL.md
// §4.11).
type WorkflowStatus string

const (
	WorkflowPending          WorkflowStatus = "pending"
	WorkflowResearching      WorkflowStatus = "researching"
	WorkflowResearchComplete WorkflowStatus = "research_complete"
	WorkflowContentCreation  WorkflowStatus = "content_creation"
	WorkflowScheduling       WorkflowStatus = "scheduling"
	WorkflowCompleted        WorkflowStatus = "completed"
	WorkflowPaused           WorkflowStatus = "paused"
	WorkflowFailed           WorkflowStatus = "failed"
)

// Canonical research stage tags, in pipeline order.
const (
	StageConferenceIntel = "conference_intel"
	StageSpeakerResearch = "speaker_research"
	StageBrandResearch   = "brand_research"
	StageProductionTeam  = "production_team"
	StageCompetitiveIntel = "competitive_intel"
	StageSideEvents      = "side_events"
)

// CanonicalStages lists the six research stages in their fixed order.
var CanonicalStages = []string{
	StageConferenceIntel,
	StageSpeakerResearch,
	StageBrandResearch,
	StageProductionTeam,
	StageCompetitiveIntel,
	StageSideEvents,
}

// ConferenceIntake is the initial structured description of a conference
// supplied on workflow creation.
type ConferenceIntake struct {
	Name      string
	StartDate string // ISO date, e.g. "2025-06-10"
	EndDate   string
	Location  string
	Timezone  string
	Website   string
}

// Workflow is the top-level execution record (SPEC_FULL.md §3).
type Workflow struct {
	ID       string
	BoardID  string
	ProjectID string

	ConferenceName string
	StartDate      string
	EndDate        string
	Location       string
	Timezone       string
	Website        string

	Status       WorkflowStatus
	CurrentStage string
	ErrorCount   int
	LastError    string

	SpeakersCount    int
	SponsorsCount    int
	SideEventsCount  int
	PostsScheduled   int

	FinalQAScore *float64
	QARunID      string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// WorkflowResult is the outward-facing result of running a workflow
// (SPEC_FULL.md §6 / §4.11).
type WorkflowResult struct {
	WorkflowID            string
	Status                WorkflowStatus
	StagesCompleted       []string
	EntitiesCreated       int
	SideEventsDiscovered  int
	SocialPostsScheduled  int
	FinalQAScore          *float64
	DurationMS            int64
	Errors                []string
}
