// Package events provides the process-wide Event Bus (SPEC_FULL.md §4.1):
// a best-effort, in-process broadcast. There are no topics: every
// subscriber receives every published event. Adapted from the
// teacher's pkg/events/manager.go subscriber-map pattern; the Postgres
// LISTEN/NOTIFY replication and WebSocket catch-up machinery in that file
// are dropped, since the core's Event Bus is explicitly in-process-only with
// no persistence (SPEC_FULL.md §4.1) — durable event history, if wanted, is
// the boundary layer's concern, not the core's.
package events

import "time"

// Kind discriminates event payloads on the wire and for subscribers.
type Kind string

const (
	KindExecutionStarted       Kind = "execution_started"
	KindExecutionStageStarted  Kind = "execution_stage_started"
	KindExecutionStageCompleted Kind = "execution_stage_completed"
	KindExecutionStageFailed   Kind = "execution_stage_failed"
	KindExecutionFailed        Kind = "execution_failed"
	KindExecutionCompleted     Kind = "execution_completed"
	KindAgentStatusChanged     Kind = "agent_status_changed"
	KindTaskCreated            Kind = "task_created"
	KindArtifactStored         Kind = "artifact_stored"
)

// Event is the envelope every subscriber receives.
type Event struct {
	Kind        Kind
	ExecutionID string
	Timestamp   time.Time
	Payload     any
}

// StageEventPayload carries per-stage progress detail.
type StageEventPayload struct {
	StageIndex    int
	StageName     string
	DurationMS    int64  `json:"duration_ms,omitempty"`
	ArtifactCount int    `json:"artifact_count,omitempty"`
	Error         string `json:"error,omitempty"`
}

// AgentStatusPayload carries an agent's lifecycle status change.
type AgentStatusPayload struct {
	AgentID string
	Status  string
}

// TaskCreatedPayload identifies a newly created board task.
type TaskCreatedPayload struct {
	TaskID string
	Title  string
}

// ArtifactStoredPayload identifies a newly stored artifact.
type ArtifactStoredPayload struct {
	ArtifactID string
	Type       string
}
