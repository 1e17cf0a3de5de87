package api

// WorkflowResponse is returned by POST /api/v1/workflows and GET
// /api/v1/workflows/:id.
type WorkflowResponse struct {
	ID             string   `json:"id"`
	ConferenceName string   `json:"conference_name"`
	Status         string   `json:"status"`
	CurrentStage   string   `json:"current_stage"`
	SpeakersCount  int      `json:"speakers_count"`
	SponsorsCount  int      `json:"sponsors_count"`
	SideEventsCount int     `json:"side_events_count"`
	PostsScheduled int      `json:"posts_scheduled"`
	FinalQAScore   *float64 `json:"final_qa_score,omitempty"`
	LastError      string   `json:"last_error,omitempty"`
}

// RunWorkflowResponse is returned by POST /api/v1/workflows/:id/run.
type RunWorkflowResponse struct {
	WorkflowID           string   `json:"workflow_id"`
	Status               string   `json:"status"`
	StagesCompleted      []string `json:"stages_completed"`
	EntitiesCreated      int      `json:"entities_created"`
	SideEventsDiscovered int      `json:"side_events_discovered"`
	SocialPostsScheduled int      `json:"social_posts_scheduled"`
	FinalQAScore         *float64 `json:"final_qa_score,omitempty"`
	DurationMS           int64    `json:"duration_ms"`
	Errors               []string `json:"errors,omitempty"`
}

// ExecutionResponse is returned by POST /api/v1/executions.
type ExecutionResponse struct {
	ExecutionID     string   `json:"execution_id"`
	AgentID         string   `json:"agent_id"`
	AgentName       string   `json:"agent_name"`
	WorkflowID      string   `json:"workflow_id"`
	WorkflowName    string   `json:"workflow_name"`
	Status          string   `json:"status"`
	StagesCompleted int      `json:"stages_completed"`
	TotalStages     int      `json:"total_stages"`
	Artifacts       []string `json:"artifacts,omitempty"`
	TasksCreated    []string `json:"tasks_created,omitempty"`
	DurationMS      int64    `json:"duration_ms"`
	Error           string   `json:"error,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string                 `json:"status"`
	Version string                 `json:"version"`
	Checks  map[string]HealthCheck `json:"checks"`
}

// HealthCheck reports the status of a single health check component.
type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the uniform error envelope returned by every handler on
// failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
