package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/tarsy/pkg/models"
)

// executeHandler handles POST /api/v1/executions: the ad-hoc single-agent
// entry point onto the Execution Engine (SPEC_FULL.md §4.8), distinct from
// the Conference Workflow Engine's multi-stage pipeline.
func (s *Server) executeHandler(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result := s.executions.Execute(c.Request.Context(), models.ExecutionRequest{
		ProjectID:  req.ProjectID,
		AgentRef:   req.AgentRef,
		WorkflowID: req.WorkflowID,
		FreeText:   req.FreeText,
		Inputs:     req.Inputs,
	})

	status := http.StatusOK
	if result.Status == models.ExecutionFailed {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, ExecutionResponse{
		ExecutionID:     result.ExecutionID,
		AgentID:         result.AgentID,
		AgentName:       result.AgentName,
		WorkflowID:      result.WorkflowID,
		WorkflowName:    result.WorkflowName,
		Status:          string(result.Status),
		StagesCompleted: result.StagesCompleted,
		TotalStages:     result.TotalStages,
		Artifacts:       result.Artifacts,
		TasksCreated:    result.TasksCreated,
		DurationMS:      result.DurationMS,
		Error:           result.Error,
	})
}
