package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/tarsy/pkg/models"
)

// initializeHandler handles POST /api/v1/workflows: creates a workflow
// record without starting the pipeline (SPEC_FULL.md §4.11 "initialize").
func (s *Server) initializeHandler(c *gin.Context) {
	var req InitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	w, err := s.workflows.Initialize(c.Request.Context(), req.BoardID, req.ProjectID, models.ConferenceIntake{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Location:  req.Location,
		Timezone:  req.Timezone,
		Website:   req.Website,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toWorkflowResponse(w))
}

// runWorkflowHandler handles POST /api/v1/workflows/:id/run: executes the
// full seven-step pipeline (SPEC_FULL.md §4.11 "run_workflow").
func (s *Server) runWorkflowHandler(c *gin.Context) {
	id := c.Param("id")
	result, err := s.workflows.RunWorkflow(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRunWorkflowResponse(result))
}

// getStatusHandler handles GET /api/v1/workflows/:id (SPEC_FULL.md §4.11
// "get_status").
func (s *Server) getStatusHandler(c *gin.Context) {
	id := c.Param("id")
	w, err := s.workflows.GetStatus(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWorkflowResponse(w))
}

// pauseWorkflowHandler handles POST /api/v1/workflows/:id/pause.
func (s *Server) pauseWorkflowHandler(c *gin.Context) {
	id := c.Param("id")
	if err := s.workflows.PauseWorkflow(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// resumeWorkflowHandler handles POST /api/v1/workflows/:id/resume: restarts
// the full pipeline from a Paused state (SPEC_FULL.md §4.11 "Resume").
func (s *Server) resumeWorkflowHandler(c *gin.Context) {
	id := c.Param("id")
	result, err := s.workflows.ResumeWorkflow(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRunWorkflowResponse(result))
}

func toWorkflowResponse(w *models.Workflow) WorkflowResponse {
	return WorkflowResponse{
		ID:              w.ID,
		ConferenceName:  w.ConferenceName,
		Status:          string(w.Status),
		CurrentStage:    w.CurrentStage,
		SpeakersCount:   w.SpeakersCount,
		SponsorsCount:   w.SponsorsCount,
		SideEventsCount: w.SideEventsCount,
		PostsScheduled:  w.PostsScheduled,
		FinalQAScore:    w.FinalQAScore,
		LastError:       w.LastError,
	}
}

func toRunWorkflowResponse(r *models.WorkflowResult) RunWorkflowResponse {
	return RunWorkflowResponse{
		WorkflowID:           r.WorkflowID,
		Status:               string(r.Status),
		StagesCompleted:      r.StagesCompleted,
		EntitiesCreated:      r.EntitiesCreated,
		SideEventsDiscovered: r.SideEventsDiscovered,
		SocialPostsScheduled: r.SocialPostsScheduled,
		FinalQAScore:         r.FinalQAScore,
		DurationMS:           r.DurationMS,
		Errors:               r.Errors,
	}
}
