package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/tarsy/pkg/config"
	"github.com/codeready-toolchain/tarsy/pkg/crawler"
	"github.com/codeready-toolchain/tarsy/pkg/events"
	"github.com/codeready-toolchain/tarsy/pkg/execution"
	"github.com/codeready-toolchain/tarsy/pkg/models"
	"github.com/codeready-toolchain/tarsy/pkg/orchestrator"
	"github.com/codeready-toolchain/tarsy/pkg/qa"
	"github.com/codeready-toolchain/tarsy/pkg/research"
	"github.com/codeready-toolchain/tarsy/pkg/router"
	"github.com/codeready-toolchain/tarsy/pkg/social"
	"github.com/codeready-toolchain/tarsy/pkg/stages"
	"github.com/codeready-toolchain/tarsy/pkg/workflow"
)

type memRepo struct {
	workflows map[string]*models.Workflow
}

func newMemRepo() *memRepo { return &memRepo{workflows: make(map[string]*models.Workflow)} }

func (r *memRepo) CreateWorkflow(ctx context.Context, w *models.Workflow) error {
	r.workflows[w.ID] = w
	return nil
}
func (r *memRepo) UpdateStatus(ctx context.Context, id string, status models.WorkflowStatus) error {
	r.workflows[id].Status = status
	return nil
}
func (r *memRepo) UpdateStage(ctx context.Context, id, stage string) error {
	r.workflows[id].CurrentStage = stage
	return nil
}
func (r *memRepo) UpdateCounts(ctx context.Context, id string, speakers, sponsors, sideEvents int) error {
	return nil
}
func (r *memRepo) UpdateQAResult(ctx context.Context, id string, score float64, qaRunID string) error {
	return nil
}
func (r *memRepo) RecordError(ctx context.Context, id, errMsg string) error       { return nil }
func (r *memRepo) MarkCompleted(ctx context.Context, id string) error             { return nil }
func (r *memRepo) IncrementPostsScheduled(ctx context.Context, id string, n int) error {
	return nil
}
func (r *memRepo) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	w, ok := r.workflows[id]
	if !ok {
		return nil, fmt.Errorf("workflow %s not found", id)
	}
	return w, nil
}
func (r *memRepo) FindEntitiesByBoard(ctx context.Context, boardID string) ([]*models.Entity, error) {
	return nil, nil
}
func (r *memRepo) SaveEntity(ctx context.Context, e *models.Entity) error         { return nil }
func (r *memRepo) SaveSideEvent(ctx context.Context, se *models.SideEvent) error  { return nil }
func (r *memRepo) CreateArtifact(ctx context.Context, a *models.WorkflowArtifact) error {
	return nil
}
func (r *memRepo) CreateTask(ctx context.Context, t *models.Task) error { return nil }
func (r *memRepo) CreateQARun(ctx context.Context, run *models.QARun) error {
	return nil
}

type stubLLM struct{}

func (stubLLM) Complete(ctx context.Context, system, user string) (string, error) {
	return `{"title":"T","body":"A conference body long enough to pass fallback checks.","social_caption":"c","hashtags":["x"]}`, nil
}

func buildTestServer(t *testing.T) (*Server, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	workflowCfg := config.DefaultWorkflowConfig()
	crawlCfg := config.DefaultCrawlConfig()
	crawlCfg.RequestsPerSecond = 0

	executor := stages.New(crawler.New(nil), research.New(), workflowCfg, crawlCfg)
	gate := qa.New(workflowCfg.QAApprovalThreshold)
	parallel := orchestrator.New(stubLLM{}, nil)
	scheduler := social.New()
	bus := events.NewBus()
	wfEngine := workflow.New(repo, executor, gate, parallel, scheduler, bus, true, true)

	rtr := router.New(nil)
	execEngine := execution.New(rtr, execution.NewArtifactStore(), bus, nil, nil)

	return NewServer(wfEngine, execEngine, bus, nil), repo
}

func TestHealthHandlerReportsHealthyWithNoCheck(t *testing.T) {
	srv, _ := buildTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInitializeHandlerRejectsMissingFields(t *testing.T) {
	srv, _ := buildTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workflows", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInitializeHandlerCreatesWorkflow(t *testing.T) {
	srv, repo := buildTestServer(t)
	body := `{"board_id":"b1","project_id":"p1","name":"GopherCon","start_date":"2026-09-10","end_date":"2026-09-12","website":"https://example.com","timezone":"UTC"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workflows", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, repo.workflows, 1)
}

func TestGetStatusHandlerReturnsNotFoundForUnknownID(t *testing.T) {
	srv, _ := buildTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workflows/missing", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
