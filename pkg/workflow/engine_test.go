package workflow

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/tarsy/pkg/config"
	"github.com/codeready-toolchain/tarsy/pkg/crawler"
	"github.com/codeready-toolchain/tarsy/pkg/events"
	"github.com/codeready-toolchain/tarsy/pkg/models"
	"github.com/codeready-toolchain/tarsy/pkg/orchestrator"
	"github.com/codeready-toolchain/tarsy/pkg/qa"
	"github.com/codeready-toolchain/tarsy/pkg/research"
	"github.com/codeready-toolchain/tarsy/pkg/social"
	"github.com/codeready-toolchain/tarsy/pkg/stages"
)

// memRepo is an in-memory Repository fixture for testing the engine without
// a database.
type memRepo struct {
	mu         sync.Mutex
	workflows  map[string]*models.Workflow
	entities   []*models.Entity
	sideEvents []*models.SideEvent
	artifacts  []*models.WorkflowArtifact
	tasks      []*models.Task
	qaRuns     []*models.QARun
}

func newMemRepo() *memRepo {
	return &memRepo{workflows: make(map[string]*models.Workflow)}
}

func (r *memRepo) CreateWorkflow(ctx context.Context, w *models.Workflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[w.ID] = w
	return nil
}
func (r *memRepo) UpdateStatus(ctx context.Context, id string, status models.WorkflowStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[id].Status = status
	return nil
}
func (r *memRepo) UpdateStage(ctx context.Context, id string, stage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[id].CurrentStage = stage
	return nil
}
func (r *memRepo) UpdateCounts(ctx context.Context, id string, speakers, sponsors, sideEvents int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.workflows[id]
	w.SpeakersCount, w.SponsorsCount, w.SideEventsCount = speakers, sponsors, sideEvents
	return nil
}
func (r *memRepo) UpdateQAResult(ctx context.Context, id string, score float64, qaRunID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.workflows[id]
	w.FinalQAScore = &score
	w.QARunID = qaRunID
	return nil
}
func (r *memRepo) RecordError(ctx context.Context, id string, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.workflows[id]
	w.LastError = errMsg
	w.ErrorCount++
	return nil
}
func (r *memRepo) MarkCompleted(ctx context.Context, id string) error {
	return r.UpdateStatus(ctx, id, models.WorkflowCompleted)
}
func (r *memRepo) IncrementPostsScheduled(ctx context.Context, id string, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[id].PostsScheduled += n
	return nil
}
func (r *memRepo) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workflows[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return w, nil
}
func (r *memRepo) FindEntitiesByBoard(ctx context.Context, boardID string) ([]*models.Entity, error) {
	return nil, nil
}
func (r *memRepo) SaveEntity(ctx context.Context, e *models.Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entities = append(r.entities, e)
	return nil
}
func (r *memRepo) SaveSideEvent(ctx context.Context, se *models.SideEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sideEvents = append(r.sideEvents, se)
	return nil
}
func (r *memRepo) CreateArtifact(ctx context.Context, a *models.WorkflowArtifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts = append(r.artifacts, a)
	return nil
}
func (r *memRepo) CreateTask(ctx context.Context, t *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, t)
	return nil
}
func (r *memRepo) CreateQARun(ctx context.Context, run *models.QARun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.qaRuns = append(r.qaRuns, run)
	return nil
}

type stubLLM struct{}

func (stubLLM) Complete(ctx context.Context, system, user string) (string, error) {
	return `{"title":"Test Article","body":"A fine conference awaits everyone involved.","social_caption":"Come join us","hashtags":["conf"]}`, nil
}

func buildTestEngine(t *testing.T, siteURL string) (*Engine, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	workflowCfg := config.DefaultWorkflowConfig()
	workflowCfg.MaxStageRetries = 1
	workflowCfg.QAApprovalThreshold = 0 // every stage result passes in this fixture
	crawlCfg := config.DefaultCrawlConfig()
	crawlCfg.RequestsPerSecond = 0
	crawlCfg.MaxPages = 5

	executor := stages.New(crawler.New(nil), research.New(), workflowCfg, crawlCfg)
	gate := qa.New(workflowCfg.QAApprovalThreshold)
	parallel := orchestrator.New(stubLLM{}, nil)
	scheduler := social.New()
	bus := events.NewBus()

	eng := New(repo, executor, gate, parallel, scheduler, bus, true, true)
	return eng, repo
}

func TestRunWorkflowEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><title>Home</title><body>
			<h3>Jane Doe</h3>
			<p>Jane Doe is a principal engineer speaking at the conference.</p>
		</body></html>`)
	}))
	defer srv.Close()

	eng, repo := buildTestEngine(t, srv.URL)

	w, err := eng.Initialize(context.Background(), "board-1", "project-1", models.ConferenceIntake{
		Name: "GopherCon", StartDate: "2026-09-10", EndDate: "2026-09-12", Website: srv.URL, Timezone: "UTC",
	})
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowPending, w.Status)

	result, err := eng.RunWorkflow(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Len(t, result.StagesCompleted, 6)
	assert.NotNil(t, result.FinalQAScore)

	assert.NotEmpty(t, repo.artifacts)
	assert.NotEmpty(t, repo.tasks)
	assert.NotEmpty(t, repo.qaRuns)
}

func TestRunWorkflowRejectsNonPendingNonPausedState(t *testing.T) {
	eng, repo := buildTestEngine(t, "")
	w := &models.Workflow{ID: "wf-1", Status: models.WorkflowCompleted}
	repo.workflows[w.ID] = w

	_, err := eng.RunWorkflow(context.Background(), w.ID)
	assert.Error(t, err)
}

func TestPauseWorkflowRejectsTerminalState(t *testing.T) {
	eng, repo := buildTestEngine(t, "")
	w := &models.Workflow{ID: "wf-1", Status: models.WorkflowCompleted}
	repo.workflows[w.ID] = w

	err := eng.PauseWorkflow(context.Background(), w.ID)
	assert.Error(t, err)
}

func TestResumeWorkflowRequiresPausedState(t *testing.T) {
	eng, repo := buildTestEngine(t, "")
	w := &models.Workflow{ID: "wf-1", Status: models.WorkflowPending}
	repo.workflows[w.ID] = w

	_, err := eng.ResumeWorkflow(context.Background(), w.ID)
	assert.Error(t, err)
}
