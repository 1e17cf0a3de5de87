package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/tarsy/pkg/models"
)

func fixtureAgents() []models.AgentDescriptor {
	return []models.AgentDescriptor{
		{
			ID: "scout-research", Codename: "Scout", PriorityWeight: 0.5,
			Workflows: []models.WorkflowDescriptor{
				{ID: "wf-research", Name: "conference research", Stages: []models.StageDescriptor{
					{Name: "conference_intelligence", Description: "crawl the conference site"},
				}},
			},
		},
		{
			ID: "muse-creative", Codename: "Muse", PriorityWeight: 0.9,
			Workflows: []models.WorkflowDescriptor{
				{ID: "wf-content", Name: "article authoring", Stages: []models.StageDescriptor{
					{Name: "write_article", Description: "draft speaker and sponsor articles"},
				}},
			},
		},
	}
}

func TestRouteExactAgentAndWorkflow(t *testing.T) {
	r := New(fixtureAgents())
	m, err := r.Route(models.ExecutionRequest{AgentRef: "scout-research", WorkflowID: "wf-research"})
	require.NoError(t, err)
	assert.Equal(t, "scout-research", m.Agent.ID)
	assert.Equal(t, 1.0, m.Confidence)
}

func TestRouteAgentByCodenameDefaultsToFirstWorkflow(t *testing.T) {
	r := New(fixtureAgents())
	m, err := r.Route(models.ExecutionRequest{AgentRef: "Muse"})
	require.NoError(t, err)
	assert.Equal(t, "muse-creative", m.Agent.ID)
	assert.Equal(t, "wf-content", m.Workflow.ID)
}

func TestRouteFreeTextScoring(t *testing.T) {
	r := New(fixtureAgents())
	m, err := r.Route(models.ExecutionRequest{FreeText: "please draft speaker and sponsor articles for the conference"})
	require.NoError(t, err)
	assert.Equal(t, "muse-creative", m.Agent.ID)
}

func TestRouteNoMatchFails(t *testing.T) {
	r := New(fixtureAgents())
	_, err := r.Route(models.ExecutionRequest{AgentRef: "nonexistent"})
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestRouteFreeTextTieBrokenByPriorityWeight(t *testing.T) {
	agents := []models.AgentDescriptor{
		{ID: "a", Codename: "Alpha", PriorityWeight: 0.1, Workflows: []models.WorkflowDescriptor{
			{ID: "wf-a", Name: "shared", Stages: nil},
		}},
		{ID: "b", Codename: "Beta", PriorityWeight: 0.9, Workflows: []models.WorkflowDescriptor{
			{ID: "wf-b", Name: "shared", Stages: nil},
		}},
	}
	r := New(agents)
	m, err := r.Route(models.ExecutionRequest{FreeText: "shared workflow request"})
	require.NoError(t, err)
	assert.Equal(t, "b", m.Agent.ID)
}
