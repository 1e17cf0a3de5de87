// Package router implements the Execution Router (SPEC_FULL.md §4.7):
// maps a request (agent ref or free-text) to an (agent, workflow) pair.
package router

import (
	"errors"
	"strings"

	"github.com/codeready-toolchain/tarsy/pkg/models"
)

// ErrNoRoute is returned when no agent/workflow pair matches the request.
var ErrNoRoute = errors.New("router: no matching agent/workflow for request")

// AgentMatch is the router's resolved target (SPEC_FULL.md §4.7).
type AgentMatch struct {
	Agent      models.AgentDescriptor
	Workflow   models.WorkflowDescriptor
	Confidence float64
	Reasons    []string
}

// Router resolves ExecutionRequests against a registry of agents.
type Router struct {
	agents []models.AgentDescriptor
}

// New builds a Router over the given agent registry.
func New(agents []models.AgentDescriptor) *Router {
	return &Router{agents: agents}
}

// Route implements the three-tier resolution order of SPEC_FULL.md §4.7.
func (r *Router) Route(req models.ExecutionRequest) (AgentMatch, error) {
	// (a) exact agent id + workflow id.
	if req.AgentRef != "" && req.WorkflowID != "" {
		for _, a := range r.agents {
			if a.ID != req.AgentRef {
				continue
			}
			for _, w := range a.Workflows {
				if w.ID == req.WorkflowID {
					return AgentMatch{
						Agent: a, Workflow: w, Confidence: 1.0,
						Reasons: []string{"exact agent id and workflow id match"},
					}, nil
				}
			}
		}
	}

	// (b) agent by codename or id, first workflow unless a workflow id given.
	if req.AgentRef != "" {
		for _, a := range r.agents {
			if a.ID != req.AgentRef && !strings.EqualFold(a.Codename, req.AgentRef) {
				continue
			}
			if req.WorkflowID != "" {
				for _, w := range a.Workflows {
					if w.ID == req.WorkflowID {
						return AgentMatch{
							Agent: a, Workflow: w, Confidence: 0.9,
							Reasons: []string{"agent matched by codename/id, workflow id given"},
						}, nil
					}
				}
				continue
			}
			if len(a.Workflows) == 0 {
				continue
			}
			return AgentMatch{
				Agent: a, Workflow: a.Workflows[0], Confidence: 0.8,
				Reasons: []string{"agent matched by codename/id, defaulted to first workflow"},
			}, nil
		}
	}

	// (c) free-text scoring over all (agent, workflow) pairs, ties broken
	// by agent priority_weight.
	if req.FreeText != "" {
		best, bestScore, found := AgentMatch{}, -1.0, false
		for _, a := range r.agents {
			for _, w := range a.Workflows {
				score := scoreFreeText(req.FreeText, a, w)
				if score <= 0 {
					continue
				}
				if !found || score > bestScore ||
					(score == bestScore && a.PriorityWeight > best.Agent.PriorityWeight) {
					best = AgentMatch{
						Agent: a, Workflow: w, Confidence: score,
						Reasons: []string{"free-text match scored against agent/workflow descriptors"},
					}
					bestScore = score
					found = true
				}
			}
		}
		if found {
			return best, nil
		}
	}

	return AgentMatch{}, ErrNoRoute
}

// scoreFreeText returns a [0,1] relevance score of text against the agent's
// codename and the workflow's name/stage descriptions.
func scoreFreeText(text string, a models.AgentDescriptor, w models.WorkflowDescriptor) float64 {
	lower := strings.ToLower(text)
	var hits, total float64

	total++
	if strings.Contains(lower, strings.ToLower(a.Codename)) {
		hits++
	}
	total++
	if strings.Contains(lower, strings.ToLower(w.Name)) {
		hits++
	}
	for _, s := range w.Stages {
		total++
		if strings.Contains(lower, strings.ToLower(s.Name)) || strings.Contains(lower, strings.ToLower(s.Description)) {
			hits++
		}
	}
	if total == 0 {
		return 0
	}
	return hits / total
}
