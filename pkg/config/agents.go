package config

import "github.com/codeready-toolchain/tarsy/pkg/models"

// AgentDescriptors converts the YAML agent registry into the Execution
// Router's runtime shape (SPEC_FULL.md §9 "Polymorphism" — agents and their
// workflows are data, not code).
func (c *Config) AgentDescriptors() []models.AgentDescriptor {
	out := make([]models.AgentDescriptor, 0, len(c.Agents))
	for _, a := range c.Agents {
		workflows := make([]models.WorkflowDescriptor, 0, len(a.Workflows))
		for _, w := range a.Workflows {
			stages := make([]models.StageDescriptor, 0, len(w.Stages))
			for _, st := range w.Stages {
				stages = append(stages, models.StageDescriptor{
					Name:        st.Name,
					Description: st.Description,
					Output:      st.Output,
				})
			}
			workflows = append(workflows, models.WorkflowDescriptor{
				ID:     w.ID,
				Name:   w.Name,
				Stages: stages,
			})
		}
		out = append(out, models.AgentDescriptor{
			ID:             a.ID,
			Codename:       a.Codename,
			PriorityWeight: a.PriorityWeight,
			Workflows:      workflows,
		})
	}
	return out
}
