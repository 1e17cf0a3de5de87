package config

import "fmt"

// Validate checks cross-field invariants that yaml tags alone can't express,
// matching the teacher's pkg/config/validator.go approach of returning one
// wrapped error describing the first problem found.
func (c *Config) Validate() error {
	if c.Workflow.ParallelismLimit < 1 {
		return fmt.Errorf("config: workflow.parallelism_limit must be >= 1, got %d", c.Workflow.ParallelismLimit)
	}
	if c.Workflow.QAApprovalThreshold < 0 || c.Workflow.QAApprovalThreshold > 1 {
		return fmt.Errorf("config: workflow.qa_approval_threshold must be in [0,1], got %f", c.Workflow.QAApprovalThreshold)
	}
	if c.Workflow.MaxStageRetries < 0 {
		return fmt.Errorf("config: workflow.max_stage_retries must be >= 0, got %d", c.Workflow.MaxStageRetries)
	}
	if c.Crawl.MaxPages < 0 {
		return fmt.Errorf("config: crawl.max_pages must be >= 0, got %d", c.Crawl.MaxPages)
	}
	if c.Crawl.MaxDepth < 0 {
		return fmt.Errorf("config: crawl.max_depth must be >= 0, got %d", c.Crawl.MaxDepth)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns && c.Database.MaxOpenConns > 0 {
		return fmt.Errorf("config: database.max_idle_conns (%d) cannot exceed max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	return nil
}

// FindAgent returns the registered agent with the given id or codename.
func (c *Config) FindAgent(ref string) (AgentDescriptorConfig, bool) {
	for _, a := range c.Agents {
		if a.ID == ref || a.Codename == ref {
			return a, true
		}
	}
	return AgentDescriptorConfig{}, false
}
