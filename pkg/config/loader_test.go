package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Workflow.ParallelismLimit)
	assert.Equal(t, 0.8, cfg.Workflow.QAApprovalThreshold)
	assert.Equal(t, 200, cfg.Crawl.MaxPages)
	assert.Equal(t, 4, cfg.Crawl.MaxDepth)
}

func TestLoadMergesYAMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workflow:
  parallelism_limit: 9
crawl:
  max_pages: 50
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Workflow.ParallelismLimit)
	assert.Equal(t, 50, cfg.Crawl.MaxPages)
	// Untouched defaults survive the merge.
	assert.Equal(t, 0.8, cfg.Workflow.QAApprovalThreshold)
	assert.Equal(t, 4, cfg.Crawl.MaxDepth)
}

func TestLoadEnvOverridesWinOverYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workflow:
  parallelism_limit: 9
`), 0o600))

	t.Setenv("PARALLELISM_LIMIT", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workflow.ParallelismLimit)
}

func TestValidateRejectsOutOfRangeThreshold(t *testing.T) {
	cfg := &Config{Workflow: WorkflowConfig{ParallelismLimit: 1, QAApprovalThreshold: 1.5}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qa_approval_threshold")
}

func TestFindAgentByCodenameOrID(t *testing.T) {
	cfg := &Config{Agents: []AgentDescriptorConfig{
		{ID: "scout-research", Codename: "Scout"},
	}}
	_, ok := cfg.FindAgent("Scout")
	assert.True(t, ok)
	_, ok = cfg.FindAgent("scout-research")
	assert.True(t, ok)
	_, ok = cfg.FindAgent("missing")
	assert.False(t, ok)
}
