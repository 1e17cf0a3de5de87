// Package execution implements the Artifact Store and Execution Engine
// (SPEC_FULL.md §4.2, §4.8): a generic stage driver that routes a request,
// executes each stage in turn, stores artifacts, and emits events.
package execution

import (
	"sync"

	"github.com/codeready-toolchain/tarsy/pkg/models"
)

// ArtifactStore is keyed by (execution_id, artifact_id); append-only within
// an execution (SPEC_FULL.md §4.2).
type ArtifactStore struct {
	mu        sync.RWMutex
	byExec    map[string][]models.WorkflowArtifact
	stageByExec map[string]map[int]models.WorkflowArtifact
}

// NewArtifactStore builds an empty in-memory artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{
		byExec:      make(map[string][]models.WorkflowArtifact),
		stageByExec: make(map[string]map[int]models.WorkflowArtifact),
	}
}

// Store appends artifact to executionID's history. If stageIndex >= 0 the
// artifact is additionally indexed as that stage's output for
// GetAllStageOutputs.
func (s *ArtifactStore) Store(executionID string, artifact models.WorkflowArtifact, stageIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byExec[executionID] = append(s.byExec[executionID], artifact)
	if stageIndex >= 0 {
		if s.stageByExec[executionID] == nil {
			s.stageByExec[executionID] = make(map[int]models.WorkflowArtifact)
		}
		s.stageByExec[executionID][stageIndex] = artifact
	}
}

// GetByExecution returns executionID's artifacts in storage order.
func (s *ArtifactStore) GetByExecution(executionID string) []models.WorkflowArtifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WorkflowArtifact, len(s.byExec[executionID]))
	copy(out, s.byExec[executionID])
	return out
}

// Count reports how many artifacts executionID has accumulated.
func (s *ArtifactStore) Count(executionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byExec[executionID])
}

// GetAllStageOutputs reconstructs the ordered history of per-stage outputs
// for executionID, keyed by stage index, so a later stage may read an
// earlier one (SPEC_FULL.md §4.2).
func (s *ArtifactStore) GetAllStageOutputs(executionID string) map[int]models.WorkflowArtifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]models.WorkflowArtifact, len(s.stageByExec[executionID]))
	for k, v := range s.stageByExec[executionID] {
		out[k] = v
	}
	return out
}
