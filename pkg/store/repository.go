package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/codeready-toolchain/tarsy/pkg/models"
)

// Store implements workflow.Repository against the schema in
// migrations/0001_init.up.sql.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open Client's *sql.DB as a Store.
func NewStore(c *Client) *Store {
	return &Store{db: c.db}
}

func (s *Store) CreateWorkflow(ctx context.Context, w *models.Workflow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workflows (id, board_id, project_id, conference_name, start_date, end_date,
			location, timezone, website, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		w.ID, w.BoardID, w.ProjectID, w.ConferenceName, w.StartDate, w.EndDate,
		w.Location, w.Timezone, w.Website, string(w.Status), w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("store: create workflow: %w", err)
	}
	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, workflowID string, status models.WorkflowStatus) error {
	_, err := s.db.ExecContext(ctx, `UPDATE workflows SET status=$1, updated_at=now() WHERE id=$2`, string(status), workflowID)
	return wrapExec(err, "update status")
}

func (s *Store) UpdateStage(ctx context.Context, workflowID string, stage string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE workflows SET current_stage=$1, updated_at=now() WHERE id=$2`, stage, workflowID)
	return wrapExec(err, "update stage")
}

func (s *Store) UpdateCounts(ctx context.Context, workflowID string, speakers, sponsors, sideEvents int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE workflows SET speakers_count=$1, sponsors_count=$2, side_events_count=$3, updated_at=now()
		WHERE id=$4`, speakers, sponsors, sideEvents, workflowID)
	return wrapExec(err, "update counts")
}

func (s *Store) UpdateQAResult(ctx context.Context, workflowID string, score float64, qaRunID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE workflows SET final_qa_score=$1, qa_run_id=$2, updated_at=now() WHERE id=$3`,
		score, qaRunID, workflowID)
	return wrapExec(err, "update qa result")
}

func (s *Store) RecordError(ctx context.Context, workflowID string, errMsg string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE workflows SET last_error=$1, error_count=error_count+1, updated_at=now() WHERE id=$2`,
		errMsg, workflowID)
	return wrapExec(err, "record error")
}

func (s *Store) MarkCompleted(ctx context.Context, workflowID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE workflows SET status=$1, completed_at=now(), updated_at=now() WHERE id=$2`,
		string(models.WorkflowCompleted), workflowID)
	return wrapExec(err, "mark completed")
}

func (s *Store) IncrementPostsScheduled(ctx context.Context, workflowID string, n int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE workflows SET posts_scheduled=posts_scheduled+$1, updated_at=now() WHERE id=$2`, n, workflowID)
	return wrapExec(err, "increment posts scheduled")
}

func (s *Store) GetWorkflow(ctx context.Context, workflowID string) (*models.Workflow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, board_id, project_id, conference_name, start_date, end_date, location, timezone,
			website, status, current_stage, error_count, last_error, speakers_count, sponsors_count,
			side_events_count, posts_scheduled, final_qa_score, qa_run_id, created_at, updated_at, completed_at
		FROM workflows WHERE id=$1`, workflowID)

	var w models.Workflow
	var status string
	var qaRunID sql.NullString
	var finalScore sql.NullFloat64
	var completedAt sql.NullTime
	err := row.Scan(&w.ID, &w.BoardID, &w.ProjectID, &w.ConferenceName, &w.StartDate, &w.EndDate,
		&w.Location, &w.Timezone, &w.Website, &status, &w.CurrentStage, &w.ErrorCount, &w.LastError,
		&w.SpeakersCount, &w.SponsorsCount, &w.SideEventsCount, &w.PostsScheduled,
		&finalScore, &qaRunID, &w.CreatedAt, &w.UpdatedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: workflow %s not found", workflowID)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get workflow: %w", err)
	}
	w.Status = models.WorkflowStatus(status)
	if finalScore.Valid {
		w.FinalQAScore = &finalScore.Float64
	}
	if qaRunID.Valid {
		w.QARunID = qaRunID.String
	}
	if completedAt.Valid {
		w.CompletedAt = &completedAt.Time
	}
	return &w, nil
}

func (s *Store) FindEntitiesByBoard(ctx context.Context, boardID string) ([]*models.Entity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, board_id, entity_type, canonical_name, title, company, bio, photo_url,
			linkedin_url, twitter_handle, website, sponsorship_tier, data_completeness, data_sources,
			created_at, updated_at
		FROM entities WHERE board_id=$1`, boardID)
	if err != nil {
		return nil, fmt.Errorf("store: find entities by board: %w", err)
	}
	defer rows.Close()

	var out []*models.Entity
	for rows.Next() {
		var e models.Entity
		var entityType string
		var sources pq.StringArray
		if err := rows.Scan(&e.ID, &e.BoardID, &entityType, &e.CanonicalName, &e.Title, &e.Company,
			&e.Bio, &e.PhotoURL, &e.LinkedInURL, &e.TwitterHandle, &e.Website, &e.SponsorshipTier,
			&e.DataCompleteness, &sources, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan entity: %w", err)
		}
		e.EntityType = models.EntityType(entityType)
		for _, src := range sources {
			e.DataSources = append(e.DataSources, models.DataSource(src))
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (s *Store) SaveEntity(ctx context.Context, e *models.Entity) error {
	sources := make(pq.StringArray, len(e.DataSources))
	for i, src := range e.DataSources {
		sources[i] = string(src)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entities (id, board_id, entity_type, canonical_name, title, company, bio,
			photo_url, linkedin_url, twitter_handle, website, sponsorship_tier, data_completeness,
			data_sources, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now(),now())
		ON CONFLICT (board_id, entity_type, canonical_name) DO UPDATE SET
			title=EXCLUDED.title, company=EXCLUDED.company, bio=EXCLUDED.bio,
			photo_url=EXCLUDED.photo_url, linkedin_url=EXCLUDED.linkedin_url,
			twitter_handle=EXCLUDED.twitter_handle, website=EXCLUDED.website,
			sponsorship_tier=EXCLUDED.sponsorship_tier, data_completeness=EXCLUDED.data_completeness,
			data_sources=EXCLUDED.data_sources, updated_at=now()`,
		e.ID, e.BoardID, string(e.EntityType), e.CanonicalName, e.Title, e.Company, e.Bio,
		e.PhotoURL, e.LinkedInURL, e.TwitterHandle, e.Website, e.SponsorshipTier, e.DataCompleteness, sources,
	)
	if err != nil {
		return fmt.Errorf("store: save entity: %w", err)
	}
	return nil
}

func (s *Store) SaveSideEvent(ctx context.Context, se *models.SideEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO side_events (id, board_id, name, event_date, venue_name, url, description, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now())`,
		se.ID, se.BoardID, se.Name, se.EventDate, se.VenueName, se.URL, se.Description,
	)
	if err != nil {
		return fmt.Errorf("store: save side event: %w", err)
	}
	return nil
}

func (s *Store) CreateArtifact(ctx context.Context, a *models.WorkflowArtifact) error {
	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		return fmt.Errorf("store: marshal artifact metadata: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workflow_artifacts (id, workflow_id, artifact_type, title, content, file_url, metadata, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now())`,
		a.ID, a.WorkflowID, string(a.ArtifactType), a.Title, a.Content, a.FileURL, metadata,
	)
	if err != nil {
		return fmt.Errorf("store: create artifact: %w", err)
	}
	return nil
}

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	custom, err := json.Marshal(t.CustomProperties)
	if err != nil {
		return fmt.Errorf("store: marshal task custom properties: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, project_id, board_id, title, description, priority, assigned_agent,
			requires_approval, tags, due_date, scheduled_start, scheduled_end, custom_properties, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now())`,
		t.ID, t.ProjectID, t.BoardID, t.Title, t.Description, string(t.Priority), t.AssignedAgent,
		t.RequiresApproval, pq.StringArray(t.Tags), t.DueDate, t.ScheduledStart, t.ScheduledEnd, custom,
	)
	if err != nil {
		return fmt.Errorf("store: create task: %w", err)
	}
	return nil
}

func (s *Store) CreateQARun(ctx context.Context, run *models.QARun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO qa_runs (id, workflow_id, stage_name, overall_score, decision, escalation_reason, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now())`,
		run.ID, run.WorkflowID, run.StageName, run.OverallScore, string(run.Decision),
		run.EscalationReason, run.Notes,
	)
	if err != nil {
		return fmt.Errorf("store: create qa run: %w", err)
	}
	return nil
}

func wrapExec(err error, op string) error {
	if err != nil {
		return fmt.Errorf("store: %s: %w", op, err)
	}
	return nil
}

