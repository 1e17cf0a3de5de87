package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/tarsy/pkg/models"
	"github.com/codeready-toolchain/tarsy/pkg/orchestrator"
	"github.com/codeready-toolchain/tarsy/pkg/social"
)

// persistCreationArtifacts stores every article, thumbnail, and social
// graphic as both an artifact and a mirroring task, per the pairing rules
// of SPEC_FULL.md §4.12. Persistence errors are accumulated, not fatal
// (SPEC_FULL.md §4.11 step 4).
func (e *Engine) persistCreationArtifacts(ctx context.Context, w *models.Workflow, content orchestrator.ContentResult, graphics orchestrator.GraphicsResult) error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	startDate, dateErr := time.Parse("2006-01-02", w.StartDate)
	hasDate := dateErr == nil

	for _, article := range content.Articles {
		artifact := &models.WorkflowArtifact{
			ID: uuid.NewString(), WorkflowID: w.ID, ArtifactType: models.ArtifactArticle,
			Title:   article.Title,
			Content: article.Body,
			Metadata: map[string]any{
				"article_type":   article.ArticleType,
				"agent_id":       article.AgentID,
				"social_caption": article.SocialCaption,
				"hashtags":       article.Hashtags,
				"slug":           orchestrator.Slugify(article.Title),
			},
			CreatedAt: time.Now(),
		}
		record(e.repo.CreateArtifact(ctx, artifact))

		task := &models.Task{
			ID: uuid.NewString(), ProjectID: w.ProjectID, BoardID: w.BoardID,
			Title:            fmt.Sprintf("Review article: %s", article.Title),
			Description:      fmt.Sprintf("Review generated article (artifact %s): %s", artifact.ID, preview(article.Body)),
			Priority:         models.PriorityHigh,
			AssignedAgent:    "muse-creative",
			RequiresApproval: true,
			Tags:             []string{"article", "review", w.ConferenceName},
			CustomProperties: map[string]any{"artifact_id": artifact.ID},
			CreatedAt:        time.Now(),
		}
		if hasDate {
			due := startDate.AddDate(0, 0, -1)
			scheduledStart := startDate.AddDate(0, 0, -2)
			task.DueDate = &due
			task.ScheduledStart = &scheduledStart
			task.ScheduledEnd = &due
		}
		record(e.repo.CreateTask(ctx, task))
	}

	for _, thumb := range graphics.Thumbnails {
		artifact := &models.WorkflowArtifact{
			ID: uuid.NewString(), WorkflowID: w.ID, ArtifactType: models.ArtifactThumbnail,
			Title:     fmt.Sprintf("%s thumbnail", thumb.ArticleType),
			FileURL:   thumb.FileURL,
			Metadata:  map[string]any{"article_type": thumb.ArticleType, "from_real_asset": thumb.FromAsset},
			CreatedAt: time.Now(),
		}
		record(e.repo.CreateArtifact(ctx, artifact))
		record(e.repo.CreateTask(ctx, publishTask(w, artifact, hasDate, startDate, "thumbnail")))
	}

	if graphics.SocialGraphic != nil {
		artifact := &models.WorkflowArtifact{
			ID: uuid.NewString(), WorkflowID: w.ID, ArtifactType: models.ArtifactSocialGraphic,
			Title:     "Social promotion graphic",
			FileURL:   graphics.SocialGraphic.FileURL,
			CreatedAt: time.Now(),
		}
		record(e.repo.CreateArtifact(ctx, artifact))
		// spec.md's invariant in §8 (every article/thumbnail/social_post/
		// social_graphic artifact has exactly one task) governs here, unlike
		// the narrower Rust original which skips a task for social_graphic
		// (see DESIGN.md).
		record(e.repo.CreateTask(ctx, publishTask(w, artifact, hasDate, startDate, "social_graphic")))
	}

	return firstErr
}

// publishTask builds the publish task for a thumbnail or social_graphic
// artifact: priority Medium, requires_approval false, due start-2d, assigned
// graphics-coordinator (SPEC_FULL.md §4.12).
func publishTask(w *models.Workflow, artifact *models.WorkflowArtifact, hasDate bool, startDate time.Time, tag string) *models.Task {
	task := &models.Task{
		ID: uuid.NewString(), ProjectID: w.ProjectID, BoardID: w.BoardID,
		Title:            fmt.Sprintf("Publish %s", artifact.Title),
		Description:      fmt.Sprintf("Publish generated %s (artifact %s)", tag, artifact.ID),
		Priority:         models.PriorityMedium,
		AssignedAgent:    "graphics-coordinator",
		RequiresApproval: false,
		Tags:             []string{tag, "graphics", w.ConferenceName},
		CustomProperties: map[string]any{"artifact_id": artifact.ID},
		CreatedAt:        time.Now(),
	}
	if hasDate {
		due := startDate.AddDate(0, 0, -2)
		task.DueDate = &due
	}
	return task
}

// persistSocialPosts stores each scheduled post as a social_post artifact
// paired with a post task (SPEC_FULL.md §4.12).
func (e *Engine) persistSocialPosts(ctx context.Context, w *models.Workflow, posts []social.SocialPost) error {
	var firstErr error
	for _, p := range posts {
		artifact := &models.WorkflowArtifact{
			ID: uuid.NewString(), WorkflowID: w.ID, ArtifactType: models.ArtifactSocialPost,
			Title:   fmt.Sprintf("Social post: %s", preview(p.Caption)),
			Content: p.Caption,
			Metadata: map[string]any{
				"hashtags":       p.Hashtags,
				"scheduled_at":   p.ScheduledAt,
				"source_article": p.SourceArticle,
				"source_entity":  p.SourceEntity,
			},
			CreatedAt: time.Now(),
		}
		if err := e.repo.CreateArtifact(ctx, artifact); err != nil && firstErr == nil {
			firstErr = err
		}

		due := p.ScheduledAt
		task := &models.Task{
			ID: uuid.NewString(), ProjectID: w.ProjectID, BoardID: w.BoardID,
			Title:            fmt.Sprintf("Post: %s", preview(p.Caption)),
			Description:      fmt.Sprintf("Publish scheduled social post (artifact %s)", artifact.ID),
			Priority:         models.PriorityMedium,
			AssignedAgent:    "social-manager",
			DueDate:          &due,
			Tags:             []string{"social", "post", w.ConferenceName},
			CustomProperties: map[string]any{"artifact_id": artifact.ID},
			CreatedAt:        time.Now(),
		}
		if err := e.repo.CreateTask(ctx, task); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func preview(s string) string {
	const max = 80
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
