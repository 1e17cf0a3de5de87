// Package social implements the Social Scheduler (SPEC_FULL.md §4.10):
// converts a research context and the parallel orchestrator's content
// results into scheduled social posts.
package social

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/codeready-toolchain/tarsy/pkg/models"
	"github.com/codeready-toolchain/tarsy/pkg/orchestrator"
)

// maxEntityPosts bounds how many per-entity posts are scheduled alongside
// the per-article posts (SPEC_FULL.md §4.10: "bounded").
const maxEntityPosts = 5

// SocialPost is one scheduled post, persisted through the Persistence
// Adapter.
type SocialPost struct {
	WorkflowID    string
	Caption       string
	Hashtags      []string
	ScheduledAt   time.Time
	ReviewBy      time.Time
	SourceArticle orchestrator.ArticleType
	SourceEntity  string
}

// Scheduler computes scheduled times relative to a conference's start date
// and produces the post list.
type Scheduler struct {
	parser cron.Parser
}

// New builds a Scheduler. cron.Parser resolves the 10:00 posting time by
// parsing a daily cron expression and taking its next firing on the posting
// day; no recurring schedule is run — each post gets one computed instant.
func New() *Scheduler {
	return &Scheduler{parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)}
}

// CreatePostsForWorkflow produces a scheduled post per article and per key
// entity, bounded, with captions derived from the research context
// (SPEC_FULL.md §4.10).
func (s *Scheduler) CreatePostsForWorkflow(workflow *models.Workflow, rc *models.ResearchContext, content orchestrator.ContentResult) ([]SocialPost, error) {
	postDeadline, reviewDeadline, err := s.deadlines(workflow)
	if err != nil {
		return nil, err
	}

	var posts []SocialPost
	for _, article := range content.Articles {
		posts = append(posts, SocialPost{
			WorkflowID:    workflow.ID,
			Caption:       article.SocialCaption,
			Hashtags:      article.Hashtags,
			ScheduledAt:   postDeadline,
			ReviewBy:      reviewDeadline,
			SourceArticle: article.ArticleType,
		})
	}

	speakers := rc.EntitiesByType(models.EntitySpeaker)
	for i, e := range speakers {
		if i >= maxEntityPosts {
			break
		}
		posts = append(posts, SocialPost{
			WorkflowID:   workflow.ID,
			Caption:      fmt.Sprintf("Don't miss %s at %s!", e.CanonicalName, workflow.ConferenceName),
			ScheduledAt:  postDeadline,
			ReviewBy:     reviewDeadline,
			SourceEntity: e.CanonicalName,
		})
	}

	return posts, nil
}

// deadlines computes the post deadline (start_date - 2 days at 10:00 in the
// workflow's timezone, or UTC) and the review deadline (start_date - 1 day),
// per SPEC_FULL.md §4.10.
func (s *Scheduler) deadlines(workflow *models.Workflow) (postDeadline, reviewDeadline time.Time, err error) {
	loc := time.UTC
	if workflow.Timezone != "" {
		if l, lerr := time.LoadLocation(workflow.Timezone); lerr == nil {
			loc = l
		}
	}

	start, err := time.ParseInLocation("2006-01-02", workflow.StartDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("social scheduler: invalid start date %q: %w", workflow.StartDate, err)
	}

	postDay := start.AddDate(0, 0, -2)
	reviewDeadline = start.AddDate(0, 0, -1)

	// "at 10:00" is expressed as a cron schedule and resolved against the
	// instant just before midnight of postDay, rather than constructing the
	// time.Date by hand, so the posting-time convention lives in one place
	// if it ever needs to become configurable.
	tenAM, err := s.parser.Parse("0 10 * * *")
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("social scheduler: parse posting schedule: %w", err)
	}
	dayStart := time.Date(postDay.Year(), postDay.Month(), postDay.Day(), 0, 0, 0, 0, loc)
	postDeadline = tenAM.Next(dayStart.Add(-time.Second))

	return postDeadline, reviewDeadline, nil
}
