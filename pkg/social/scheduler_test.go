package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/tarsy/pkg/models"
	"github.com/codeready-toolchain/tarsy/pkg/orchestrator"
)

func fixtureWorkflow() *models.Workflow {
	return &models.Workflow{
		ID: "wf-1", ConferenceName: "GopherCon", StartDate: "2026-09-10", Timezone: "UTC",
	}
}

func TestDeadlinesComputedRelativeToStartDate(t *testing.T) {
	s := New()
	post, review, err := s.deadlines(fixtureWorkflow())
	require.NoError(t, err)

	assert.Equal(t, "2026-09-08", post.Format("2006-01-02"))
	assert.Equal(t, 10, post.Hour())
	assert.Equal(t, "2026-09-09", review.Format("2006-01-02"))
}

func TestDeadlinesRejectsInvalidStartDate(t *testing.T) {
	s := New()
	_, _, err := s.deadlines(&models.Workflow{StartDate: "not-a-date"})
	assert.Error(t, err)
}

func TestCreatePostsForWorkflowIncludesArticlesAndEntities(t *testing.T) {
	s := New()
	workflow := fixtureWorkflow()
	rc := models.NewResearchContext("GopherCon", "gophercon.example", nil)
	rc.MergeEntity(&models.Entity{EntityType: models.EntitySpeaker, CanonicalName: "Jane Doe"})

	content := orchestrator.ContentResult{
		Articles: []orchestrator.Article{
			{ArticleType: orchestrator.ArticleSpeakers, SocialCaption: "Don't miss it", Hashtags: []string{"go"}},
		},
	}

	posts, err := s.CreatePostsForWorkflow(workflow, rc, content)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, orchestrator.ArticleSpeakers, posts[0].SourceArticle)
	assert.Equal(t, "Jane Doe", posts[1].SourceEntity)
}

func TestCreatePostsForWorkflowBoundsEntityPosts(t *testing.T) {
	s := New()
	workflow := fixtureWorkflow()
	rc := models.NewResearchContext("GopherCon", "gophercon.example", nil)
	for i := 0; i < 10; i++ {
		rc.MergeEntity(&models.Entity{EntityType: models.EntitySpeaker, CanonicalName: "Speaker " + string(rune('A'+i))})
	}

	posts, err := s.CreatePostsForWorkflow(workflow, rc, orchestrator.ContentResult{})
	require.NoError(t, err)
	assert.Len(t, posts, maxEntityPosts)
}
