package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/tarsy/pkg/models"
)

type stubLLM struct {
	response string
	err      error
}

func (s stubLLM) Complete(ctx context.Context, system, user string) (string, error) {
	return s.response, s.err
}

type stubImageBackend struct {
	url string
	err error
}

func (s stubImageBackend) GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error) {
	return s.url, s.err
}

func fixtureWorkflow() *models.Workflow {
	return &models.Workflow{ConferenceName: "GopherCon", StartDate: "2026-09-10", EndDate: "2026-09-12"}
}

func fixtureResearchContext() *models.ResearchContext {
	rc := models.NewResearchContext("GopherCon", "gophercon.example", nil)
	rc.MergeEntity(&models.Entity{EntityType: models.EntitySpeaker, CanonicalName: "Jane Doe", PhotoURL: "https://x.example/jane.jpg"})
	rc.MergeEntity(&models.Entity{EntityType: models.EntitySponsor, CanonicalName: "Acme Inc", SponsorshipTier: "Gold"})
	return rc
}

func TestParseArticleResponseWellFormedJSON(t *testing.T) {
	raw := `Sure, here you go: {"title":"Gophers Assemble","body":"A great lineup awaits.","social_caption":"Don't miss it","hashtags":["go","conf"]} Thanks!`
	parsed := parseArticleResponse(raw)
	assert.Equal(t, "Gophers Assemble", parsed.title)
	assert.Equal(t, "A great lineup awaits.", parsed.body)
	assert.Equal(t, []string{"go", "conf"}, parsed.hashtags)
}

func TestParseArticleResponseMissingFieldsGetFallbacks(t *testing.T) {
	raw := `{"body":"Only a body was returned by the model this time around."}`
	parsed := parseArticleResponse(raw)
	assert.NotEmpty(t, parsed.title)
	assert.NotEmpty(t, parsed.socialCaption)
	assert.Equal(t, []string{"conference", "tech"}, parsed.hashtags)
}

func TestParseArticleResponseProseFallback(t *testing.T) {
	raw := "This is a long prose response from the model that never actually produced any JSON object at all, just a plain narrative about the conference speakers and their many accomplishments over the years."
	parsed := parseArticleResponse(raw)
	assert.Equal(t, raw, parsed.body)
	assert.NotEmpty(t, parsed.title)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "gophers-assemble-2026", Slugify("Gophers Assemble! (2026)"))
}

func TestRunParallelCreationJoinsBothWorkflows(t *testing.T) {
	o := New(stubLLM{response: `{"title":"T","body":"B","social_caption":"C","hashtags":["x"]}`}, stubImageBackend{url: "https://img.example/g.png"})
	workflow := fixtureWorkflow()
	rc := fixtureResearchContext()

	content, graphics := o.RunParallelCreation(context.Background(), workflow, rc)

	require.Len(t, content.Articles, 2) // no side events in this fixture
	assert.NotNil(t, graphics.SocialGraphic)
	assert.NotEmpty(t, graphics.Thumbnails)
}

func TestRunParallelCreationContentErrorIsNonFatal(t *testing.T) {
	o := New(stubLLM{err: errors.New("llm unavailable")}, nil)
	workflow := fixtureWorkflow()
	rc := fixtureResearchContext()

	content, graphics := o.RunParallelCreation(context.Background(), workflow, rc)

	assert.Empty(t, content.Articles)
	assert.NotEmpty(t, content.Errors)
	assert.Nil(t, graphics.SocialGraphic) // nil image backend, no fatal error either
}

func TestFindRealAssetPrefersExistingPhoto(t *testing.T) {
	rc := fixtureResearchContext()
	asset := findRealAsset(ArticleSpeakers, rc)
	require.NotNil(t, asset)
	assert.Equal(t, "https://x.example/jane.jpg", asset.SourceURL)
}
