package stages

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/tarsy/pkg/config"
	"github.com/codeready-toolchain/tarsy/pkg/crawler"
	"github.com/codeready-toolchain/tarsy/pkg/models"
	"github.com/codeready-toolchain/tarsy/pkg/research"
)

func newTestExecutor() *Executor {
	cfg := config.DefaultWorkflowConfig()
	cfg.MaxStageRetries = 1
	crawlCfg := config.DefaultCrawlConfig()
	crawlCfg.RequestsPerSecond = 0
	crawlCfg.MaxPages = 5
	return New(crawler.New(nil), research.New(), cfg, crawlCfg)
}

func TestRunConferenceIntelCrawlsAndSummarizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><title>Home</title><body>Welcome to the conference. <a href="/about">About</a></body></html>`)
	}))
	defer srv.Close()

	exec := newTestExecutor()
	rc := models.NewResearchContext("Test Conf", srv.URL, nil)

	result, err := exec.RunConferenceIntel(context.Background(), rc, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, models.StageConferenceIntel, result.StageName)
	assert.Greater(t, result.ConfidenceScore, 0.0)
	assert.NotEmpty(t, rc.StageFindings[models.StageConferenceIntel])
}

func TestDiscoverCandidatesFindsNames(t *testing.T) {
	html := `<div><h3>Jane Doe</h3><h3>John A. Smith</h3><p>not a name</p></div>`
	names := discoverCandidates(html, 10)
	assert.Contains(t, names, "Jane Doe")
	assert.Contains(t, names, "John A. Smith")
}

func TestRunSpeakerResearchCreatesEntities(t *testing.T) {
	exec := newTestExecutor()
	rc := models.NewResearchContext("Test Conf", "https://conf.example", nil)
	rc.StageFindings[models.StageConferenceIntel] = `<div><h3>Jane Doe</h3></div>`

	result, err := exec.RunSpeakerResearch(context.Background(), rc)
	require.NoError(t, err)
	assert.Equal(t, models.StageSpeakerResearch, result.StageName)
	assert.Len(t, rc.EntitiesByType(models.EntitySpeaker), 1)
	assert.Equal(t, "Jane Doe", rc.EntitiesByType(models.EntitySpeaker)[0].CanonicalName)
}

func TestRunSpeakerResearchNoCandidatesStillSucceeds(t *testing.T) {
	exec := newTestExecutor()
	rc := models.NewResearchContext("Test Conf", "https://conf.example", nil)
	rc.StageFindings[models.StageConferenceIntel] = `<div>no names here</div>`

	result, err := exec.RunSpeakerResearch(context.Background(), rc)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.ConfidenceScore)
}

func TestRunSideEventsDedupesMatches(t *testing.T) {
	exec := newTestExecutor()
	rc := models.NewResearchContext("Test Conf", "https://conf.example", nil)
	rc.StageFindings[models.StageConferenceIntel] = "Join our Hackathon and the Hackathon after party tonight."

	_, err := exec.RunSideEvents(context.Background(), rc)
	require.NoError(t, err)
	assert.Len(t, rc.SideEvents, 2)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "After Party", titleCase("after party"))
}
