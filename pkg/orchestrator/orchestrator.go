// Package orchestrator implements the Parallel Content+Graphics Orchestrator
// (SPEC_FULL.md §4.9): fans out an LLM-backed content workflow and an
// image-backend-backed graphics workflow simultaneously, joins them, and
// returns both results to the Conference Workflow Engine for persistence.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/codeready-toolchain/tarsy/pkg/llm"
	"github.com/codeready-toolchain/tarsy/pkg/models"
)

// ArticleType discriminates the up-to-three generated articles
// (SPEC_FULL.md §4.9).
type ArticleType string

const (
	ArticleSpeakers    ArticleType = "speakers"
	ArticleSideEvents  ArticleType = "side_events"
	ArticlePressRelease ArticleType = "press_release"
)

// Article is one LLM-authored piece, tagged with its type and authoring
// agent.
type Article struct {
	ArticleType    ArticleType
	AgentID        string
	Title          string
	Body           string
	SocialCaption  string
	Hashtags       []string
}

// ContentResult is the content workflow's output.
type ContentResult struct {
	Articles []Article
	Errors   []string
}

// ImageAsset is a real asset collected from a research-context entity
// (speaker photo or sponsor logo), preferred over generated images
// (SPEC_FULL.md §4.9).
type ImageAsset struct {
	SourceURL string
	Label     string
}

// Thumbnail is one composed thumbnail for an article type.
type Thumbnail struct {
	ArticleType ArticleType
	FileURL     string
	FromAsset   bool
}

// SocialGraphic is the one generic 1:1 social graphic produced per workflow.
type SocialGraphic struct {
	FileURL string
}

// GraphicsResult is the graphics workflow's output.
type GraphicsResult struct {
	Thumbnails     []Thumbnail
	SocialGraphic  *SocialGraphic
	Errors         []string
}

// ImageBackend generates an image from a text prompt when no suitable real
// asset exists. Optional: nil means generation is unavailable; a thumbnail
// that would need a generated image is skipped, and no social graphic is
// produced.
type ImageBackend interface {
	GenerateImage(ctx context.Context, prompt string, aspectRatio string) (fileURL string, err error)
}

// Orchestrator runs the content and graphics workflows concurrently.
type Orchestrator struct {
	llmClient llm.Client
	images    ImageBackend // nil permitted
}

// New builds an Orchestrator. images may be nil.
func New(llmClient llm.Client, images ImageBackend) *Orchestrator {
	return &Orchestrator{llmClient: llmClient, images: images}
}

// RunParallelCreation launches the content and graphics workflows as
// independent goroutines, joins them, and returns both results. Failure of
// either is recorded as a non-fatal error (SPEC_FULL.md §4.9): the function
// itself never returns an error.
func (o *Orchestrator) RunParallelCreation(ctx context.Context, workflow *models.Workflow, rc *models.ResearchContext) (ContentResult, GraphicsResult) {
	var content ContentResult
	var graphics GraphicsResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		content = o.runContentWorkflow(gctx, workflow, rc)
		return nil
	})
	g.Go(func() error {
		graphics = o.runGraphicsWorkflow(gctx, rc)
		return nil
	})
	_ = g.Wait() // each sub-workflow captures its own errors internally; never propagated as a hard failure

	return content, graphics
}

func (o *Orchestrator) runContentWorkflow(ctx context.Context, workflow *models.Workflow, rc *models.ResearchContext) ContentResult {
	var result ContentResult

	jobs := []ArticleType{ArticleSpeakers, ArticlePressRelease}
	if len(rc.SideEvents) > 0 {
		jobs = append(jobs, ArticleSideEvents)
	}

	for _, at := range jobs {
		article, err := o.generateArticle(ctx, at, workflow, rc)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s article: %v", at, err))
			continue
		}
		result.Articles = append(result.Articles, article)
	}
	return result
}

func (o *Orchestrator) generateArticle(ctx context.Context, at ArticleType, workflow *models.Workflow, rc *models.ResearchContext) (Article, error) {
	system, user := articlePrompt(at, workflow, rc)
	raw, err := o.llmClient.Complete(ctx, system, user)
	if err != nil {
		return Article{}, err
	}

	parsed := parseArticleResponse(raw)
	return Article{
		ArticleType:   at,
		AgentID:       "muse-creative",
		Title:         parsed.title,
		Body:          parsed.body,
		SocialCaption: parsed.socialCaption,
		Hashtags:      parsed.hashtags,
	}, nil
}

func (o *Orchestrator) runGraphicsWorkflow(ctx context.Context, rc *models.ResearchContext) GraphicsResult {
	var result GraphicsResult

	for _, at := range []ArticleType{ArticleSpeakers, ArticlePressRelease, ArticleSideEvents} {
		asset := findRealAsset(at, rc)
		if asset != nil {
			result.Thumbnails = append(result.Thumbnails, Thumbnail{ArticleType: at, FileURL: asset.SourceURL, FromAsset: true})
			continue
		}
		if o.images == nil {
			continue
		}
		url, err := o.images.GenerateImage(ctx, thumbnailPrompt(at), "16:9")
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s thumbnail generation: %v", at, err))
			continue
		}
		result.Thumbnails = append(result.Thumbnails, Thumbnail{ArticleType: at, FileURL: url})
	}

	if o.images != nil {
		url, err := o.images.GenerateImage(ctx, "conference social promotion graphic", "1:1")
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("social graphic generation: %v", err))
		} else {
			result.SocialGraphic = &SocialGraphic{FileURL: url}
		}
	}
	return result
}

// findRealAsset prefers an existing speaker photo or sponsor logo over
// generating a new image (SPEC_FULL.md §4.9).
func findRealAsset(at ArticleType, rc *models.ResearchContext) *ImageAsset {
	switch at {
	case ArticleSpeakers:
		for _, e := range rc.EntitiesByType(models.EntitySpeaker) {
			if e.PhotoURL != "" {
				return &ImageAsset{SourceURL: e.PhotoURL, Label: e.CanonicalName}
			}
		}
	case ArticlePressRelease:
		for _, e := range rc.EntitiesByType(models.EntitySponsor) {
			if e.PhotoURL != "" {
				return &ImageAsset{SourceURL: e.PhotoURL, Label: e.CanonicalName}
			}
		}
	}
	return nil
}

func thumbnailPrompt(at ArticleType) string {
	return fmt.Sprintf("A clean editorial thumbnail illustrating a %s conference-coverage article.", strings.ReplaceAll(string(at), "_", " "))
}
