package research

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codeready-toolchain/tarsy/pkg/models"
)

func TestCalculateCompletenessSpeakerFull(t *testing.T) {
	e := &models.Entity{
		EntityType:    models.EntitySpeaker,
		CanonicalName: "Jane Doe",
		Bio:           "Jane is a principal engineer.",
		Title:         "Principal Engineer",
		Company:       "Example Corp",
		PhotoURL:      "https://x.example/jane.jpg",
		LinkedInURL:   "https://linkedin.com/in/janedoe",
		TwitterHandle: "@janedoe",
		Website:       "https://janedoe.dev",
	}
	assert.InDelta(t, 1.0, CalculateCompleteness(e), 0.0001)
}

func TestCalculateCompletenessSpeakerPartial(t *testing.T) {
	e := &models.Entity{
		EntityType:    models.EntitySpeaker,
		CanonicalName: "Jane Doe",
		Bio:           "Jane is a principal engineer.",
		Title:         "Principal Engineer",
	}
	assert.InDelta(t, 0.10+0.20+0.15, CalculateCompleteness(e), 0.0001)
}

func TestCalculateCompletenessSponsorFull(t *testing.T) {
	e := &models.Entity{
		EntityType:      models.EntitySponsor,
		CanonicalName:   "Acme Inc",
		Bio:             "Acme builds widgets.",
		Website:         "https://acme.example",
		PhotoURL:        "https://acme.example/logo.png",
		Company:         "Manufacturing",
		LinkedInURL:     "https://linkedin.com/company/acme",
		TwitterHandle:   "@acme",
		SponsorshipTier: "Gold",
	}
	assert.InDelta(t, 1.0, CalculateCompleteness(e), 0.0001)
}

func TestResearchSpeakerNoFabrication(t *testing.T) {
	r := New()
	e := &models.Entity{EntityType: models.EntitySpeaker, CanonicalName: "Nobody Here"}
	r.ResearchSpeaker(context.Background(), e, `<html><body>Unrelated page content</body></html>`)

	assert.Empty(t, e.Bio)
	assert.Empty(t, e.PhotoURL)
	assert.Empty(t, e.Title)
	assert.Empty(t, e.DataSources)
	assert.InDelta(t, 0.10, e.DataCompleteness, 0.0001)
}

func TestResearchSpeakerFromConferenceHTMLAndPersonalSite(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `<html><head>
			<meta name="description" content="Jane is an engineering leader with fifteen years of distributed systems experience across three continents.">
			<meta property="og:title" content="Principal Engineer">
			<meta property="og:image" content="https://jane.example/photo.jpg">
		</head><body>bio</body></html>`)
	}))
	defer site.Close()

	html := fmt.Sprintf(`<html><body>
		<div class="speaker-card">
			<img alt="Jane Doe headshot" src="https://cdn.example/jane.jpg">
			<span>Jane Doe</span>
			<p class="title">Jane Doe is a Staff Engineer at Example Corp</p>
			<p class="bio">Jane Doe leads the platform team and founded the internal tools guild.</p>
			<a href="https://linkedin.com/in/janedoe">LinkedIn</a>
			<a href="%s">Website</a>
		</div>
	</body></html>`, site.URL)

	r := New()
	e := &models.Entity{EntityType: models.EntitySpeaker, CanonicalName: "Jane Doe"}
	r.ResearchSpeaker(context.Background(), e, html)

	assert.Equal(t, "https://cdn.example/jane.jpg", e.PhotoURL)
	assert.Contains(t, e.Bio, "platform team")
	assert.Equal(t, "https://linkedin.com/in/janedoe", e.LinkedInURL)
	assert.Contains(t, e.DataSources, models.SourceConferencePage)
	assert.NotContains(t, e.DataSources, models.SourceLinkedIn)
	assert.Greater(t, e.DataCompleteness, 0.0)
}

func TestResearchBrandFromConferenceHTML(t *testing.T) {
	html := `<html><body>
		<div class="sponsor-tile">
			<img alt="Acme Inc logo" src="https://cdn.example/acme.png">
			<span>Acme Inc</span>
			<p>Proud Gold sponsor of the conference.</p>
			<a href="https://linkedin.com/company/acme">LinkedIn</a>
		</div>
	</body></html>`

	r := New()
	e := &models.Entity{EntityType: models.EntitySponsor, CanonicalName: "Acme Inc"}
	r.ResearchBrand(context.Background(), e, html)

	assert.Equal(t, "https://cdn.example/acme.png", e.PhotoURL)
	assert.Equal(t, "Gold", e.SponsorshipTier)
	assert.Equal(t, "https://linkedin.com/company/acme", e.LinkedInURL)
}

func TestMergeIfEmptyDoesNotOverwrite(t *testing.T) {
	dst := "existing"
	mergeIfEmpty(&dst, "new")
	assert.Equal(t, "existing", dst)

	var empty string
	mergeIfEmpty(&empty, "filled")
	assert.Equal(t, "filled", empty)
}
