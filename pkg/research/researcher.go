package research

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/codeready-toolchain/tarsy/pkg/models"
)

const userAgent = "Mozilla/5.0 (compatible; Scout/1.0; Research Agent)"

// Researcher fills in Entity attributes from conference HTML and linked
// profile pages, never fabricating a field with no concrete source
// (SPEC_FULL.md §4.4 "No fabrication policy").
type Researcher struct {
	httpClient *http.Client
}

// New builds a Researcher whose HTTP client has a 15s timeout (the crawler's
// default per-page timeout) and net/http's default redirect policy; unlike
// the crawler's client, redirects are not capped at 5. Grounded on
// original_source/profile_research.rs's ProfileResearcher::new.
func New() *Researcher {
	return &Researcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ResearchSpeaker fills e (EntityType speaker) from the conference HTML in
// which the name appeared, then optionally from a personal website.
func (r *Researcher) ResearchSpeaker(ctx context.Context, e *models.Entity, conferenceHTML string) {
	found := false
	if photo := FindImageNearName(conferenceHTML, e.CanonicalName); photo != "" {
		e.PhotoURL = photo
		found = true
	}
	if title := ExtractTitleNearName(conferenceHTML, e.CanonicalName); title != "" {
		e.Title = title
		found = true
	}
	if bio := ExtractBioNearName(conferenceHTML, e.CanonicalName); bio != "" {
		e.Bio = bio
		found = true
	}
	links := ExtractSocialLinksNearName(conferenceHTML, e.CanonicalName)
	if links.LinkedInURL != "" {
		e.LinkedInURL = links.LinkedInURL
		found = true
	}
	if links.TwitterHandle != "" {
		e.TwitterHandle = links.TwitterHandle
		found = true
	}
	if links.Website != "" {
		e.Website = links.Website
		found = true
	}
	if found {
		e.AddSource(models.SourceConferencePage)
	}

	if e.Website != "" {
		if info, err := r.fetchPersonalWebsiteInfo(ctx, e.Website); err == nil {
			mergeIfEmpty(&e.Bio, info.bio)
			mergeIfEmpty(&e.PhotoURL, info.photoURL)
			mergeIfEmpty(&e.Title, info.title)
			e.AddSource(models.SourcePersonalWebsite)
		} else {
			slog.Warn("research: personal website fetch failed", "url", e.Website, "error", err)
		}
	}

	if e.Bio == "" {
		slog.Warn("research: no bio found for speaker", "name", e.CanonicalName)
	}
	if e.PhotoURL == "" {
		slog.Warn("research: no photo found for speaker", "name", e.CanonicalName)
	}
	e.DataCompleteness = CalculateCompleteness(e)
}

// ResearchBrand fills e (EntityType sponsor) from the conference HTML and,
// if found, the sponsor's company website.
func (r *Researcher) ResearchBrand(ctx context.Context, e *models.Entity, conferenceHTML string) {
	found := false
	if photo := FindImageNearName(conferenceHTML, e.CanonicalName); photo != "" {
		e.PhotoURL = photo
		found = true
	}
	links := ExtractSocialLinksNearName(conferenceHTML, e.CanonicalName)
	if links.LinkedInURL != "" {
		e.LinkedInURL = links.LinkedInURL
		found = true
	} else if pos, ok := findNamePos(conferenceHTML, e.CanonicalName); ok {
		if m := companyLinkedInRe.FindStringSubmatch(window(conferenceHTML, pos, socialWindowBefore, socialWindowAfter)); m != nil {
			e.LinkedInURL = m[1]
			found = true
		}
	}
	if links.TwitterHandle != "" {
		e.TwitterHandle = links.TwitterHandle
		found = true
	}
	if links.Website != "" {
		e.Website = links.Website
		found = true
	}
	if tier := ExtractSponsorshipLevel(conferenceHTML, e.CanonicalName); tier != "" {
		e.SponsorshipTier = tier
		found = true
	}
	if found {
		e.AddSource(models.SourceConferencePage)
	}

	if e.Website != "" {
		if info, err := r.fetchCompanyWebsiteInfo(ctx, e.Website); err == nil {
			mergeIfEmpty(&e.Bio, info.description)
			mergeIfEmpty(&e.PhotoURL, info.logoURL)
			if e.LinkedInURL == "" && info.linkedInURL != "" {
				e.LinkedInURL = info.linkedInURL
			}
			if e.Company == "" && info.industry != "" {
				e.Company = info.industry
			}
			e.AddSource(models.SourceCompanyWebsite)
		} else {
			slog.Warn("research: company website fetch failed", "url", e.Website, "error", err)
		}
	}

	e.DataCompleteness = CalculateCompleteness(e)
}

func mergeIfEmpty(dst *string, val string) {
	if *dst == "" && val != "" {
		*dst = val
	}
}

type personalSiteInfo struct {
	bio, photoURL, title string
}

type companySiteInfo struct {
	description, logoURL, linkedInURL, industry string
}

var (
	metaDescriptionRe = regexp.MustCompile(`(?is)<meta[^>]*name="description"[^>]*content="([^"]+)"`)
	ogTitleRe          = regexp.MustCompile(`(?is)<meta[^>]*property="og:title"[^>]*content="([^"]+)"`)
	ogImageRe          = regexp.MustCompile(`(?is)<meta[^>]*property="og:image"[^>]*content="([^"]+)"`)
	companyLinkedInRe  = regexp.MustCompile(`(?i)href="(https?://(?:www\.)?linkedin\.com/company/[^"]+)"`)
	jsonLDIndustryRe   = regexp.MustCompile(`(?is)"industry"\s*:\s*"([^"]+)"`)
)

func (r *Researcher) fetchPersonalWebsiteInfo(ctx context.Context, url string) (personalSiteInfo, error) {
	html, err := r.get(ctx, url)
	if err != nil {
		return personalSiteInfo{}, err
	}
	var info personalSiteInfo
	if m := metaDescriptionRe.FindStringSubmatch(html); m != nil && len(m[1]) >= 50 && len(m[1]) <= 500 {
		info.bio = strings.TrimSpace(m[1])
	}
	if m := ogTitleRe.FindStringSubmatch(html); m != nil {
		info.title = strings.TrimSpace(m[1])
	}
	if m := ogImageRe.FindStringSubmatch(html); m != nil {
		info.photoURL = strings.TrimSpace(m[1])
	}
	return info, nil
}

func (r *Researcher) fetchCompanyWebsiteInfo(ctx context.Context, url string) (companySiteInfo, error) {
	html, err := r.get(ctx, url)
	if err != nil {
		return companySiteInfo{}, err
	}
	var info companySiteInfo
	if m := metaDescriptionRe.FindStringSubmatch(html); m != nil && len(m[1]) >= 30 && len(m[1]) <= 500 {
		info.description = strings.TrimSpace(m[1])
	}
	if m := ogImageRe.FindStringSubmatch(html); m != nil {
		info.logoURL = strings.TrimSpace(m[1])
	}
	if m := companyLinkedInRe.FindStringSubmatch(html); m != nil {
		info.linkedInURL = m[1]
	}
	if m := jsonLDIndustryRe.FindStringSubmatch(html); m != nil {
		info.industry = strings.TrimSpace(m[1])
	}
	return info, nil
}

func (r *Researcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errStatus(resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

type errStatus int

func (e errStatus) Error() string {
	return "unexpected status code"
}
