package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codeready-toolchain/tarsy/pkg/models"
)

// articlePrompt returns the system/user prompt pair for one article type,
// recovered from original_source/conference_workflow/parallel.rs (Article
// Prompt Conventions, SPEC_FULL.md glossary).
func articlePrompt(at ArticleType, workflow *models.Workflow, rc *models.ResearchContext) (system, user string) {
	system = "You are a conference-coverage journalist. You write tight, factual, " +
		"engaging copy for a tech-industry audience. You ALWAYS respond with a single " +
		"JSON object with exactly these fields: title (string), body (string), " +
		"social_caption (string, under 280 characters), hashtags (array of strings, " +
		"without the leading '#'). Do not include any prose before or after the JSON."

	var sb strings.Builder
	fmt.Fprintf(&sb, "Conference: %s\n", workflow.ConferenceName)
	fmt.Fprintf(&sb, "Dates: %s to %s\n", workflow.StartDate, workflow.EndDate)
	if workflow.Location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", workflow.Location)
	}

	switch at {
	case ArticleSpeakers:
		sb.WriteString("\nWrite a speaker-highlight article. Feature these speakers:\n")
		for _, e := range rc.EntitiesByType(models.EntitySpeaker) {
			fmt.Fprintf(&sb, "- %s", e.CanonicalName)
			if e.Title != "" {
				fmt.Fprintf(&sb, ", %s", e.Title)
			}
			if e.Company != "" {
				fmt.Fprintf(&sb, " at %s", e.Company)
			}
			sb.WriteString("\n")
		}
	case ArticleSideEvents:
		sb.WriteString("\nWrite a guide to the satellite side events around the conference:\n")
		for _, se := range rc.SideEvents {
			fmt.Fprintf(&sb, "- %s", se.Name)
			if se.VenueName != "" {
				fmt.Fprintf(&sb, " at %s", se.VenueName)
			}
			sb.WriteString("\n")
		}
	case ArticlePressRelease:
		sb.WriteString("\nWrite a press-release-style announcement covering the conference's sponsors:\n")
		for _, e := range rc.EntitiesByType(models.EntitySponsor) {
			fmt.Fprintf(&sb, "- %s", e.CanonicalName)
			if e.SponsorshipTier != "" {
				fmt.Fprintf(&sb, " (%s tier)", e.SponsorshipTier)
			}
			sb.WriteString("\n")
		}
	}

	return system, sb.String()
}

type parsedArticle struct {
	title         string
	body          string
	socialCaption string
	hashtags      []string
}

type articleJSON struct {
	Title         string   `json:"title"`
	Body          string   `json:"body"`
	SocialCaption string   `json:"social_caption"`
	Hashtags      []string `json:"hashtags"`
}

// parseArticleResponse implements the Rust original's
// extract_json_from_response/parse_article_response fallback algorithm
// (SPEC_FULL.md §4): locate the outermost {...}, parse it as the expected
// shape; on parse failure, if the raw text is long and not JSON-shaped treat
// it as a prose body with synthesized title/caption, otherwise synthesize a
// fallback body from the first 500 characters.
func parseArticleResponse(raw string) parsedArticle {
	if jsonBody, ok := extractJSONFromResponse(raw); ok {
		var parsed articleJSON
		if err := json.Unmarshal([]byte(jsonBody), &parsed); err == nil && parsed.Body != "" {
			result := parsedArticle{
				title:         parsed.Title,
				body:          parsed.Body,
				socialCaption: parsed.SocialCaption,
				hashtags:      parsed.Hashtags,
			}
			if result.title == "" {
				result.title = fallbackTitle(result.body)
			}
			if result.socialCaption == "" {
				result.socialCaption = fallbackCaption(result.body)
			}
			if len(result.hashtags) == 0 {
				result.hashtags = fallbackHashtags()
			}
			return result
		}
	}

	trimmed := strings.TrimSpace(raw)
	if len(trimmed) > 100 && !looksLikeJSON(trimmed) {
		return parsedArticle{
			title:         fallbackTitle(trimmed),
			body:          trimmed,
			socialCaption: fallbackCaption(trimmed),
			hashtags:      fallbackHashtags(),
		}
	}

	body := trimmed
	if len(body) > 500 {
		body = body[:500]
	}
	return parsedArticle{
		title:         fallbackTitle(body),
		body:          body,
		socialCaption: fallbackCaption(body),
		hashtags:      fallbackHashtags(),
	}
}

// extractJSONFromResponse strips any prose before/after the JSON by
// locating the outermost '{'...'}'.
func extractJSONFromResponse(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < 0 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}

func looksLikeJSON(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")
}

func fallbackTitle(body string) string {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "Conference Coverage"
	}
	words := strings.Fields(trimmed)
	if len(words) > 10 {
		words = words[:10]
	}
	return strings.Join(words, " ")
}

func fallbackCaption(body string) string {
	trimmed := strings.TrimSpace(body)
	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	return trimmed
}

func fallbackHashtags() []string {
	return []string{"conference", "tech"}
}

// Slugify converts a title into a URL-safe slug (SPEC_FULL.md §4: "slugify()
// and fallback-hashtag synthesis when the LLM returns none").
func Slugify(title string) string {
	lower := strings.ToLower(strings.TrimSpace(title))
	var sb strings.Builder
	lastWasDash := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastWasDash = false
		default:
			if !lastWasDash && sb.Len() > 0 {
				sb.WriteByte('-')
				lastWasDash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
