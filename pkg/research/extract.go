package research

import (
	"regexp"
	"strings"
)

// Context-window sizes recovered from original_source/profile_research.rs.
const (
	titleWindowBefore = 200
	titleWindowAfter  = 500
	bioWindowBefore   = 100
	bioWindowAfter    = 1500
	socialWindowBefore = 200
	socialWindowAfter  = 800
	tierWindowBefore   = 500
	tierWindowAfter    = 200
)

var bioSeedVerbs = []string{"is a", "works", "leads", "founded", "expert", "experience"}
var tierKeywords = []string{"platinum", "gold", "silver", "bronze", "diamond", "premier", "principal", "founding"}

var (
	titleClassRe   = regexp.MustCompile(`(?is)<(?:p|span|div)[^>]*class="[^"]*(?:title|role|position)[^"]*"[^>]*>([^<]+)</(?:p|span|div)>`)
	titlePatternRe = regexp.MustCompile(`>([A-Z][^<]{3,50}(?:at|@|,)\s+[^<]{2,30})<`)
	bioClassRe     = regexp.MustCompile(`(?is)<(?:p|div)[^>]*class="[^"]*(?:bio|description|about)[^"]*"[^>]*>([^<]{50,500})</(?:p|div)>`)
	paragraphRe    = regexp.MustCompile(`(?is)<p[^>]*>([^<]{100,500})</p>`)
	imgAltSrcRe    func(name string) *regexp.Regexp
	imgSrcAltRe    func(name string) *regexp.Regexp
	linkedInRe     = regexp.MustCompile(`(?i)href="(https?://(?:www\.)?linkedin\.com/in/[^"]+)"`)
	twitterRe      = regexp.MustCompile(`(?i)href="https?://(?:www\.)?(?:twitter|x)\.com/([^"/?]+)"`)
	websiteAnchorRe = regexp.MustCompile(`(?is)<a[^>]*href="(https?://[^"]+)"[^>]*>[^<]*(?:website|personal|homepage|site)[^<]*</a>`)
)

func init() {
	imgAltSrcRe = func(name string) *regexp.Regexp {
		return regexp.MustCompile(`(?is)<img[^>]*alt="[^"]*` + regexp.QuoteMeta(name) + `[^"]*"[^>]*src="([^"]+)"`)
	}
	imgSrcAltRe = func(name string) *regexp.Regexp {
		return regexp.MustCompile(`(?is)<img[^>]*src="([^"]+)"[^>]*alt="[^"]*` + regexp.QuoteMeta(name) + `[^"]*"`)
	}
}

// window returns html[max(0,pos-before) : min(len,pos+after)].
func window(html string, pos, before, after int) string {
	start := pos - before
	if start < 0 {
		start = 0
	}
	end := pos + after
	if end > len(html) {
		end = len(html)
	}
	if start >= end {
		return ""
	}
	return html[start:end]
}

func findNamePos(html, name string) (int, bool) {
	idx := strings.Index(html, name)
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// FindImageNearName looks for an <img> tag whose alt or src neighbors name.
func FindImageNearName(html, name string) string {
	if m := imgAltSrcRe(name).FindStringSubmatch(html); m != nil {
		return m[1]
	}
	if m := imgSrcAltRe(name).FindStringSubmatch(html); m != nil {
		return m[1]
	}
	return ""
}

// ExtractTitleNearName looks within ±200/500 chars of name for a title-like
// string.
func ExtractTitleNearName(html, name string) string {
	pos, ok := findNamePos(html, name)
	if !ok {
		return ""
	}
	w := window(html, pos, titleWindowBefore, titleWindowAfter)
	if m := titleClassRe.FindStringSubmatch(w); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := titlePatternRe.FindStringSubmatch(w); m != nil {
		candidate := strings.TrimSpace(m[1])
		if len(candidate) < 80 && !strings.Contains(candidate, "http") {
			return candidate
		}
	}
	return ""
}

// ExtractBioNearName looks within -100/+1500 chars of name for a bio-like
// string.
func ExtractBioNearName(html, name string) string {
	pos, ok := findNamePos(html, name)
	if !ok {
		return ""
	}
	w := window(html, pos, bioWindowBefore, bioWindowAfter)
	if m := bioClassRe.FindStringSubmatch(w); m != nil {
		return strings.TrimSpace(m[1])
	}
	for _, m := range paragraphRe.FindAllStringSubmatch(w, -1) {
		lower := strings.ToLower(m[1])
		for _, verb := range bioSeedVerbs {
			if strings.Contains(lower, verb) {
				return strings.TrimSpace(m[1])
			}
		}
	}
	return ""
}

// SocialLinks is what ExtractSocialLinksNearName recovers.
type SocialLinks struct {
	LinkedInURL   string
	TwitterHandle string
	Website       string
}

// ExtractSocialLinksNearName looks within ±200/800 chars of name for social
// profile links.
func ExtractSocialLinksNearName(html, name string) SocialLinks {
	pos, ok := findNamePos(html, name)
	if !ok {
		return SocialLinks{}
	}
	w := window(html, pos, socialWindowBefore, socialWindowAfter)

	var links SocialLinks
	if m := linkedInRe.FindStringSubmatch(w); m != nil {
		links.LinkedInURL = m[1]
	}
	if m := twitterRe.FindStringSubmatch(w); m != nil {
		handle := m[1]
		if handle != "share" && handle != "intent" {
			links.TwitterHandle = "@" + handle
		}
	}
	if m := websiteAnchorRe.FindStringSubmatch(w); m != nil {
		url := m[1]
		lower := strings.ToLower(url)
		if !strings.Contains(lower, "linkedin") && !strings.Contains(lower, "twitter") &&
			!strings.Contains(lower, "facebook") && !strings.Contains(lower, "instagram") {
			links.Website = url
		}
	}
	return links
}

// ExtractSponsorshipLevel searches -500/+200 chars of name for a tier
// keyword and returns it title-cased, or "" if none found.
func ExtractSponsorshipLevel(html, name string) string {
	pos, ok := findNamePos(html, name)
	if !ok {
		return ""
	}
	w := strings.ToLower(window(html, pos, tierWindowBefore, tierWindowAfter))
	for _, kw := range tierKeywords {
		if strings.Contains(w, kw) {
			return strings.ToUpper(kw[:1]) + kw[1:]
		}
	}
	return ""
}
