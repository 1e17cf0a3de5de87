package crawler

import (
	"regexp"
	"strings"
)

var (
	titleRe   = regexp.MustCompile(`(?is)<title[^>]*>([^<]+)</title>`)
	scriptRe  = regexp.MustCompile(`(?is)<script.*?</script>`)
	styleRe   = regexp.MustCompile(`(?is)<style.*?</style>`)
	lineBreakRe = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>|</li>`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)
	hrefRe    = regexp.MustCompile(`(?i)href=["']([^"']+)["']`)
	wsRe      = regexp.MustCompile(`[ \t]+`)
	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// ExtractTitle pulls the <title> contents out of raw HTML, or "" if absent.
func ExtractTitle(html string) string {
	m := titleRe.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(htmlEntityDecode(m[1]))
}

// ExtractLinks returns every href target found in html, in document order,
// deduplicated within this single page's extraction.
func ExtractLinks(html string) []string {
	matches := hrefRe.FindAllStringSubmatch(html, -1)
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		href := strings.TrimSpace(m[1])
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			continue
		}
		if seen[href] {
			continue
		}
		seen[href] = true
		out = append(out, href)
	}
	return out
}

// NeedsJavaScript applies the Needs-JS heuristic from SPEC_FULL.md §4.3.
func NeedsJavaScript(html, text string) bool {
	markers := []string{
		"data-react-", "data-vue-", "__NEXT_DATA__", "__NUXT__",
		"ng-app", "window.__INITIAL_STATE__", "Loading...", "<noscript>",
	}
	for _, m := range markers {
		if strings.Contains(html, m) {
			return true
		}
	}
	return len(text) < 500 && len(html) > 10000
}

// HTMLToText strips scripts/styles/tags and decodes entities, following the
// Rust original's html_to_text exactly.
func HTMLToText(html string) string {
	s := scriptRe.ReplaceAllString(html, "")
	s = styleRe.ReplaceAllString(s, "")
	s = lineBreakRe.ReplaceAllString(s, "\n")
	s = tagRe.ReplaceAllString(s, "")
	s = htmlEntityDecode(s)
	s = wsRe.ReplaceAllString(s, " ")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&nbsp;", " ",
	"&#x27;", "'",
	"&#x2F;", "/",
	"&mdash;", "—",
	"&ndash;", "–",
	"&hellip;", "…",
)

func htmlEntityDecode(s string) string {
	return entityReplacer.Replace(s)
}
