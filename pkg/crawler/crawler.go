package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/codeready-toolchain/tarsy/pkg/config"
)

const userAgent = "Mozilla/5.0 (compatible; Scout/1.0; Research Agent)"

// FetchMethod records how a page was retrieved.
type FetchMethod string

const (
	FetchStaticHTTP FetchMethod = "static_http"
	FetchBowser     FetchMethod = "bowser"
)

// CrawledPage is one fetched and classified page (SPEC_FULL.md §4.3).
type CrawledPage struct {
	URL             string
	HTML            string
	Text            string
	Title           string
	Depth           int
	PageType        PageType
	DiscoveredLinks []string
	FetchedVia      FetchMethod
	StatusCode      int
}

// RenderedPage is what a JSRenderer returns for a URL.
type RenderedPage struct {
	URL   string
	HTML  string
	Text  string
	Title string
}

// JSRenderer is the optional headless-browser collaborator (out of scope
// for this system per SPEC_FULL.md §1 — only the narrow interface lives
// here).
type JSRenderer interface {
	Render(ctx context.Context, url, renderID string) (*RenderedPage, error)
}

// Crawler performs bounded BFS crawls of a conference website.
type Crawler struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	renderer   JSRenderer // nil if JS rendering unavailable
}

// New builds a Crawler. renderer may be nil; NeedsJavaScript fallback is
// then skipped even if cfg.UseBowser is set.
func New(renderer JSRenderer) *Crawler {
	return &Crawler{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		renderer: renderer,
	}
}

// Crawl performs the bounded BFS described in SPEC_FULL.md §4.3.
func (c *Crawler) Crawl(ctx context.Context, baseURL string, cfg config.CrawlConfig) ([]CrawledPage, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("crawl: invalid base URL %q: %w", baseURL, err)
	}
	baseHost := strings.TrimPrefix(strings.ToLower(base.Host), "www.")

	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	if cfg.RequestsPerSecond <= 0 {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	c.limiter = limiter

	visited := make(map[string]bool)
	type queued struct {
		url   string
		depth int
	}
	queue := []queued{{url: baseURL, depth: 0}}

	pages := make([]CrawledPage, 0, cfg.MaxPages)

	for len(queue) > 0 {
		if len(pages) >= cfg.MaxPages {
			break
		}
		item := queue[0]
		queue = queue[1:]

		if item.depth > cfg.MaxDepth {
			continue
		}
		norm := NormalizeURL(item.url)
		if visited[norm] {
			continue
		}
		if isExcluded(item.url, cfg.ExcludePatterns) {
			continue
		}
		visited[norm] = true

		if err := c.limiter.Wait(ctx); err != nil {
			return pages, nil
		}

		page, err := c.fetchPage(ctx, item.url, item.depth, cfg)
		if err != nil {
			slog.Warn("crawler: fetch failed, skipping", "url", item.url, "error", err)
			continue
		}
		pages = append(pages, *page)

		for _, link := range page.DiscoveredLinks {
			abs, ok := resolveSameHost(item.url, link, baseHost)
			if !ok {
				continue
			}
			if isExcluded(abs, cfg.ExcludePatterns) {
				continue
			}
			next := queued{url: abs, depth: item.depth + 1}
			if matchesAny(abs, cfg.IncludePatterns) {
				queue = append([]queued{next}, queue...)
			} else {
				queue = append(queue, next)
			}
		}
	}

	return pages, nil
}

func (c *Crawler) fetchPage(ctx context.Context, rawURL string, depth int, cfg config.CrawlConfig) (*CrawledPage, error) {
	page, staticErr := c.fetchStatic(ctx, rawURL, depth, cfg.PageTimeoutSecs)

	needsBowser := staticErr != nil || (c.renderer != nil && cfg.UseBowser && NeedsJavaScript(page.HTML, page.Text))
	if cfg.UseBowser && c.renderer != nil && needsBowser {
		rendered, err := c.renderer.Render(ctx, rawURL, rawURL)
		if err == nil {
			page = &CrawledPage{
				URL:             rendered.URL,
				HTML:            rendered.HTML,
				Text:            rendered.Text,
				Title:           rendered.Title,
				Depth:           depth,
				FetchedVia:      FetchBowser,
				DiscoveredLinks: ExtractLinks(rendered.HTML),
			}
			page.PageType = DetectPageType(page.URL, page.Title)
			return page, nil
		}
		if staticErr != nil {
			return nil, fmt.Errorf("static fetch failed (%v) and bowser fallback failed: %w", staticErr, err)
		}
		// Static content still usable even though the JS-render fallback failed.
	}
	if staticErr != nil {
		return nil, staticErr
	}
	return page, nil
}

func (c *Crawler) fetchStatic(ctx context.Context, rawURL string, depth, timeoutSecs int) (*CrawledPage, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", rawURL, err)
	}
	html := string(body)
	title := ExtractTitle(html)

	page := &CrawledPage{
		URL:             rawURL,
		HTML:            html,
		Text:            HTMLToText(html),
		Title:           title,
		Depth:           depth,
		FetchedVia:      FetchStaticHTTP,
		DiscoveredLinks: ExtractLinks(html),
		StatusCode:      resp.StatusCode,
	}
	page.PageType = DetectPageType(page.URL, page.Title)
	return page, nil
}

// NormalizeURL removes the fragment and strips a trailing slash, except on
// the root path (SPEC_FULL.md §4.3, and the round-trip invariant of
// SPEC_FULL.md §10: normalize(u) == normalize(normalize(u))).
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	return u.String()
}

func isExcluded(raw string, patterns []string) bool {
	lower := strings.ToLower(raw)
	for _, p := range patterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

func matchesAny(raw string, patterns []string) bool {
	lower := strings.ToLower(raw)
	for _, p := range patterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// resolveSameHost resolves link against the page it was found on and
// reports whether the result shares baseHost (after "www." normalization on
// both sides, per SPEC_FULL.md §4.3 / scenario 5 in §10).
func resolveSameHost(pageURL, link, baseHost string) (string, bool) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}
	resolved, err := base.Parse(link)
	if err != nil {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(resolved.Host), "www.")
	if host != baseHost {
		return "", false
	}
	return resolved.String(), true
}
