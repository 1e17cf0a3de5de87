package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/tarsy/pkg/config"
)

func TestDetectPageType(t *testing.T) {
	cases := []struct {
		url, title string
		want       PageType
	}{
		{"https://x.example/", "", PageHomepage},
		{"https://x.example/speakers", "", PageSpeakers},
		{"https://x.example/speakers/jane-doe", "", PageSpeakerProfile},
		{"https://x.example/speakers/page/2", "", PageSpeakers},
		{"https://x.example/sponsors", "", PageSponsors},
		{"https://x.example/schedule", "", PageSchedule},
		{"https://x.example/about", "", PageAbout},
		{"https://x.example/exhibitors", "", PageExhibitors},
		{"https://x.example/team", "", PageTeam},
		{"https://x.example/random", "Meet our Speakers", PageSpeakers},
		{"https://x.example/random", "", PageOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectPageType(tc.url, tc.title), tc.url)
	}
}

func TestHTMLEntityDecode(t *testing.T) {
	got := htmlEntityDecode("Tom &amp; Jerry &mdash; a &quot;classic&quot;")
	assert.Equal(t, `Tom & Jerry — a "classic"`, got)
}

func TestNormalizeURLIdempotent(t *testing.T) {
	u := "https://x.example/speakers/?x=1#frag"
	n1 := NormalizeURL(u)
	n2 := NormalizeURL(n1)
	assert.Equal(t, n1, n2)
	assert.Equal(t, NormalizeURL("https://x.example/"), "https://x.example/")
}

func TestNeedsJavaScript(t *testing.T) {
	assert.True(t, NeedsJavaScript(`<div id="__NEXT_DATA__"></div>`, "hi"))
	assert.True(t, NeedsJavaScript(fmt.Sprintf("<html>%s</html>", make([]byte, 11000)), "short"))
	assert.False(t, NeedsJavaScript("<html><body>hello world</body></html>", "hello world plenty of text here to pass the five hundred character minimum threshold so this does not look javascript-rendered at all, repeating to pad length, repeating to pad length, repeating to pad length, repeating to pad length, repeating to pad length."))
}

func TestCrawlMaxPagesZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><title>Home</title><body>hi</body></html>`)
	}))
	defer srv.Close()

	c := New(nil)
	cfg := config.DefaultCrawlConfig()
	cfg.MaxPages = 0

	pages, err := c.Crawl(context.Background(), srv.URL, cfg)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestCrawlMaxDepthZero(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><title>Home</title><body><a href="/speakers">Speakers</a></body></html>`)
	})
	mux.HandleFunc("/speakers", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><title>Speakers</title><body>list</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(nil)
	cfg := config.DefaultCrawlConfig()
	cfg.MaxDepth = 0
	cfg.RequestsPerSecond = 0

	pages, err := c.Crawl(context.Background(), srv.URL, cfg)
	require.NoError(t, err)
	assert.Len(t, pages, 1)
	assert.Equal(t, PageHomepage, pages[0].PageType)
}

func TestCrawlSameHostContainment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><title>Home</title><body>
			<a href="/speakers">Speakers</a>
			<a href="https://other.example/x">Other</a>
		</body></html>`)
	})
	mux.HandleFunc("/speakers", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><title>Speakers</title><body>ok</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(nil)
	cfg := config.DefaultCrawlConfig()
	cfg.RequestsPerSecond = 0

	pages, err := c.Crawl(context.Background(), srv.URL, cfg)
	require.NoError(t, err)

	urls := make([]string, 0, len(pages))
	for _, p := range pages {
		urls = append(urls, p.URL)
	}
	assert.Contains(t, urls, srv.URL)
	assert.Contains(t, urls, srv.URL+"/speakers")
	for _, u := range urls {
		assert.NotContains(t, u, "other.example")
	}
}
