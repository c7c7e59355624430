package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]string, error)
}

// DuckDuckGoSearcher scrapes the no-JavaScript results page at html.duckduckgo.com.
type DuckDuckGoSearcher struct {
	endpoint   string
	httpClient *http.Client
}

func NewDuckDuckGoSearcher(endpoint string, httpClient *http.Client) *DuckDuckGoSearcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &DuckDuckGoSearcher{endpoint: endpoint, httpClient: httpClient}
}

func (d *DuckDuckGoSearcher) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	u, err := url.Parse(d.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid search endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	body, err := get(ctx, d.httpClient, u.String())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return ParseSearchResults(io.LimitReader(body, maxPageBytes), maxResults)
}

// ParseSearchResults returns the target URLs of result links, in page order, deduplicated.
func ParseSearchResults(r io.Reader, maxResults int) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if maxResults > 0 && len(links) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			if link := resolveResultURL(attr(n, "href")); link != "" && !seen[link] {
				seen[link] = true
				links = append(links, link)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

// resolveResultURL unwraps DuckDuckGo's redirect links (//duckduckgo.com/l/?uddg=<target>).
func resolveResultURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
