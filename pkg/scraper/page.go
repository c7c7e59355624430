// Package scraper holds the two live collaborators used for hotel discovery: a web search
// that returns result URLs and a page fetcher that pulls a title and meta description.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

const userAgent = "Mozilla/5.0 (compatible; TravelBuddy/1.0)"

// Pages over this size are truncated before parsing; the head is all we read.
const maxPageBytes = 2 << 20

type PageDetails struct {
	Title       string
	Description string
	URL         string
}

type PageFetcher interface {
	Fetch(ctx context.Context, url string) (PageDetails, error)
}

type HTTPPageFetcher struct {
	httpClient *http.Client
}

func NewHTTPPageFetcher(httpClient *http.Client) *HTTPPageFetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPPageFetcher{httpClient: httpClient}
}

func (f *HTTPPageFetcher) Fetch(ctx context.Context, url string) (PageDetails, error) {
	body, err := get(ctx, f.httpClient, url)
	if err != nil {
		return PageDetails{}, err
	}
	defer body.Close()

	details, err := ExtractPageDetails(io.LimitReader(body, maxPageBytes))
	if err != nil {
		return PageDetails{}, fmt.Errorf("parse %s: %w", url, err)
	}
	details.URL = url
	return details, nil
}

// ExtractPageDetails reads the document title and <meta name="description">.
func ExtractPageDetails(r io.Reader) (PageDetails, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return PageDetails{}, err
	}

	var details PageDetails
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if details.Title == "" && n.FirstChild != nil {
					details.Title = strings.TrimSpace(textContent(n))
				}
			case "meta":
				if details.Description == "" && strings.EqualFold(attr(n, "name"), "description") {
					details.Description = strings.TrimSpace(attr(n, "content"))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if details.Title == "" {
		details.Title = "No title"
	}
	if details.Description == "" {
		details.Description = "No description available"
	}
	return details, nil
}

func get(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
