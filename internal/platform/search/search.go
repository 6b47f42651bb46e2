// Package search provides a best-effort web reference lookup used to
// enrich generation prompts. Lookups are advisory: every failure mode
// degrades to an empty result set rather than an error the caller must
// handle.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	searchEndpoint = "https://html.duckduckgo.com/html/"

	// Browser UA: the HTML endpoint rejects default Go client strings.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	maxResults = 5
)

// Result is one search hit.
type Result struct {
	Title   string
	Snippet string
}

// Client performs reference searches against the DuckDuckGo HTML
// endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
}

// NewClient builds a search client with a short timeout; reference
// lookup must never stall a generation job for long.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   searchEndpoint,
		logger:     logger.With("component", "search_client"),
	}
}

// Search returns up to maxResults hits for the query. It never returns
// an error: network failures, bad status codes, and parse failures all
// yield an empty slice, logged at debug level.
func (c *Client) Search(ctx context.Context, query string) []Result {
	endpoint := fmt.Sprintf("%s?q=%s", c.endpoint, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Debug("building search request failed", "error", err)
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("search request failed", "query", query, "error", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("search returned non-200", "query", query, "status", resp.StatusCode)
		return nil
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		c.logger.Debug("parsing search response failed", "error", err)
		return nil
	}

	results := parseResults(doc)
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// FormatReferences renders results as a markdown reference block for
// inclusion in a prompt. Returns "" when there are no results.
func FormatReferences(results []Result) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("### References\n")
	for _, r := range results {
		fmt.Fprintf(&b, "- %s: %s\n", r.Title, r.Snippet)
	}
	return b.String()
}

// parseResults walks the document tree collecting the title and snippet
// of each result block.
func parseResults(doc *html.Node) []Result {
	var results []Result

	var walker func(*html.Node)
	walker = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "result") {
			title := textOfClass(n, "result__title")
			snippet := textOfClass(n, "result__snippet")
			if title != "" && snippet != "" {
				results = append(results, Result{Title: title, Snippet: snippet})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walker(c)
		}
	}
	walker(doc)

	return results
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// textOfClass returns the trimmed text content of the first descendant
// carrying the given class.
func textOfClass(n *html.Node, class string) string {
	var found *html.Node

	var locate func(*html.Node)
	locate = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && hasClass(n, class) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			locate(c)
		}
	}
	locate(n)

	if found == nil {
		return ""
	}

	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(found)

	return strings.Join(strings.Fields(b.String()), " ")
}
