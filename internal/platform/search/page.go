package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// pageLimit bounds how much extracted page text is returned.
const pageLimit = 3000

// ReadPage fetches a web page and returns its visible text, truncated
// to a prompt-friendly length. Unlike Search this returns errors: the
// caller asked for a specific page and should hear when it cannot be
// read.
func (c *Client) ReadPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building page request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching page: status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing page: %w", err)
	}

	text := pageText(doc)
	if len(text) > pageLimit {
		runes := []rune(text)
		if len(runes) > pageLimit {
			text = string(runes[:pageLimit])
		}
	}
	return text, nil
}

// pageText collects the text nodes of a page, skipping script and
// style subtrees.
func pageText(doc *html.Node) string {
	var b strings.Builder

	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				b.WriteString(trimmed)
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(doc)

	return strings.TrimSpace(b.String())
}

// FindReferences runs a search and renders the hits as a markdown
// reference block. Returns "" when nothing useful comes back.
func (c *Client) FindReferences(ctx context.Context, query string) string {
	return FormatReferences(c.Search(ctx, query))
}
