// Package goquery implements sitemirror.Parser on top of goquery.
package goquery

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitemirror"
	"golang.org/x/net/html"
)

// Selectors for outbound links and for media the mirror downloads.
const (
	linkSelector     = "a[href]"
	resourceSelector = "link[rel~=stylesheet], img"
)

// Ensure Parser implements sitemirror.Parser at compile time.
var _ sitemirror.Parser = (*Parser)(nil)

// Parser extracts links and media references from HTML documents.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses body and returns the serialized document together with its
// outbound links and media references, all resolved to absolute URLs.
// A <base href> in the document takes precedence over baseURL.
func (p *Parser) Parse(body []byte, baseURL string) (*sitemirror.Page, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, sitemirror.Errorf(sitemirror.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, sitemirror.Errorf(sitemirror.EINVALID, "failed to parse HTML: %v", err)
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	var buf bytes.Buffer
	for _, n := range doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return nil, sitemirror.Errorf(sitemirror.EINTERNAL, "failed to render HTML: %v", err)
		}
	}

	return &sitemirror.Page{
		URL:       baseURL,
		HTML:      buf.Bytes(),
		Links:     extractLinks(doc, base),
		Resources: extractResources(doc, base),
	}, nil
}

// extractLinks returns the absolute http(s) targets of every anchor.
// Fragments are dropped and the result keeps first-occurrence order.
func extractLinks(doc *goquery.Document, base *url.URL) []string {
	seen := make(map[string]bool)
	var links []string

	doc.Find(linkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links
}

// extractResources returns stylesheet and image references.
// The href attribute is preferred over src; elements with neither are skipped.
func extractResources(doc *goquery.Document, base *url.URL) []sitemirror.Resource {
	seen := make(map[string]bool)
	var resources []sitemirror.Resource

	doc.Find(resourceSelector).Each(func(_ int, sel *goquery.Selection) {
		ref := strings.TrimSpace(sel.AttrOr("href", ""))
		if ref == "" {
			ref = strings.TrimSpace(sel.AttrOr("src", ""))
		}
		resolved := resolveURL(base, ref)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true

		kind := sitemirror.ResourceImage
		if goquery.NodeName(sel) == "link" {
			kind = sitemirror.ResourceStylesheet
		}
		resources = append(resources, sitemirror.Resource{URL: resolved, Kind: kind})
	})

	return resources
}
