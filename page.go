package sitemirror

// ResourceKind identifies the element a resource was referenced from.
type ResourceKind string

// Supported resource kinds.
const (
	ResourceStylesheet ResourceKind = "stylesheet"
	ResourceImage      ResourceKind = "image"
)

// Resource is an absolute media URL referenced by a page.
type Resource struct {
	URL  string
	Kind ResourceKind
}

// Page is a parsed HTML document.
type Page struct {
	URL string

	// HTML is the serialized document as it is written to disk.
	HTML []byte

	// Links are absolute http(s) URLs of outbound anchors, fragments
	// removed and duplicates collapsed, in document order.
	Links []string

	// Resources are the stylesheets and images the page references.
	Resources []Resource
}

// Parser turns a fetched document into a Page.
type Parser interface {
	// Parse parses body as HTML and resolves references against baseURL.
	Parse(body []byte, baseURL string) (*Page, error)
}
