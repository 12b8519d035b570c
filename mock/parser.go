package mock

import "github.com/fwojciec/sitemirror"

var _ sitemirror.Parser = (*Parser)(nil)

// Parser is a mock implementation of sitemirror.Parser.
type Parser struct {
	ParseFn func(body []byte, baseURL string) (*sitemirror.Page, error)
}

func (p *Parser) Parse(body []byte, baseURL string) (*sitemirror.Page, error) {
	return p.ParseFn(body, baseURL)
}
