// Package mock provides test doubles for codediff interfaces.
package mock

import (
	"io"

	"github.com/fwojciec/codediff"
)

// Compile-time interface verification.
var _ codediff.Parser = (*Parser)(nil)

// Parser is a mock implementation of codediff.Parser.
type Parser struct {
	ParseFn func(r io.Reader) (*codediff.DiffBundle, error)
}

func (p *Parser) Parse(r io.Reader) (*codediff.DiffBundle, error) {
	return p.ParseFn(r)
}
