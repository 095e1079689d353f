//go:build !cgo

package parse

import (
	"context"
	stderrors "errors"

	"deporder/internal/syntax"
)

// ErrNoCGO is returned when parsing is unavailable due to missing CGO.
var ErrNoCGO = stderrors.New("parsing requires CGO (tree-sitter)")

// Parser is a stub for non-CGO builds.
type Parser struct{}

// NewParser returns a parser whose every call fails with ErrNoCGO.
func NewParser(opts Options) *Parser {
	return &Parser{}
}

// Parse always returns ErrNoCGO.
func (p *Parser) Parse(ctx context.Context, source []byte, lang Language) (*syntax.File, error) {
	return nil, ErrNoCGO
}

// ParseFile always returns ErrNoCGO.
func (p *Parser) ParseFile(ctx context.Context, path string, source []byte) (*syntax.File, error) {
	return nil, ErrNoCGO
}

// Close is a no-op.
func (p *Parser) Close() {}

// IsAvailable returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}
