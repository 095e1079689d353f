//go:build cgo

package parse

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"deporder/internal/errors"
	"deporder/internal/syntax"
)

// Parser wraps a tree-sitter parser. It is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
	opts   Options
}

// NewParser creates a new tree-sitter parser.
func NewParser(opts Options) *Parser {
	return &Parser{
		parser: sitter.NewParser(),
		opts:   opts,
	}
}

// Parse parses source code and converts it into a syntax tree.
func (p *Parser) Parse(ctx context.Context, source []byte, lang Language) (*syntax.File, error) {
	tsLang, err := getLanguage(lang)
	if err != nil {
		return nil, err
	}

	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.Wrap(errors.ParseFailed, "tree-sitter", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	c := &converter{src: source, attachComments: p.opts.AttachComments}
	file := &syntax.File{
		Language: string(lang),
		Source:   source,
		Root:     c.convert(root),
	}
	if root.HasError() {
		file.Errors = collectErrors(root)
	}
	return file, nil
}

// ParseFile parses source whose grammar is chosen by path.
func (p *Parser) ParseFile(ctx context.Context, path string, source []byte) (*syntax.File, error) {
	lang, err := Detect(path)
	if err != nil {
		return nil, err
	}
	file, err := p.Parse(ctx, source, lang)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	file.Path = path
	return file, nil
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	p.parser.Close()
}

// IsAvailable returns whether tree-sitter parsing is compiled in.
func IsAvailable() bool {
	return true
}

func getLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	default:
		return nil, errors.New(errors.UnsupportedLanguage, fmt.Sprintf("unsupported language: %s", lang))
	}
}

// collectErrors returns the spans of ERROR and missing nodes in source order.
func collectErrors(n *sitter.Node) []syntax.Span {
	var out []syntax.Span
	var visit func(*sitter.Node)
	visit = func(n *sitter.Node) {
		if n.Type() == "ERROR" || n.IsMissing() {
			out = append(out, spanOf(n))
			return
		}
		if !n.HasError() {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(n)
	return out
}
