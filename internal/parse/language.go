// Package parse turns TypeScript and JavaScript source into syntax trees.
package parse

import (
	"path/filepath"
	"strings"

	"deporder/internal/errors"
)

// Language identifies a grammar.
type Language string

const (
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangJavaScript Language = "javascript"
)

var extensions = map[string]Language{
	".ts":  LangTypeScript,
	".mts": LangTypeScript,
	".cts": LangTypeScript,
	".tsx": LangTSX,
	".js":  LangJavaScript,
	".mjs": LangJavaScript,
	".cjs": LangJavaScript,
	".jsx": LangJavaScript,
}

// LanguageFromPath detects the grammar for path by its extension.
func LanguageFromPath(path string) (Language, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// Detect is LanguageFromPath returning an UNSUPPORTED_LANGUAGE error.
func Detect(path string) (Language, error) {
	lang, ok := LanguageFromPath(path)
	if !ok {
		return "", errors.New(errors.UnsupportedLanguage, "no grammar for "+filepath.Ext(path)).WithPath(path)
	}
	return lang, nil
}

// Supported reports whether path has a recognized source extension.
func Supported(path string) bool {
	_, ok := LanguageFromPath(path)
	return ok
}

// Options controls how trees are built.
type Options struct {
	// AttachComments makes comments directly above a member travel with it.
	AttachComments bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{AttachComments: true}
}
