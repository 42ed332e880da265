
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

// Package langreg wraps the chroma lexer set into a read-only language
// registry. The registry is built once at startup and passed to the
// layers that need it, it is never mutated afterwards.
package langreg

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromaLexers "github.com/alecthomas/chroma/v2/lexers"
)

// PlainText is the fallback language identifier.
const PlainText = "plaintext"

type Registry struct {
	// Language identifier (lexer alias) -> human readable name
	display map[string]string
	// Sorted list of language identifiers
	names []string
}

func New() *Registry {
	reg := &Registry{
		display: make(map[string]string),
	}

	for _, name := range chromaLexers.Names(true) {
		lexer := chromaLexers.Get(name)
		if lexer == nil {
			continue
		}
		reg.display[strings.ToLower(name)] = lexer.Config().Name
	}

	// Chroma's fallback lexer is not always listed
	reg.display[PlainText] = "plaintext"

	for name := range reg.display {
		reg.names = append(reg.names, name)
	}
	sort.Strings(reg.names)

	return reg
}

// Names returns all known language identifiers, sorted.
func (reg *Registry) Names() []string {
	return reg.names
}

// Languages returns the identifier -> display name table.
func (reg *Registry) Languages() map[string]string {
	return reg.display
}

// Valid reports whether language resolves against the registry.
func (reg *Registry) Valid(language string) bool {
	_, ok := reg.display[strings.ToLower(language)]
	return ok
}

// Normalize maps a language to its canonical lower case identifier.
// Unknown languages fall back to plaintext.
func (reg *Registry) Normalize(language string) string {
	name := strings.ToLower(language)
	if _, ok := reg.display[name]; ok {
		return name
	}
	return PlainText
}

// Infer guesses the language of content. When fileName is set, it is
// matched against the lexer filename patterns first; a lexer guessed
// from content alone is only trusted if its patterns agree with the
// supplied filename. Falls back to plaintext.
func (reg *Registry) Infer(content string, fileName string) string {
	var lexer chroma.Lexer

	if fileName != "" {
		lexer = chromaLexers.Match(filepath.Base(fileName))
		if lexer == nil {
			lexer = chromaLexers.Analyse(content)
			if lexer != nil && !matchesFileName(lexer, fileName) {
				lexer = nil
			}
		}
	} else {
		lexer = chromaLexers.Analyse(content)
	}

	if lexer == nil {
		return PlainText
	}

	return lexerAlias(lexer)
}

// MimeType returns the MIME type to serve a paste download with.
func (reg *Registry) MimeType(language string) string {
	lexer := chromaLexers.Get(language)
	if lexer == nil {
		return "application/octet-stream"
	}

	mimeTypes := lexer.Config().MimeTypes
	if len(mimeTypes) == 0 {
		return "application/octet-stream"
	}

	return mimeTypes[0]
}

func matchesFileName(lexer chroma.Lexer, fileName string) bool {
	base := filepath.Base(fileName)
	for _, pattern := range lexer.Config().Filenames {
		ok, err := filepath.Match(pattern, base)
		if err == nil && ok {
			return true
		}
	}
	return false
}

func lexerAlias(lexer chroma.Lexer) string {
	cfg := lexer.Config()
	if len(cfg.Aliases) > 0 {
		return strings.ToLower(cfg.Aliases[0])
	}
	return strings.ToLower(cfg.Name)
}
