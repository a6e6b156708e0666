/*
Package scanner supplies tokenizers for feeding an earley.Parser: a thin
wrapper over the standard library's text/scanner (DefaultTokenizer), and
a lexmachine-backed adapter living in the lexmach subpackage, for
grammars needing full regex-based lexical rules.

Grounded on the teacher's lr/scanner package; adapted from gorgo.Token's
richer (TokType, Lexeme, Span, Value) interface down to the
(code int, attr interface{}) pair earley.TokenReader expects, since YAEP
terminals are addressed purely by integer code (spec §2).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright (c) 2017-2024 The YAEP-Go Authors
*/
package scanner

import (
	"fmt"
	"io"
	"text/scanner"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'yaep.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("yaep.scanner")
}

// Token types replicated from text/scanner for convenience, matching the
// teacher's scanner package.
const (
	EOF       = scanner.EOF
	Ident     = scanner.Ident
	Int       = scanner.Int
	Float     = scanner.Float
	Char      = scanner.Char
	String    = scanner.String
	RawString = scanner.RawString
	Comment   = scanner.Comment
)

// Token is one lexical unit: a terminal code paired with whatever
// attribute the translator should see attached to it (spec §2's
// "terminals carry an attribute").
type Token struct {
	Code   int
	Lexeme string
	Value  interface{}
	Pos    scanner.Position
}

// Tokenizer produces a stream of Tokens.
type Tokenizer interface {
	Next() Token
	SetErrorHandler(func(error))
}

// DefaultTokenizer is a Tokenizer backed by text/scanner.Scanner,
// classifying each scanned rune/literal with its text/scanner token type
// as its terminal code — suitable for prototyping a grammar before a
// dedicated lexer exists.
type DefaultTokenizer struct {
	scanner.Scanner
	Error        func(error)
	unifyStrings bool
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

func logError(e error) {
	tracer().Errorf("scanner error: %s", e.Error())
}

// GoTokenizer creates a tokenizer accepting tokens the way the Go
// language scanner does.
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{Error: logError}
	t.Init(input)
	t.Filename = sourceID
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// Next is part of the Tokenizer interface.
func (t *DefaultTokenizer) Next() Token {
	tok := t.Scan()
	if tok == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
	}
	if t.unifyStrings && (tok == scanner.RawString || tok == scanner.Char) {
		tok = scanner.String
	}
	return Token{Code: int(tok), Lexeme: t.TokenText(), Pos: t.Position}
}

// Option configures a DefaultTokenizer.
type Option func(t *DefaultTokenizer)

const (
	optionSkipComments uint = 1 << 1
	optionUnifyStrings uint = 1 << 2
)

// SkipComments sets or clears the SkipComments mode.
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings treats raw strings and single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) { t.unifyStrings = b }
}

func (t *DefaultTokenizer) hasmode(m uint) bool {
	if m == optionUnifyStrings {
		return t.unifyStrings
	}
	return t.Mode&m > 0
}

// Lexeme is a helper to stringify a token attribute for diagnostics.
func Lexeme(attr interface{}) string {
	switch v := attr.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// TokenReader adapts a Tokenizer to earley.Parser's TokenReader
// interface ((code int, attr interface{}) pairs), attaching the whole
// Token as the attribute so a translation can recover lexeme/position.
type TokenReader struct {
	Tok Tokenizer
}

// NewTokenReader wraps tok as an earley.TokenReader.
func NewTokenReader(tok Tokenizer) *TokenReader {
	return &TokenReader{Tok: tok}
}

// NextToken is part of earley.TokenReader.
func (r *TokenReader) NextToken() (int, interface{}) {
	tok := r.Tok.Next()
	return tok.Code, tok
}
