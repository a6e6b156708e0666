/*
Package lexmach adapts github.com/timtadh/lexmachine's DFA-based lexer
to the scanner.Tokenizer interface, for grammars whose terminals need
full regex lexical rules rather than text/scanner's Go-ish defaults.

Grounded on the teacher's lr/scanner/lexmach package.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright (c) 2017-2024 The YAEP-Go Authors
*/
package lexmach

import (
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/yaep-go/yaep/scanner"
)

// tracer traces with key 'yaep.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("yaep.scanner")
}

// Adapter wraps a compiled lexmachine.Lexer.
type Adapter struct {
	Lexer *lexmachine.Lexer
}

// NewAdapter builds and compiles a lexmachine DFA: init installs the
// grammar-specific regex rules, literals/keywords are added as exact
// matches, and tokenIds maps literal/keyword text to the terminal code
// the earley parser should see.
func NewAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string, tokenIds map[string]int) (*Adapter, error) {
	a := &Adapter{Lexer: lexmachine.NewLexer()}
	init(a.Lexer)
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		a.Lexer.Add([]byte(r), MakeToken(lit, tokenIds[lit]))
	}
	for _, name := range keywords {
		a.Lexer.Add([]byte(strings.ToLower(name)), MakeToken(name, tokenIds[name]))
	}
	if err := a.Lexer.Compile(); err != nil {
		tracer().Errorf("error compiling DFA: %v", err)
		return nil, err
	}
	return a, nil
}

// Scanner creates a Tokenizer over input.
func (a *Adapter) Scanner(input string) (*Scanner, error) {
	s, err := a.Lexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	return &Scanner{scanner: s, Error: logError}, nil
}

// Scanner is a scanner.Tokenizer backed by a compiled lexmachine DFA.
type Scanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
}

var _ scanner.Tokenizer = (*Scanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (s *Scanner) SetErrorHandler(h func(error)) {
	if h == nil {
		s.Error = logError
		return
	}
	s.Error = h
}

func logError(e error) {
	tracer().Errorf("scanner error: %s", e.Error())
}

// Next is part of scanner.Tokenizer.
func (s *Scanner) Next() scanner.Token {
	tok, err, eof := s.scanner.Next()
	for err != nil {
		s.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			s.scanner.TC = ui.FailTC
		}
		tok, err, eof = s.scanner.Next()
	}
	if eof {
		return scanner.Token{Code: scanner.EOF}
	}
	token := tok.(*lexmachine.Token)
	return scanner.Token{
		Code:   token.Type,
		Lexeme: string(token.Lexeme),
		Value:  token.Value,
	}
}

// Skip is a pre-defined lexmachine action that ignores the match
// (whitespace, comments, ...).
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined lexmachine action wrapping a match into a
// token carrying id as its terminal code.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
