/*
Package description implements a small YACC-like textual grammar
front-end (spec §6 item 2 "ReadGrammar/description parser"): a
description like

	%token PLUS 43
	%token NUM 256
	%start Sum

	Sum -> Sum PLUS Product { Add(0,2) } ;
	Sum -> Product ;

is compiled into calls against grammar.Grammar's programmatic
construction API (AddTerminal/AddRule/SetStart/Prepare).

Lexing is grounded on the teacher's terex/terexlang package (a
lexmachine-based DSL lexer); the recursive-descent parser follows the
teacher's terex/terexlang/parse.go structure of a small Pratt-ish/LL
parser hand-built over a token stream, adapted from s-expression
parsing to flat rule-list parsing.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright (c) 2017-2024 The YAEP-Go Authors
*/
package description

import (
	"fmt"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"

	"github.com/yaep-go/yaep/scanner"
	"github.com/yaep-go/yaep/scanner/lexmach"
)

// tracer traces with key 'yaep.description'.
func tracer() tracing.Trace {
	return tracing.Select("yaep.description")
}

const (
	tokArrow = iota + 1000 // "->"
	tokBar                 // "|"
	tokSemi                // ";"
	tokComma               // ","
	tokLBrace              // "{"
	tokRBrace              // "}"
	tokLParen              // "("
	tokRParen              // ")"
	tokPercentToken         // "%token"
	tokPercentStart         // "%start"
	tokID                   // bare identifier (nonterminal or terminal name)
	tokNum                  // integer literal
	tokString               // quoted literal terminal text
)

var literals = []string{"(", ")", "{", "}"}

var tokenIds map[string]int
var initOnce sync.Once

func initTokens() {
	initOnce.Do(func() {
		tokenIds = map[string]int{
			"->": tokArrow, "|": tokBar, ";": tokSemi, ",": tokComma,
			"{": tokLBrace, "}": tokRBrace, "(": tokLParen, ")": tokRParen,
			"%token": tokPercentToken, "%start": tokPercentStart,
			"ID": tokID, "NUM": tokNum, "STRING": tokString,
		}
	})
}

func makeToken(name string) lexmachine.Action {
	return lexmach.MakeToken(name, tokenIds[name])
}

// newLexer compiles the lexmachine DFA for grammar descriptions.
func newLexer() (*lexmach.Adapter, error) {
	initTokens()
	init := func(lx *lexmachine.Lexer) {
		lx.Add([]byte(`\#[^\n]*\n?`), lexmach.Skip) // comments
		lx.Add([]byte(`( |\t|\n|\r)+`), lexmach.Skip)
		lx.Add([]byte(`->`), makeToken("->"))
		lx.Add([]byte(`\|`), makeToken("|"))
		lx.Add([]byte(`;`), makeToken(";"))
		lx.Add([]byte(`,`), makeToken(","))
		lx.Add([]byte(`%token`), makeToken("%token"))
		lx.Add([]byte(`%start`), makeToken("%start"))
		lx.Add([]byte(`\"[^"]*\"`), makeToken("STRING"))
		lx.Add([]byte(`[0-9]+`), makeToken("NUM"))
		lx.Add([]byte(`([a-z]|[A-Z]|_)([a-zA-Z0-9_])*'?`), makeToken("ID"))
	}
	return lexmach.NewAdapter(init, literals, nil, tokenIds)
}

// tok is one lexed token, with its id resolved against tokenIds so the
// parser can switch on the symbolic constants above.
type tok struct {
	id     int
	lexeme string
}

func (t tok) String() string { return fmt.Sprintf("%s(%d)", t.lexeme, t.id) }

func tokenStream(src string) ([]tok, error) {
	lx, err := newLexer()
	if err != nil {
		return nil, err
	}
	s, err := lx.Scanner(src)
	if err != nil {
		return nil, err
	}
	var toks []tok
	for {
		t := s.Next()
		if t.Code == scanner.EOF {
			break
		}
		toks = append(toks, tok{id: t.Code, lexeme: t.Lexeme})
	}
	return toks, nil
}
