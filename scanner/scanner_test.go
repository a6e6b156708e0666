package scanner

import (
	"strings"
	"testing"
)

func TestDefaultTokenizerScansIdents(t *testing.T) {
	tok := GoTokenizer("test", strings.NewReader("foo bar"))
	first := tok.Next()
	if first.Code != Ident {
		t.Fatalf("expected Ident, got code %d", first.Code)
	}
	if first.Lexeme != "foo" {
		t.Errorf("expected lexeme 'foo', got %q", first.Lexeme)
	}
	second := tok.Next()
	if second.Lexeme != "bar" {
		t.Errorf("expected lexeme 'bar', got %q", second.Lexeme)
	}
	eof := tok.Next()
	if eof.Code != EOF {
		t.Errorf("expected EOF after input exhausted, got code %d", eof.Code)
	}
}

func TestTokenReaderAdaptsToEarleyInterface(t *testing.T) {
	tok := GoTokenizer("test", strings.NewReader("42"))
	r := NewTokenReader(tok)
	code, attr := r.NextToken()
	if code != Int {
		t.Fatalf("expected Int code, got %d", code)
	}
	wrapped, ok := attr.(Token)
	if !ok || wrapped.Lexeme != "42" {
		t.Errorf("expected attr to be the original Token carrying lexeme '42', got %#v", attr)
	}
}
