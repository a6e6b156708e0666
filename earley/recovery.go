package earley

import (
	"github.com/yaep-go/yaep"
	"github.com/yaep-go/yaep/grammar"
)

// maxRecoverySkipAhead bounds how many upcoming tokens one recovery
// candidate will absorb while searching for a validating window
// before giving up on it (spec §4.8's j search is bounded, not
// exhaustive over the rest of the input).
const maxRecoverySkipAhead = 64

// errorSpan records the tokens one error-recovery repair absorbed, so
// translate.go can attach them as ordered children of an `error` tree
// node (spec §4.8 "scenario 5"). Keyed by the parse-list index
// immediately following the repair's shift over the `error` symbol —
// the position split()/matchFrom would otherwise look for a completed
// `error` item at, which never exists (`error` has no rules of its
// own; it is injected structurally by recover, not completed).
type errorSpan struct {
	start  int // parse-list position the repair resumed from
	tokens []int
	attrs  []interface{}
}

// recover searches for the minimal-cost (i, j) repair after a scan
// failure at position k on failingCode (spec §4.8): i is the number of
// already-scanned tokens rewound before trying an `error` production,
// and j is the number of upcoming tokens — starting with the failing
// one — absorbed into that production before ordinary scanning
// resumes. Candidates are tried in order of increasing i (preferring
// the least rewound repair); for each, tryRecoverAt grows j until the
// next RecoveryTokenMatches tokens scan cleanly from the repaired
// state. On success, SyntaxError is reported exactly once and the
// absorbed tokens are recorded for the translator.
func (p *Parser) recover(k, failingCode int, failingAttr interface{}) (resumeK, nextCode int, nextAttr interface{}, err error) {
	errSym := p.g.ErrorSymbol()
	for i := 0; i <= k; i++ {
		back := k - i
		set := p.pl.at(back)
		if len(set.Core.SymbVect(errSym).Transitions()) == 0 {
			continue
		}
		rk, nc, na, ok := p.tryRecoverAt(back, failingCode, failingAttr)
		if !ok {
			continue
		}
		if p.SyntaxError != nil {
			// Tokens from back onward are dropped; the error span absorbed
			// the failing token and the ones skipped after it.
			span := p.errorSpans[back+1]
			p.SyntaxError(k, back, k+len(span.tokens))
		}
		return rk, nc, na, nil
	}
	return 0, 0, nil, yaep.NewError(yaep.ParseError, "no error-recovery production covers the failure at position %d", k)
}

// tryRecoverAt attempts one i-candidate rooted at parse-list position
// back: it rewinds the parse list to back, shifts over the `error`
// symbol (exactly like scanning a one-token terminal — the structural
// span is always [back, back+1), regardless of how many real tokens j
// ends up absorbing), then greedily grows j by pulling tokens from the
// reader. A token that fails to scan from the repaired state is folded
// into the error span (j grows, spec §4.8); RecoveryTokenMatches
// consecutive tokens that DO scan validate the repair and are appended
// to the parse list as the genuine continuation.
func (p *Parser) tryRecoverAt(back, failingCode int, failingAttr interface{}) (resumeK, nextCode int, nextAttr interface{}, ok bool) {
	p.pl.truncate(back + 1)
	p.tokens = p.tokens[:back]
	p.attrs = p.attrs[:back]

	errorSet := p.buildNewSet(back, p.g.ErrorSymbol())
	if errorSet == nil || len(errorSet.Core.Items) == 0 {
		return 0, 0, nil, false
	}

	// pulled remembers every token this attempt drew from the queue/
	// reader, oldest first, so a failed attempt can hand them all back
	// for the next (further-rewound) candidate to see again.
	var pulled []pendingToken
	fail := func() (int, int, interface{}, bool) {
		for i := len(pulled) - 1; i >= 0; i-- {
			p.pushback(pulled[i].code, pulled[i].attr)
		}
		return 0, 0, nil, false
	}

	p.pl.append(errorSet)
	// Keep p.tokens/p.attrs index-aligned with p.pl (invariant documented
	// on Parser: tokens[k] led to pl[k+1]): the error shift occupies one
	// pl slot regardless of how many real tokens its span absorbs, so it
	// needs exactly one representative entry here. Nothing ever reads it
	// back through tokenAt/attrAt for an `error`-labelled RHS position
	// (translate.go special-cases those via errorSpanAt instead), but
	// every ordinary terminal position after it depends on this slot
	// existing to stay correctly indexed.
	p.tokens = append(p.tokens, failingCode)
	p.attrs = append(p.attrs, failingAttr)
	atK := back + 1

	skipped := []int{failingCode}
	attrs := []interface{}{failingAttr}

	need := int(p.g.RecoveryTokenMatches())
	matched := 0
	var code int
	var attr interface{}
	ranOutOfInput := false
	for matched < need {
		code, attr = p.nextToken()
		pulled = append(pulled, pendingToken{code, attr})
		if code == grammar.EOFCode {
			ranOutOfInput = true
			break
		}
		next, stepErr := p.tryStep(atK, code, attr)
		if stepErr != nil || next == nil {
			if len(skipped) >= maxRecoverySkipAhead {
				return fail()
			}
			skipped = append(skipped, code)
			attrs = append(attrs, attr)
			matched = 0
			continue
		}
		p.pl.append(next)
		p.tokens = append(p.tokens, code)
		p.attrs = append(p.attrs, attr)
		atK++
		matched++
	}

	p.recordErrorSpan(back+1, back, skipped, attrs)

	if ranOutOfInput {
		return atK, code, attr, true
	}
	nextCode, nextAttr = p.nextToken()
	return atK, nextCode, nextAttr, true
}

// recordErrorSpan stores the tokens one repair absorbed, keyed by the
// parse-list index right after the `error` shift.
func (p *Parser) recordErrorSpan(end, start int, tokens []int, attrs []interface{}) {
	p.errorSpans[end] = &errorSpan{start: start, tokens: tokens, attrs: attrs}
}

// errorSpanAt returns the recorded repair whose shift starts at pos,
// if any.
func (p *Parser) errorSpanAt(pos int) (*errorSpan, bool) {
	span, ok := p.errorSpans[pos+1]
	if !ok || span.start != pos {
		return nil, false
	}
	return span, true
}
