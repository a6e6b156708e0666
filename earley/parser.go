package earley

import (
	"github.com/yaep-go/yaep"
	"github.com/yaep-go/yaep/grammar"
	"github.com/yaep-go/yaep/grammar/iteratable"
)

// TokenReader pulls tokens from the input, one at a time (spec §6
// "parse call"). NextToken returns the terminal's user-supplied code
// and an opaque attribute value attached to the token (used as a
// terminal translation-tree leaf's payload); it must return
// grammar.EOFCode exactly once, as the final call.
type TokenReader interface {
	NextToken() (code int, attr interface{})
}

// SyntaxErrorFunc is invoked at most once per parse, when error
// recovery fires (spec §4.8): errTok is the position where the scan
// failed, firstIgnored/firstRecovered delimit the skipped tokens.
type SyntaxErrorFunc func(errTok, firstIgnored, firstRecovered int)

// Option configures a Parser. Mirrors the functional-option / hasmode
// bitflag pattern of the teacher's lr/earley and lr/scanner packages.
type Option func(p *Parser)

const (
	optionStoreTokens uint = 1 << iota
	optionGenerateTree
)

// StoreTokens sets the parser's store-tokens mode bit. Defaults to true.
// Parse does not consult the bit: it always stores every input token,
// which translate.go needs to attach terminal attributes to leaves.
func StoreTokens(b bool) Option {
	return func(p *Parser) { p.setmode(optionStoreTokens, b) }
}

// GenerateTree sets the parser's generate-tree mode bit. Defaults to
// true. Parse does not consult the bit and never builds a tree itself;
// trees and forests come from explicit Translate/TranslateForest calls.
func GenerateTree(b bool) Option {
	return func(p *Parser) { p.setmode(optionGenerateTree, b) }
}

func (p *Parser) setmode(m uint, b bool) {
	if b {
		p.mode |= m
	} else {
		p.mode &^= m
	}
}

func (p *Parser) hasmode(m uint) bool { return p.mode&m > 0 }

// pendingToken is one token a failed recovery candidate pulled ahead
// from the reader and must hand back so the next candidate (or, on
// final success, the ordinary main loop) sees the same input again.
type pendingToken struct {
	code int
	attr interface{}
}

// nextToken pulls the next token, preferring anything a prior failed
// recovery candidate pushed back over pulling a fresh one from reader.
func (p *Parser) nextToken() (int, interface{}) {
	if len(p.pending) > 0 {
		t := p.pending[0]
		p.pending = p.pending[1:]
		return t.code, t.attr
	}
	return p.reader.NextToken()
}

// pushback returns a pulled-ahead token to the front of the queue so a
// later call to nextToken replays it before consulting reader again.
func (p *Parser) pushback(code int, attr interface{}) {
	p.pending = append([]pendingToken{{code, attr}}, p.pending...)
}

// Parser recognizes input against a prepared Grammar (spec §3
// "Ownership": the grammar is shared read-only; a Parser exclusively
// owns the parse list, transition cache, Leo table and token buffer —
// everything that must not outlive, or be shared across, one parse).
type Parser struct {
	g *grammar.Grammar

	items *itemInterner
	cores *coreInterner
	sets  *setInterner

	pl     *ParseList
	tokens []int // terminal codes consumed, index-aligned with pl (tokens[k] led to pl[k+1])
	attrs  []interface{}

	transitions map[transKey]*Core
	leo         *leoTable

	mode uint

	backlinks map[string]backlink // keyed by structhash of (item, set index): the completer item that produced a completion; recorded only, nothing reads it back

	reader     TokenReader        // the token stream being parsed; also pulled ahead by recover's j search
	pending    []pendingToken     // tokens pulled ahead by a failed recovery candidate, replayed in order before reader is consulted again
	errorSpans map[int]*errorSpan // keyed by the pl index right after an `error` production's shift, for translate.go

	SyntaxError SyntaxErrorFunc

	ambiguous bool
}

type backlink struct {
	completer *Item
	originSet int
}

type transKey struct {
	coreID int
	symbol int
}

// NewParser creates a Parser bound to a prepared grammar. g must have
// had Prepare called successfully.
func NewParser(g *grammar.Grammar, opts ...Option) *Parser {
	p := &Parser{
		g:           g,
		items:       newItemInterner(),
		cores:       newCoreInterner(),
		sets:        newSetInterner(),
		pl:          newParseList(512),
		transitions: make(map[transKey]*Core),
		leo:         newLeoTable(),
		mode:        optionStoreTokens | optionGenerateTree,
		backlinks:   make(map[string]backlink),
		errorSpans:  make(map[int]*errorSpan),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// startItem interns and returns [S' → •Start #eof, lookahead={#eof}].
func (p *Parser) startItem() *Item {
	rule := p.g.Rule(0)
	la := grammar.NewTermSetForGrammar(p.g)
	la.AddSymbol(p.g.EOF())
	return p.items.intern(rule, 0, la)
}

// Parse runs the recognizer to completion over the token stream read
// from tr (spec §4.4's main loop). It returns whether the input was
// accepted; the tree or forest is built afterwards by Translate or
// TranslateForest.
func (p *Parser) Parse(tr TokenReader) (accept bool, err error) {
	p.reader = tr

	initial := newCoreBuilder()
	initial.addPredicted(p.startItem())
	core0 := p.cores.intern(initial, nil)
	set0 := p.sets.intern(core0, nil)
	p.pl.append(set0)
	p.closeSet(0, -1) // predict+complete the initial set to saturation

	code, attr := p.nextToken()
	k := 0
	for code != grammar.EOFCode {
		next, stepErr := p.tryStep(k, code, attr)
		if stepErr != nil {
			return false, stepErr
		}
		if next == nil {
			if !p.g.ErrorRecovery() {
				return false, yaep.NewError(yaep.ParseError, "unexpected token code %d at position %d", code, k)
			}
			resumeK, nextCode, nextAttr, recoveryErr := p.recover(k, code, attr)
			if recoveryErr != nil {
				return false, recoveryErr
			}
			k, code, attr = resumeK, nextCode, nextAttr
			continue
		}
		p.tokens = append(p.tokens, code)
		p.attrs = append(p.attrs, attr)
		p.pl.append(next)
		k++
		code, attr = p.nextToken()
	}

	// Scan the explicit end-of-input terminal so the augmented start
	// rule [S' -> Start #eof] can actually reach its complete state;
	// without this step checkAccept never sees a complete rule-0 item.
	eofSet, eofErr := p.tryStep(k, grammar.EOFCode, attr)
	if eofErr != nil {
		return false, eofErr
	}
	if eofSet != nil {
		p.tokens = append(p.tokens, grammar.EOFCode)
		p.attrs = append(p.attrs, attr)
		p.pl.append(eofSet)
	}

	accept = p.checkAccept()
	return accept, nil
}

// tryStep computes (or fetches from the transition cache) the set that
// follows pl[k] on terminal code (spec §4.4). A nil Set with a nil
// error means no viable transition exists and the caller should invoke
// error recovery; a non-nil error means code itself names no
// registered terminal.
func (p *Parser) tryStep(k, code int, attr interface{}) (*Set, error) {
	prev := p.pl.at(k)
	sym := p.g.Terminal(code)
	if sym == nil {
		return nil, yaep.NewError(yaep.InvalidTokenCode, "no terminal registered for code %d", code)
	}
	key := transKey{coreID: prev.Core.ID, symbol: sym.Code}
	if cachedCore, ok := p.transitions[key]; ok {
		distances := p.recomputeDistances(k, cachedCore)
		next := p.sets.intern(cachedCore, distances)
		if len(next.Core.Items) > 0 {
			return next, nil
		}
	}
	next := p.buildNewSet(k, sym)
	if next == nil || len(next.Core.Items) == 0 {
		return nil, nil
	}
	p.transitions[key] = next.Core
	return next, nil
}

// recomputeDistances reconstructs a cached core's distance vector
// against the CURRENT predecessor pl[k], using each start item's
// parentRef — this is what makes reusing a transition-cache hit valid
// even though the predecessor differs from whichever earlier parse
// position first produced this Core (spec §4.4/§4.5).
func (p *Parser) recomputeDistances(k int, core *Core) []int {
	distances := make([]int, core.NStart)
	for i := 0; i < core.NStart; i++ {
		distances[i] = p.pl.resolveParent(k+1, core.Parents[i], distances)
	}
	return distances
}

// buildNewSet performs scan, then interleaved complete/predict to
// closure, for the transition out of pl[k] on terminal t (spec §4.5,
// §4.6). It returns the freshly interned Set (which may be empty,
// signalling that t cannot be scanned from pl[k]).
func (p *Parser) buildNewSet(k int, t *grammar.Symbol) *Set {
	prev := p.pl.at(k)
	b := newCoreBuilder()
	distances := []int{}

	work := iteratable.NewSet(0)

	vect := prev.Core.SymbVect(t)
	for _, idx := range vect.Transitions() {
		it := prev.Core.Items[idx]
		advanced := p.items.advance(it)
		b.addStart(advanced, parentRef{kind: parentScan, idx: idx})
		distances = append(distances, p.pl.distanceOf(k, idx))
		work.Add(advanced)
	}

	// Completion cascades until no new item is added (spec §4.5 step 2).
	// iteratable.Set's work-queue semantics (Add during iteration is
	// still visited) let us drive this with one linear pass.
	work.IterateOnce()
	for work.Next() {
		it := work.Item().(*Item)
		if !it.Complete() {
			continue
		}
		srcIdx := indexOfStartItem(b, it)
		if srcIdx < 0 {
			continue // predicted-closure completions are handled in the predict phase below
		}
		origin := distances[srcIdx]
		if handled := p.leo.tryComplete(p, k+1, it.Rule.LHS, origin, b, &distances, work, srcIdx); handled {
			continue
		}
		waitingCore := p.pl.at(origin).Core
		rv := waitingCore.SymbVect(it.Rule.LHS)
		for _, j := range rv.Reduces() {
			waiting := waitingCore.Items[j]
			advanced := p.items.advance(waiting)
			p.addCompletionResult(b, &distances, work, advanced, origin, j, srcIdx)
			if advanced.Complete() {
				p.recordBacklink(advanced, k+1, it)
			}
		}
	}

	p.predict(k+1, b, &distances, work)

	core := p.cores.intern(b, t)
	return p.sets.intern(core, distances)
}

// addCompletionResult appends item as a start item of the forming
// core, provided it is not already present (spec §4.5's "New items are
// appended only if the interned (sit, parent_index) pair is not already
// present" per-set dedup), and enqueues it onto the completion work
// queue for further cascading.
// addCompletionResult appends item as a start item of the forming
// core, provided it is not already present, with its origin resolved
// from the WAITING item's own distance (distance propagates from the
// item that was advanced, not from the span start of the symbol that
// was just completed) — see parentRef's doc comment in core.go.
func (p *Parser) addCompletionResult(b *coreBuilder, distances *[]int, work *iteratable.Set, item *Item, waitingSetIdx, parentIdx, triggerSrcIdx int) {
	p.addCompletionResultResolved(b, distances, work, item, p.pl.distanceOf(waitingSetIdx, parentIdx), parentIdx, triggerSrcIdx)
}

// addCompletionResultResolved is the same operation but with the
// item's distance already resolved by the caller (used by Leo, which
// computes the target origin itself, and by the nullable-dot-advance
// closure, which reuses the waiting item's existing distance
// verbatim).
func (p *Parser) addCompletionResultResolved(b *coreBuilder, distances *[]int, work *iteratable.Set, item *Item, resolvedOrigin, parentIdx, triggerSrcIdx int) {
	if already(b, item) {
		return
	}
	b.addStart(item, parentRef{kind: parentComplete, idx: parentIdx, sourceIdx: triggerSrcIdx})
	*distances = append(*distances, resolvedOrigin)
	work.Add(item)
}

func indexOfStartItem(b *coreBuilder, it *Item) int {
	for i := 0; i < b.nStart; i++ {
		if b.items[i] == it {
			return i
		}
	}
	return -1
}

func (p *Parser) recordBacklink(completeItem *Item, setIdx int, viaCompleterOf *Item) {
	h := backlinkFingerprint(completeItem, setIdx)
	p.backlinks[h] = backlink{completer: viaCompleterOf, originSet: setIdx}
}

// predict adds dot-zero items to the forming set for every nonterminal
// appearing right after the dot in any item already present, including
// items predict itself adds (closure), and immediately advances past
// nullable symbols (spec §4.6). The core is finalized (by the caller)
// only once this reaches a fixed point.
func (p *Parser) predict(k int, b *coreBuilder, distances *[]int, work *iteratable.Set) {
	seen := make(map[*grammar.Symbol]*grammar.TermSet)
	predicted := iteratable.NewSet(0)
	for _, it := range b.items {
		queuePrediction(p, it, seen, predicted)
	}
	predicted.IterateOnce()
	for predicted.Next() {
		it := predicted.Item().(*Item)
		if already(b, it) {
			continue
		}
		b.addPredicted(it)
		queuePrediction(p, it, seen, predicted)
		if it.EmptyTail && it.Rule.LHS != nil {
			// nullable predicted rule: its completion is immediate.
			// Treat it as though it were just completed with origin k.
			advancedChain(p, k, it, b, distances, predicted)
		}
	}
}

func already(b *coreBuilder, it *Item) bool {
	for _, x := range b.items {
		if x == it {
			return true
		}
	}
	return false
}

func queuePrediction(p *Parser, it *Item, seen map[*grammar.Symbol]*grammar.TermSet, predicted *iteratable.Set) {
	B := it.PeekSymbol()
	if B == nil || B.Terminal {
		return
	}
	rest := it.Rule.RHS[it.Dot+1:]
	la := p.g.Analysis().FirstOfString(rest)
	if la.HasEpsilon() {
		la = mergeWithFollow(la, it.Lookahead)
	}
	if prior, ok := seen[B]; ok && prior == la {
		return
	}
	seen[B] = la
	for _, r := range p.g.FindNonTermRules(B) {
		item := p.items.intern(r, 0, la)
		predicted.Add(item)
	}
}

// mergeWithFollow folds a predicting item's own lookahead in when the
// predicted nonterminal's remaining RHS is itself nullable (so the
// predicted rule's effective right context extends past the
// predicting item, per spec §4.6's "lookahead context computed from
// the union of the right contexts of the items that predicted N").
func mergeWithFollow(la, outer *grammar.TermSet) *grammar.TermSet {
	merged := la.Clone()
	merged.UnionExceptEpsilon(outer)
	if outer.HasEpsilon() {
		merged.AddEpsilon()
	}
	return merged
}

// advancedChain handles the "dotting past a nullable symbol is
// equivalent to predicting further" rule of spec §4.6: when a freshly
// predicted item's entire tail is nullable, every item in the forming
// set waiting on its LHS can advance immediately, exactly as if the
// nullable nonterminal had been completed with origin k.
func advancedChain(p *Parser, k int, nullableItem *Item, b *coreBuilder, distances *[]int, predicted *iteratable.Set) {
	B := nullableItem.Rule.LHS
	for i := 0; i < len(b.items); i++ {
		waiting := b.items[i]
		if waiting.PeekSymbol() != B {
			continue
		}
		advanced := p.items.advance(waiting)
		if i < b.nStart {
			// Completing a nullable symbol spans zero tokens: the
			// advanced item keeps the SAME origin the waiting item
			// already had, not the current position k.
			p.addCompletionResultResolved(b, distances, predicted, advanced, (*distances)[i], i, i)
		} else {
			predicted.Add(advanced)
		}
	}
}

// checkAccept reports whether the final set contains a complete item
// for the start rule with origin 0 (spec §4.10).
func (p *Parser) checkAccept() bool {
	last := p.pl.at(p.pl.len() - 1)
	for i, it := range last.Core.Items {
		if it.Complete() && it.Rule.ID == 0 {
			origin := p.pl.distanceOf(p.pl.len()-1, i)
			if origin == 0 {
				return true
			}
		}
	}
	return false
}

// closeSet runs predict+complete on an already-appended set with no
// predecessor transition (used only for the initial set 0).
func (p *Parser) closeSet(k int, _ int) {
	set := p.pl.at(k)
	b := newCoreBuilder()
	distances := []int{}
	work := iteratable.NewSet(0)
	for _, it := range set.Core.Items {
		b.addPredicted(it)
		work.Add(it)
	}
	p.predict(k, b, &distances, work)
	core := p.cores.intern(b, nil)
	newSet := p.sets.intern(core, distances)
	p.pl.sets[k] = newSet
}
