package earley

import (
	"github.com/yaep-go/yaep"
	"github.com/yaep-go/yaep/grammar"
)

// TreeNode is one node of a translation tree (spec §3 "TranslationNode",
// §4.10). Exactly one of Anode/Terminal/Alt is meaningful, selected by
// Kind.
type TreeNode struct {
	Kind NodeKind

	// Forward/Anode:
	Symbol   *grammar.Symbol
	Rule     *grammar.Rule
	Children []*TreeNode

	// Terminal:
	TokenCode int
	Attr      interface{}

	// Alt: Translate never builds KindAlt nodes, so this stays empty;
	// choice points of an ambiguous parse are available through
	// TranslateForest instead.
	Alternatives []*TreeNode

	Span yaep.Span // [start, end) in token-boundary positions
}

// NodeKind discriminates a TreeNode's variant.
type NodeKind int

const (
	KindNonterminal NodeKind = iota
	KindTerminal
	KindAlt

	// KindError marks an `error` production's recovery span (spec
	// §4.8 "scenario 5"): Children holds the tokens error recovery
	// skipped or absorbed, in input order, as KindTerminal leaves.
	KindError
)

// derivation reconstructs one parse tree by recursive backtracking over
// the parse list: for a complete item's rule, find boundary positions
// for each RHS symbol such that terminals match consumed tokens and
// nonterminals are covered by some complete item with matching origin
// (the classical, backlink-free way to recover a derivation from an
// Earley recognition — see Grune & Jacobs, "Parsing Techniques" §7.2).
type derivation struct {
	p *Parser
}

// Translate walks the completed parse list and returns the root
// TreeNode for the accepted derivation (or nil, ok=false if the parse
// was not accepted). It always returns one derivation, the first (or,
// if Cost is set, lowest-cost) one found, and does not consult
// OneParse: it never emits KindAlt nodes. The shared packed forest of
// every derivation comes from TranslateForest. ambiguous reports
// whether more than one derivation existed.
func (p *Parser) Translate() (root *TreeNode, ambiguous bool, ok bool) {
	last := p.pl.len() - 1
	set := p.pl.at(last)
	for i, it := range set.Core.Items {
		if it.Complete() && it.Rule.ID == 0 && p.pl.distanceOf(last, i) == 0 {
			d := &derivation{p: p}
			root = d.buildRule(it.Rule, 0, last)
			ambiguous = p.ambiguous
			return root, ambiguous, root != nil
		}
	}
	return nil, false, false
}

// buildRule constructs the TreeNode for one firing of rule over span
// [start, end), applying the rule's TranslationSpec.
func (d *derivation) buildRule(rule *grammar.Rule, start, end int) *TreeNode {
	bounds, ok := d.split(rule.RHS, start, end)
	if !ok {
		return nil
	}
	children := make([]*TreeNode, len(rule.RHS))
	for i, sym := range rule.RHS {
		s, e := bounds[i], bounds[i+1]
		if sym.IsError() {
			children[i] = d.buildErrorNode(s, e)
			continue
		}
		if sym.Terminal {
			children[i] = &TreeNode{Kind: KindTerminal, Symbol: sym, TokenCode: sym.Code, Attr: d.p.attrAt(s), Span: yaep.Span{From: s, To: e}}
			continue
		}
		children[i] = d.buildBest(sym, s, e)
	}
	return applyTranslation(rule, children, start, end)
}

// buildBest finds a rule for sym spanning [start,end) and builds its
// node. When multiple rules fire over the identical span, the first
// one found is used (or, if Cost is enabled, the cheapest — costs are
// aggregated bottom-up on Anode nodes).
func (d *derivation) buildBest(sym *grammar.Symbol, start, end int) *TreeNode {
	set := d.p.pl.at(end)
	var best *TreeNode
	bestCost := -1
	count := 0
	for i, it := range set.Core.Items {
		if !it.Complete() || it.Rule.LHS != sym {
			continue
		}
		if d.p.pl.distanceOf(end, i) != start {
			continue
		}
		node := d.buildRule(it.Rule, start, end)
		if node == nil {
			continue
		}
		count++
		if !d.p.g.Cost() {
			if best == nil {
				best = node
			}
			continue
		}
		cost := nodeCost(node)
		if best == nil || cost < bestCost {
			best, bestCost = node, cost
		}
	}
	if count > 1 {
		d.p.ambiguous = true
	}
	return best
}

// buildErrorNode builds the TreeNode for one `error` production's
// recovery span (spec §4.8 "scenario 5"): the tokens error recovery
// skipped or absorbed become ordered KindTerminal children of a
// KindError node. `error` never completes through the ordinary
// recognizer machinery (it has no rules of its own — recover shifts
// over it structurally), so its span is recovered from the Parser's
// recorded errorSpans rather than from a completed item.
func (d *derivation) buildErrorNode(start, end int) *TreeNode {
	span, ok := d.p.errorSpanAt(start)
	if !ok {
		return &TreeNode{Kind: KindError, Symbol: d.p.g.ErrorSymbol(), Span: yaep.Span{From: start, To: end}}
	}
	children := make([]*TreeNode, len(span.tokens))
	for i, code := range span.tokens {
		children[i] = &TreeNode{Kind: KindTerminal, TokenCode: code, Attr: span.attrs[i], Span: yaep.Span{From: start, To: end}}
	}
	return &TreeNode{Kind: KindError, Symbol: d.p.g.ErrorSymbol(), Children: children, Span: yaep.Span{From: start, To: end}}
}

func nodeCost(n *TreeNode) int {
	if n == nil {
		return 0
	}
	cost := 0
	if n.Rule != nil {
		if anode, ok := n.Rule.Translation.(grammar.Anode); ok {
			cost = anode.Cost
		}
	}
	for _, c := range n.Children {
		cost += nodeCost(c)
	}
	return cost
}

// split finds boundary positions b[0..len(rhs)] with b[0]=start,
// b[len(rhs)]=end such that rhs[i] spans [b[i], b[i+1]).
func (d *derivation) split(rhs []*grammar.Symbol, start, end int) ([]int, bool) {
	bounds, ok := d.matchFrom(rhs, 0, start, end)
	return bounds, ok
}

func (d *derivation) matchFrom(rhs []*grammar.Symbol, idx, pos, end int) ([]int, bool) {
	if idx == len(rhs) {
		if pos == end {
			return []int{pos}, true
		}
		return nil, false
	}
	sym := rhs[idx]
	if sym.IsError() {
		// `error` is injected by recover as a structural one-position
		// shift (spec §4.8), never completed through the ordinary
		// item machinery, so its boundary comes from the recorded
		// errorSpans rather than a completed item search.
		if _, ok := d.p.errorSpanAt(pos); ok && pos+1 <= end {
			rest, ok := d.matchFrom(rhs, idx+1, pos+1, end)
			if ok {
				return append([]int{pos}, rest...), true
			}
		}
		return nil, false
	}
	if sym.Terminal {
		if pos < end && d.p.tokenAt(pos) == sym.Code {
			rest, ok := d.matchFrom(rhs, idx+1, pos+1, end)
			if ok {
				return append([]int{pos}, rest...), true
			}
		}
		return nil, false
	}
	for q := pos; q <= end; q++ {
		set := d.p.pl.at(q)
		found := false
		for i, it := range set.Core.Items {
			if it.Complete() && it.Rule.LHS == sym && d.p.pl.distanceOf(q, i) == pos {
				found = true
				break
			}
		}
		if !found {
			continue
		}
		rest, ok := d.matchFrom(rhs, idx+1, q, end)
		if ok {
			return append([]int{pos}, rest...), true
		}
	}
	return nil, false
}

func (p *Parser) tokenAt(pos int) int {
	if pos < len(p.tokens) {
		return p.tokens[pos]
	}
	return grammar.EOFCode
}

func (p *Parser) attrAt(pos int) interface{} {
	if pos < len(p.attrs) {
		return p.attrs[pos]
	}
	return nil
}

// applyTranslation builds the TreeNode for one rule firing according to
// its TranslationSpec (spec §4.10's "Node construction rules").
func applyTranslation(rule *grammar.Rule, children []*TreeNode, start, end int) *TreeNode {
	switch t := rule.Translation.(type) {
	case grammar.Forward:
		if t.Index < 0 || t.Index >= len(children) {
			return &TreeNode{Kind: KindNonterminal, Symbol: rule.LHS, Rule: rule, Children: children, Span: yaep.Span{From: start, To: end}}
		}
		fwd := children[t.Index]
		return fwd
	case grammar.Anode:
		nodeChildren := make([]*TreeNode, 0, len(t.Children))
		for _, c := range t.Children {
			if c < 0 || c >= len(children) {
				continue
			}
			nodeChildren = append(nodeChildren, children[c])
		}
		return &TreeNode{
			Kind:     KindNonterminal,
			Symbol:   rule.LHS,
			Rule:     rule,
			Children: nodeChildren,
			Span:     yaep.Span{From: start, To: end},
		}
	default:
		return &TreeNode{Kind: KindNonterminal, Symbol: rule.LHS, Rule: rule, Children: children, Span: yaep.Span{From: start, To: end}}
	}
}
