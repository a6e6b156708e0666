package earley

import (
	"github.com/yaep-go/yaep/grammar"
	"github.com/yaep-go/yaep/sppf"
)

// TranslateForest is Translate's counterpart for an ambiguous grammar
// (spec §4.10); it does not consult OneParse. Rather than collapsing to
// one TreeNode, it returns a sppf.Forest sharing every subtree reachable
// from the accepted derivation(s), with genuine choice points recorded
// as a SymbolNode carrying more than one Alternatives() entry.
func (p *Parser) TranslateForest() (*sppf.Forest, bool) {
	last := p.pl.len() - 1
	set := p.pl.at(last)
	for i, it := range set.Core.Items {
		if it.Complete() && it.Rule.ID == 0 && p.pl.distanceOf(last, i) == 0 {
			f := sppf.NewForest()
			fb := &forestBuilder{p: p, f: f}
			root := fb.buildRule(it.Rule, 0, last)
			f.SetRoot(root)
			return f, f.Ambiguous()
		}
	}
	return nil, false
}

type forestBuilder struct {
	p *Parser
	f *sppf.Forest
}

// buildSym records every complete-item reduction for sym over [start,end)
// as an alternative and returns the (shared) SymbolNode.
func (fb *forestBuilder) buildSym(sym *grammar.Symbol, start, end int) *sppf.SymbolNode {
	if sym.Terminal {
		return fb.f.AddTerminal(sym, start)
	}
	set := fb.p.pl.at(end)
	var node *sppf.SymbolNode
	for i, it := range set.Core.Items {
		if !it.Complete() || it.Rule.LHS != sym {
			continue
		}
		if fb.p.pl.distanceOf(end, i) != start {
			continue
		}
		n := fb.buildRule(it.Rule, start, end)
		if n != nil {
			node = n
		}
	}
	return node
}

// buildRule finds one valid boundary split for rule over [start,end),
// recursively builds a SymbolNode per RHS position, and records the
// reduction as an alternative for rule.LHS over that span.
func (fb *forestBuilder) buildRule(rule *grammar.Rule, start, end int) *sppf.SymbolNode {
	d := &derivation{p: fb.p}
	bounds, ok := d.split(rule.RHS, start, end)
	if !ok {
		return nil
	}
	children := make([]*sppf.SymbolNode, len(rule.RHS))
	for i, sym := range rule.RHS {
		children[i] = fb.buildSym(sym, bounds[i], bounds[i+1])
	}
	return fb.f.AddReduction(rule, start, end, children)
}
