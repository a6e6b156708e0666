package sppf

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/yaep-go/yaep/grammar"
)

// SymbolNode is a forest node [A (x…y)]: grammar symbol A together with
// the span of input it covers (spec §3 "TranslationNode").
type SymbolNode struct {
	Symbol *grammar.Symbol
	Extent Span

	forest *Forest
}

func (sn *SymbolNode) String() string {
	return fmt.Sprintf("%s(%d..%d)", sn.Symbol.Name, sn.Extent.From, sn.Extent.To)
}

// Alternatives returns every distinct RHS-reduction recorded for this
// SymbolNode. Exactly one alternative means the span is unambiguous for
// this symbol; more than one means the forest must represent a genuine
// choice here (an Alt, in the translator's TreeNode vocabulary).
func (sn *SymbolNode) Alternatives() []*RHSNode {
	edges, ok := sn.forest.orEdges[symKey{sn.Symbol, sn.Extent}]
	if !ok {
		return nil
	}
	return edges
}

// RHSNode is an and-node: one specific rule firing, fanning out to the
// SymbolNode (or terminal leaf) of each RHS position in order.
type RHSNode struct {
	Rule     *grammar.Rule
	Children []*SymbolNode // len == len(Rule.RHS); terminal positions get a leaf SymbolNode with Symbol.Terminal true
}

type symKey struct {
	sym  *grammar.Symbol
	span Span
}

// Forest is the shared packed parse forest built by the translator for
// an ambiguous parse. Symbol nodes are deduplicated by (symbol, span):
// two reductions covering the identical span of the identical
// nonterminal collapse to one SymbolNode with multiple or-edges rather
// than two separate subtrees (spec §4.10 "shared subtrees are shared").
type Forest struct {
	symbolNodes map[symKey]*SymbolNode
	orEdges     map[symKey][]*RHSNode
	root        *SymbolNode
}

// NewForest returns an empty forest.
func NewForest() *Forest {
	return &Forest{
		symbolNodes: make(map[symKey]*SymbolNode),
		orEdges:     make(map[symKey][]*RHSNode),
	}
}

// Root returns the forest's root SymbolNode, if SetRoot or a reduction
// for the grammar's synthetic start symbol has been recorded.
func (f *Forest) Root() *SymbolNode { return f.root }

// SetRoot designates symnode as the forest's root.
func (f *Forest) SetRoot(symnode *SymbolNode) { f.root = symnode }

// symNode returns (creating on first use) the canonical SymbolNode for
// (sym, span).
func (f *Forest) symNode(sym *grammar.Symbol, span Span) *SymbolNode {
	key := symKey{sym, span}
	if sn, ok := f.symbolNodes[key]; ok {
		return sn
	}
	sn := &SymbolNode{Symbol: sym, Extent: span, forest: f}
	f.symbolNodes[key] = sn
	return sn
}

// AddReduction records one rule firing as an alternative reduction for
// rule.LHS over [start, end). children must have one SymbolNode per RHS
// position (terminal positions use AddTerminal leaves). If an identical
// (rule, children) alternative was already recorded for this span, it
// is not duplicated (spec §4.10: "Every subtree is emitted exactly once
// per distinct (span, nonterminal, rule-choice)").
func (f *Forest) AddReduction(rule *grammar.Rule, start, end int, children []*SymbolNode) *SymbolNode {
	sym := rule.LHS
	span := Span{start, end}
	symnode := f.symNode(sym, span)
	key := symKey{sym, span}
	for _, existing := range f.orEdges[key] {
		if existing.Rule.ID == rule.ID && sameChildren(existing.Children, children) {
			return symnode
		}
	}
	f.orEdges[key] = append(f.orEdges[key], &RHSNode{Rule: rule, Children: children})
	if sym.Name == "S'" {
		f.root = symnode
	}
	return symnode
}

func sameChildren(a, b []*SymbolNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// AddTerminal returns the leaf SymbolNode for a recognized terminal at
// position pos (covering the single-token span [pos, pos+1)).
func (f *Forest) AddTerminal(t *grammar.Symbol, pos int) *SymbolNode {
	return f.symNode(t, Span{pos, pos + 1})
}

// Ambiguous reports whether any recorded SymbolNode has more than one
// alternative reduction.
func (f *Forest) Ambiguous() bool {
	for _, edges := range f.orEdges {
		if len(edges) > 1 {
			return true
		}
	}
	return false
}

// SymbolNodes returns every distinct SymbolNode in the forest, ordered
// by (span, symbol name) for reproducible dumps — ported from the
// teacher's dump ordering, which likewise sorts via a gods collection
// rather than relying on map iteration order.
func (f *Forest) SymbolNodes() []*SymbolNode {
	list := arraylist.New()
	for _, sn := range f.symbolNodes {
		list.Add(sn)
	}
	list.Sort(func(a, b interface{}) int {
		x, y := a.(*SymbolNode), b.(*SymbolNode)
		if x.Extent.From != y.Extent.From {
			return x.Extent.From - y.Extent.From
		}
		if x.Extent.To != y.Extent.To {
			return x.Extent.To - y.Extent.To
		}
		if x.Symbol.Name != y.Symbol.Name {
			if x.Symbol.Name < y.Symbol.Name {
				return -1
			}
			return 1
		}
		return 0
	})
	out := make([]*SymbolNode, 0, list.Size())
	it := list.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*SymbolNode))
	}
	return out
}

// ToGraphViz renders the forest as a Graphviz dot graph, in the style
// of the teacher's Forest.ToGraphViz, for visual debugging of
// ambiguous parses.
func (f *Forest) ToGraphViz() string {
	out := "digraph forest {\n  rankdir=TB;\n"
	for _, sn := range f.SymbolNodes() {
		out += fmt.Sprintf("  %q [shape=box];\n", sn.String())
		for _, rhs := range f.orEdges[symKey{sn.Symbol, sn.Extent}] {
			label := fmt.Sprintf("%s#%d", sn.String(), rhs.Rule.ID)
			out += fmt.Sprintf("  %q [shape=ellipse,label=%q];\n", label, rhs.Rule.String())
			out += fmt.Sprintf("  %q -> %q;\n", sn.String(), label)
			for _, c := range rhs.Children {
				out += fmt.Sprintf("  %q -> %q;\n", label, c.String())
			}
		}
	}
	out += "}\n"
	return out
}
