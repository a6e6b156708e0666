package sppf

import "github.com/yaep-go/yaep/grammar"

// Pruner resolves ambiguity when a Cursor descends through a SymbolNode
// with more than one recorded alternative (spec §4.10's Alt case).
// Ported from the teacher's lr/sppf Pruner interface; DontCarePruner
// reproduces its "never prune, always take the first alternative"
// default.
type Pruner interface {
	Prune(sym *SymbolNode, rhs *RHSNode) bool
}

type dontCarePruner struct{}

func (dontCarePruner) Prune(*SymbolNode, *RHSNode) bool { return false }

// DontCarePruner never prunes an alternative, so disambiguation always
// selects the first recorded reduction.
var DontCarePruner Pruner = dontCarePruner{}

// disambiguate picks the RHSNode a Cursor should descend into for sym,
// per pruner.
func (f *Forest) disambiguate(sym *SymbolNode, pruner Pruner) *RHSNode {
	choices := sym.Alternatives()
	if len(choices) == 0 {
		return nil
	}
	if len(choices) == 1 {
		return choices[0]
	}
	for _, rhs := range choices {
		if !pruner.Prune(sym, rhs) {
			return rhs
		}
	}
	return choices[0]
}

// Cursor is a movable mark within a forest, navigating SymbolNodes
// while a Pruner resolves any ambiguity encountered along the way.
type Cursor struct {
	forest  *Forest
	current *SymbolNode
	pruner  Pruner
	stack   []*SymbolNode
}

// SetCursor creates a Cursor positioned at node (or the forest's root,
// if node is nil). A nil pruner defaults to DontCarePruner.
func (f *Forest) SetCursor(node *SymbolNode, pruner Pruner) *Cursor {
	if node == nil {
		node = f.root
	}
	if node == nil {
		return nil
	}
	if pruner == nil {
		pruner = DontCarePruner
	}
	return &Cursor{forest: f, current: node, pruner: pruner}
}

// Node returns the SymbolNode the cursor currently points at.
func (c *Cursor) Node() *SymbolNode { return c.current }

// RHS returns the rule and children of the (disambiguated) reduction at
// the cursor's current node.
func (c *Cursor) RHS() (*grammar.Rule, []*SymbolNode) {
	rhs := c.forest.disambiguate(c.current, c.pruner)
	if rhs == nil {
		return nil, nil
	}
	return rhs.Rule, rhs.Children
}

// Down moves the cursor to child index i of the current node's
// (disambiguated) reduction.
func (c *Cursor) Down(i int) (*SymbolNode, bool) {
	rhs := c.forest.disambiguate(c.current, c.pruner)
	if rhs == nil || i < 0 || i >= len(rhs.Children) {
		return c.current, false
	}
	c.stack = append(c.stack, c.current)
	c.current = rhs.Children[i]
	return c.current, true
}

// Up moves the cursor back to the parent it descended from.
func (c *Cursor) Up() (*SymbolNode, bool) {
	if len(c.stack) == 0 {
		return c.current, false
	}
	c.current = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return c.current, true
}

// Listener receives callbacks during a TopDown traversal (spec §4.10's
// translator, generalized to forests): EnterRule/ExitRule bracket a
// disambiguated reduction, Terminal fires for a leaf, Conflict fires
// once per SymbolNode with more than one alternative before the Pruner
// resolves it.
type Listener interface {
	EnterRule(sym *SymbolNode, rhs *RHSNode)
	ExitRule(sym *SymbolNode, rhs *RHSNode)
	Terminal(sym *SymbolNode)
	Conflict(sym *SymbolNode, alternatives []*RHSNode)
}

// TopDown walks the forest from node (or the root, if nil) depth-first,
// calling back into listener, with ambiguity resolved by pruner.
func (f *Forest) TopDown(node *SymbolNode, pruner Pruner, listener Listener) {
	if node == nil {
		node = f.root
	}
	if node == nil {
		return
	}
	if pruner == nil {
		pruner = DontCarePruner
	}
	f.walk(node, pruner, listener)
}

func (f *Forest) walk(node *SymbolNode, pruner Pruner, listener Listener) {
	if node.Symbol.Terminal {
		listener.Terminal(node)
		return
	}
	alts := node.Alternatives()
	if len(alts) > 1 {
		listener.Conflict(node, alts)
	}
	rhs := f.disambiguate(node, pruner)
	if rhs == nil {
		return
	}
	listener.EnterRule(node, rhs)
	for _, child := range rhs.Children {
		f.walk(child, pruner, listener)
	}
	listener.ExitRule(node, rhs)
}
