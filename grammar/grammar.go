package grammar

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/schuko/tracing"

	"github.com/yaep-go/yaep"
)

// tracer traces with key 'yaep.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("yaep.grammar")
}

// Grammar is the symbol table, rule store and (after Prepare) static
// analysis for a context-free grammar. It is immutable once prepared and
// may be shared by reference across concurrently parsing Parsers.
type Grammar struct {
	Name string

	symbolsByName   map[string]*Symbol
	symbols         []*Symbol // dense by ID
	terminalsByCode map[int]*Symbol

	rules []*Rule

	start     *Symbol
	startRule *Rule // rule 0: synthetic S' -> Start #eof
	eof       *Symbol
	errorSym  *Symbol

	lookaheadLevel       int
	oneParse             bool
	cost                 bool
	errorRecovery        bool
	recoveryTokenMatches uint32

	prepared bool
	analysis *Analysis
}

// New creates an empty, unprepared grammar. name is used only for
// diagnostics (Dump, error messages).
func New(name string) *Grammar {
	g := &Grammar{
		Name:                 name,
		symbolsByName:        make(map[string]*Symbol),
		terminalsByCode:      make(map[int]*Symbol),
		lookaheadLevel:       1,
		recoveryTokenMatches: 3,
	}
	g.eof = g.internSymbol("#eof", true, EOFCode)
	g.errorSym = g.internSymbol(ErrorSymbolName, false, 0)
	return g
}

func (g *Grammar) internSymbol(name string, terminal bool, code int) *Symbol {
	if sym, ok := g.symbolsByName[name]; ok {
		return sym
	}
	sym := &Symbol{ID: len(g.symbols), Name: name, Terminal: terminal, Code: code}
	g.symbols = append(g.symbols, sym)
	g.symbolsByName[name] = sym
	if terminal {
		g.terminalsByCode[code] = sym
	}
	return sym
}

// Symbol looks up a previously created symbol by name.
func (g *Grammar) Symbol(name string) (*Symbol, bool) {
	sym, ok := g.symbolsByName[name]
	return sym, ok
}

// Terminal looks up a terminal by its user-facing code.
func (g *Grammar) Terminal(code int) *Symbol {
	return g.terminalsByCode[code]
}

// EOF returns the reserved end-of-input terminal.
func (g *Grammar) EOF() *Symbol { return g.eof }

// ErrorSymbol returns the reserved `error` nonterminal.
func (g *Grammar) ErrorSymbol() *Symbol { return g.errorSym }

// Rule returns the rule with the given id. Rule 0 is always the
// synthetic start rule once the grammar is prepared.
func (g *Grammar) Rule(id int) *Rule { return g.rules[id] }

// Rules returns every rule, including the synthetic start rule once
// prepared.
func (g *Grammar) Rules() []*Rule { return g.rules }

// NumSymbols returns the number of interned symbols (terminal and
// nonterminal).
func (g *Grammar) NumSymbols() int { return len(g.symbols) }

// Prepared reports whether Prepare has run successfully.
func (g *Grammar) Prepared() bool { return g.prepared }

// StartSymbol returns the grammar's start nonterminal (not the synthetic
// S' wrapper).
func (g *Grammar) StartSymbol() *Symbol { return g.start }

// --- Construction (spec §6 "Grammar construction (programmatic)") ---------

// AddTerminal interns a terminal symbol with a caller-chosen integer
// code. Codes must be unique across terminals within a grammar.
func (g *Grammar) AddTerminal(name string, code int) (*Symbol, error) {
	if g.prepared {
		return nil, yaep.NewError(yaep.GrammarAlreadyRead, "grammar %q already prepared", g.Name)
	}
	if existing, ok := g.symbolsByName[name]; ok {
		if existing.Terminal {
			return nil, yaep.NewError(yaep.RepeatedTerm, "terminal %q already defined", name)
		}
		return nil, yaep.NewError(yaep.FixedNameTermCode, "symbol %q already used as a nonterminal", name)
	}
	if other, ok := g.terminalsByCode[code]; ok {
		return nil, yaep.NewError(yaep.RepeatedTermCode, "terminal code %d already used by %q", code, other.Name)
	}
	if code < 0 && code != EOFCode {
		return nil, yaep.NewError(yaep.NegativeTermCode, "terminal %q has negative code %d", name, code)
	}
	return g.internSymbol(name, true, code), nil
}

// nonterminal returns (creating it if necessary) the nonterminal symbol
// named name. Nonterminals are auto-created on first mention, per §4.1.
func (g *Grammar) nonterminal(name string) *Symbol {
	if sym, ok := g.symbolsByName[name]; ok {
		return sym
	}
	return g.internSymbol(name, false, 0)
}

// AddRule adds a production lhsName -> rhsNames with the given
// translation spec, auto-creating any nonterminal mentioned for the
// first time. Terminals in rhsNames must already have been added via
// AddTerminal.
func (g *Grammar) AddRule(lhsName string, rhsNames []string, translation TranslationSpec) (*Rule, error) {
	if g.prepared {
		return nil, yaep.NewError(yaep.GrammarAlreadyRead, "grammar %q already prepared", g.Name)
	}
	if existing, ok := g.symbolsByName[lhsName]; ok && existing.Terminal {
		return nil, yaep.NewError(yaep.RepeatedTerminalRule, "terminal %q cannot be a rule LHS", lhsName)
	}
	lhs := g.nonterminal(lhsName)
	rhs := make([]*Symbol, len(rhsNames))
	for i, name := range rhsNames {
		sym, ok := g.symbolsByName[name]
		if !ok {
			sym = g.nonterminal(name) // forward reference to a nonterminal; resolved at Prepare
		}
		rhs[i] = sym
	}
	if translation == nil {
		translation = defaultTranslation(rhs)
	}
	if err := validateTranslation(translation, len(rhs)); err != nil {
		return nil, err
	}
	r := &Rule{ID: len(g.rules) + 1, RHS: rhs, LHS: lhs, Translation: translation}
	r.Serial = r.ID
	g.rules = append(g.rules, r)
	lhs.rules = append(lhs.rules, r)
	return r, nil
}

func defaultTranslation(rhs []*Symbol) TranslationSpec {
	if len(rhs) == 1 {
		return Forward{Index: 0}
	}
	return Forward{Index: -1} // no canonical child; translator emits a node for the LHS holding every RHS child
}

func validateTranslation(t TranslationSpec, rhsLen int) error {
	switch v := t.(type) {
	case Forward:
		if v.Index >= rhsLen {
			return yaep.NewError(yaep.IncorrectTranslation, "forward index %d out of range for RHS of length %d", v.Index, rhsLen)
		}
	case Anode:
		if v.Cost < 0 {
			return yaep.NewError(yaep.NegativeCost, "abstract node %q has negative cost %d", v.Name, v.Cost)
		}
		for _, c := range v.Children {
			if c >= rhsLen {
				return yaep.NewError(yaep.IncorrectTranslation, "child index %d out of range for RHS of length %d", c, rhsLen)
			}
		}
	default:
		return yaep.NewError(yaep.IncorrectTranslation, "unknown translation spec %T", t)
	}
	return nil
}

// SetStart designates the grammar's start nonterminal. If never called,
// Prepare defaults to the LHS of the first rule added.
func (g *Grammar) SetStart(name string) error {
	sym, ok := g.symbolsByName[name]
	if !ok || sym.Terminal {
		return yaep.NewError(yaep.UndefinedOrBadGrammar, "start symbol %q is not a known nonterminal", name)
	}
	g.start = sym
	return nil
}

// --- Options (spec §6) ------------------------------------------------

// SetLookaheadLevel records the lookahead depth (0, 1 or 2), readable
// through LookaheadLevel. The analysis does not consult it: lookahead
// contexts are always FIRST_1 sets.
func (g *Grammar) SetLookaheadLevel(l int) { g.lookaheadLevel = l }

// LookaheadLevel returns the configured lookahead depth.
func (g *Grammar) LookaheadLevel() int { return g.lookaheadLevel }

// SetOneParse configures whether the translator collapses an ambiguous
// parse to a single tree (true) or emits a shared packed forest (false).
func (g *Grammar) SetOneParse(b bool) { g.oneParse = b }

// OneParse reports the current one-parse setting.
func (g *Grammar) OneParse() bool { return g.oneParse }

// SetCost configures whether one-parse selection minimizes summed
// abstract-node cost rather than taking the first derivation found.
func (g *Grammar) SetCost(b bool) { g.cost = b }

// Cost reports the current cost-minimization setting.
func (g *Grammar) Cost() bool { return g.cost }

// SetErrorRecovery enables or disables minimal-cost error recovery.
func (g *Grammar) SetErrorRecovery(b bool) { g.errorRecovery = b }

// ErrorRecovery reports the current error-recovery setting.
func (g *Grammar) ErrorRecovery() bool { return g.errorRecovery }

// SetRecoveryTokenMatches configures how many lookahead tokens must
// successfully scan from a recovery candidate before it is accepted.
func (g *Grammar) SetRecoveryTokenMatches(n uint32) { g.recoveryTokenMatches = n }

// RecoveryTokenMatches reports the current setting.
func (g *Grammar) RecoveryTokenMatches() uint32 { return g.recoveryTokenMatches }

// --- Callback-driven construction (spec §6, item 1) ------------------------

// TerminalReader yields (name, code) pairs until it returns ok=false.
type TerminalReader func() (name string, code int, ok bool)

// RuleReader yields one rule description per call until it returns
// ok=false: the LHS name, the RHS names, an optional abstract-node name
// (nil for a Forward translation), its cost, and the translation's child
// indices.
type RuleReader func() (lhs string, rhs []string, anodeName *string, cost int, children []int, ok bool)

// ReadGrammar builds a grammar by repeatedly invoking readTerminal and
// readRule. If strict is true, Prepare rejects the grammar when any
// nonterminal other than `error` is inaccessible or unproductive.
func (g *Grammar) ReadGrammar(readTerminal TerminalReader, readRule RuleReader, strict bool) error {
	for {
		name, code, ok := readTerminal()
		if !ok {
			break
		}
		if _, err := g.AddTerminal(name, code); err != nil {
			return err
		}
	}
	for {
		lhs, rhs, anodeName, cost, children, ok := readRule()
		if !ok {
			break
		}
		var spec TranslationSpec
		if anodeName != nil {
			spec = Anode{Name: *anodeName, Cost: cost, Children: children}
		} else if len(children) == 1 {
			spec = Forward{Index: children[0]}
		}
		if _, err := g.AddRule(lhs, rhs, spec); err != nil {
			return err
		}
	}
	return g.Prepare(strict)
}

// --- Preparation --------------------------------------------------------

// Prepare freezes the grammar: resolves the start symbol, synthesizes
// the S' start rule, and runs the fixed-point analyses of §4.1
// (nullable/accessible/productive, FIRST_1; no FOLLOW sets are
// computed). It must be called
// exactly once before parsing.
func (g *Grammar) Prepare(strict bool) error {
	if g.prepared {
		return yaep.NewError(yaep.GrammarAlreadyRead, "grammar %q already prepared", g.Name)
	}
	if len(g.rules) == 0 {
		return yaep.NewError(yaep.UndefinedOrBadGrammar, "grammar %q has no rules", g.Name)
	}
	if g.start == nil {
		g.start = g.rules[0].LHS
	}
	if g.start.Terminal {
		return yaep.NewError(yaep.UndefinedOrBadGrammar, "start symbol %q is a terminal", g.start.Name)
	}
	// every RHS nonterminal must have at least one rule (unless it's `error`)
	for _, r := range g.rules {
		for _, sym := range r.RHS {
			if !sym.Terminal && len(sym.rules) == 0 && sym != g.errorSym {
				return yaep.NewError(yaep.UndefinedSymbol, "nonterminal %q has no rules", sym.Name)
			}
		}
	}
	startRule := &Rule{
		ID:          0,
		LHS:         g.internSymbol(g.Name+"'", false, 0),
		RHS:         []*Symbol{g.start, g.eof},
		Translation: Forward{Index: 0},
	}
	startRule.Serial = startRule.ID
	startRule.LHS.Name = "S'"
	startRule.LHS.rules = []*Rule{startRule}
	g.rules = append([]*Rule{startRule}, g.rules...)
	for i, r := range g.rules {
		r.ID = i
		r.Serial = i
	}
	g.startRule = startRule
	g.start = startRule.LHS

	a := newAnalysis(g)
	a.run()
	g.analysis = a

	if strict {
		for _, sym := range g.symbols {
			if sym.Terminal || sym == g.errorSym {
				continue
			}
			if !sym.Accessible || !sym.Productive {
				return yaep.NewError(yaep.UndefinedOrBadGrammar, "nonterminal %q is unreachable or unproductive", sym.Name)
			}
		}
	}
	if !g.start.Productive {
		return yaep.NewError(yaep.UndefinedOrBadGrammar, "start symbol %q is unproductive", g.start.Name)
	}

	g.prepared = true
	return nil
}

// Analysis returns the static analysis computed by Prepare (nil before
// Prepare runs).
func (g *Grammar) Analysis() *Analysis { return g.analysis }

// FindNonTermRules returns the rules whose LHS is sym, in declaration
// order. It is the grammar-side half of prediction (§4.6): for every
// such rule, the recognizer adds a dot-zero item.
func (g *Grammar) FindNonTermRules(sym *Symbol) []*Rule {
	if sym == nil {
		return nil
	}
	return sym.rules
}

// Dump writes a human-readable listing of the grammar's rules, in the
// style of gorgo's Grammar.Dump(), sorted by rule ID via a gods
// arraylist (ported from lr/tables.go's CFSM dump, which sorts states
// through a gods collection too).
func (g *Grammar) Dump() string {
	set := arraylist.New()
	for _, r := range g.rules {
		set.Add(r)
	}
	set.Sort(func(a, b interface{}) int {
		return a.(*Rule).ID - b.(*Rule).ID
	})
	out := ""
	it := set.Iterator()
	for it.Next() {
		r := it.Value().(*Rule)
		out += fmt.Sprintf("%3d: %s\n", r.ID, r)
	}
	return out
}

func (g *Grammar) sortedSymbolNames() []string {
	names := make([]string, 0, len(g.symbols))
	for name := range g.symbolsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
