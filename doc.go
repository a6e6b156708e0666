/*
Package yaep implements an Earley parser for possibly ambiguous
context-free grammars.

Given a grammar (built through Grammar's imperative AddTerminal/AddRule
API, the callback-driven ReadGrammar API, or the description package's
textual notation) and a token stream, yaep produces either a single
syntax-directed translation tree, a cost-minimal tree, or a shared
packed parse forest representing every derivation. Package structure is
as follows:

■ grammar: symbol table, rule store and static analysis (nullable,
accessible, productive, FIRST) that together form a prepared
Grammar.

■ earley: the recognizer itself — items ("situations"), LR(0) cores,
parse sets, the transition cache, Leo's right-recursion optimization and
minimal-cost error recovery.

■ sppf: the shared packed parse forest produced by the translator for
ambiguous grammars, together with a cursor API for navigating it without
collapsing it to a single tree first.

■ scanner: a small Tokenizer interface plus two implementations, one
wrapping the standard library's text/scanner and one wrapping
timtadh/lexmachine.

■ description: an optional, YACC-like textual grammar notation that
drives the very same construction API programmatic clients use.

■ cmd/yaepc: a small CLI and REPL loading a description-format grammar
and printing the translation tree for a given input.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright (c) 2017-2024 The YAEP-Go Authors

*/
package yaep
