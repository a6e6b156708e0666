/*
Package sppf implements a shared packed parse forest: the representation
the earley package's TranslateForest builds instead of a single
translation tree (spec §4.10). It is built on request, whatever the
grammar's OneParse setting.

A packed parse forest re-uses existing parse-tree nodes between
different derivations. For an unambiguous parse, a forest consists of a
single tree; an ambiguous one shares common subtrees across its
derivations rather than duplicating them, and represents genuine choice
points as SymbolNodes with more than one alternative.

Grounded on the teacher's lr/sppf package (a two-level SymbolNode/
RHSNode forest with or-edges/and-edges over a searchTree), adapted to
keep its own storage without an independent search tree: a
SymbolNode is deduplicated by (symbol, span) directly via a Go map,
which plays the same role as the teacher's two-level searchTree but
without hand-rolling its own hashing.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright (c) 2017-2024 The YAEP-Go Authors
*/
package sppf

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/yaep-go/yaep"
)

// tracer traces with key 'yaep.sppf'.
func tracer() tracing.Trace {
	return tracing.Select("yaep.sppf")
}

// Span is the same half-open token-boundary interval the earley
// package's translation trees use (yaep.Span), expressed over
// parse-list positions rather than byte offsets.
type Span = yaep.Span
