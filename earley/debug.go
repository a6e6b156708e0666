package earley

import (
	"bytes"
	"fmt"

	"github.com/cnf/structhash"
)

// dumpSet traces the contents of parse-list position k at Debug level,
// ported from the teacher's dumpState.
func (p *Parser) dumpSet(k int) {
	set := p.pl.at(k)
	tracer().Debugf("--- Set %04d (core#%d) ------------------------------------", k, set.Core.ID)
	for i, it := range set.Core.Items {
		dist := p.pl.distanceOf(k, i)
		tracer().Debugf("[%2d] %s (origin %d)", i, it, dist)
	}
}

// Dump renders the full parse list as a human-readable string, in the
// style of the teacher's itemSetString.
func (p *Parser) Dump() string {
	var b bytes.Buffer
	for k := 0; k < p.pl.len(); k++ {
		set := p.pl.at(k)
		fmt.Fprintf(&b, "=== Set %d (core#%d) ===\n", k, set.Core.ID)
		for i, it := range set.Core.Items {
			fmt.Fprintf(&b, "  [%2d] %s (origin %d)\n", i, it, p.pl.distanceOf(k, i))
		}
	}
	return b.String()
}

// LeoStats returns the Leo optimizer's counters for this parse (spec
// §4.7 "Statistics").
func (p *Parser) LeoStats() LeoStats {
	return p.leo.Stats()
}

// backlinkFingerprint computes a stable hash of (item, set index),
// grounded on the teacher's earley.go hash() helper, which uses the
// same library to key its backlinks map. recordBacklink uses it as the
// key of Parser.backlinks; no dump reads that table.
func backlinkFingerprint(it *Item, setIdx int) string {
	h, err := structhash.Hash(struct {
		Rule   int
		Dot    int
		SetIdx int
	}{it.Rule.ID, it.Dot, setIdx}, 1)
	if err != nil {
		panic(err)
	}
	return h
}
