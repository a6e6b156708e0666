/*
Command yaepc loads a textual grammar description (package description)
and parses input against it, printing the resulting translation tree.
With --interactive it behaves like a small REPL, re-parsing one line of
input at a time against the loaded grammar (spec §6's description/CLI
surface).

Grounded on the teacher's terex/terexlang/trepl REPL: pflag for flags,
pterm for colored/tree output, chzyer/readline for the interactive loop.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright (c) 2017-2024 The YAEP-Go Authors
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/yaep-go/yaep/description"
	"github.com/yaep-go/yaep/earley"
	"github.com/yaep-go/yaep/grammar"
	"github.com/yaep-go/yaep/scanner"
)

func tracer() tracing.Trace {
	return tracing.Select("yaep.cmd")
}

func main() {
	var (
		grammarFile = pflag.StringP("grammar", "g", "", "path to a grammar description file (required)")
		traceLevel  = pflag.String("trace", "Info", "trace level [Debug|Info|Error]")
		oneParse    = pflag.Bool("one-parse", true, "set the grammar's one-parse option (the printed tree is always a single derivation)")
		interactive = pflag.BoolP("interactive", "i", false, "start an interactive REPL instead of parsing a single input")
		strict      = pflag.Bool("strict", true, "reject grammars with unreachable or unproductive symbols")
		configFile  = pflag.String("config", "", "path to a .yaep.toml sidecar overriding grammar defaults")
	)
	pflag.Parse()

	initDisplay()
	gologadapter.New()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*traceLevel))

	if *grammarFile == "" {
		pterm.Error.Println("missing required flag --grammar")
		pflag.Usage()
		os.Exit(2)
	}
	src, err := os.ReadFile(*grammarFile)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	g, err := description.Parse(strings.TrimSuffix(*grammarFile, ".yaep"), string(src), *strict)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	g.SetOneParse(*oneParse)
	if *configFile != "" {
		cfg, err := description.LoadConfig(*configFile)
		if err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(1)
		}
		cfg.ApplyTo(g)
	}
	pterm.Info.Printfln("loaded grammar %q with %d symbols", g.Name, g.NumSymbols())

	if *interactive {
		runREPL(g)
		return
	}

	input := strings.Join(pflag.Args(), " ")
	if strings.TrimSpace(input) == "" {
		pterm.Error.Println("no input given; pass it as a positional argument or use --interactive")
		os.Exit(2)
	}
	if err := parseAndPrint(g, input); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{Text: "  >>", Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)}
	pterm.Error.Prefix = pterm.Prefix{Text: " Error", Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack)}
}

func runREPL(g *grammar.Grammar) {
	repl, err := readline.New("yaepc> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	pterm.Info.Println("Quit with <ctrl>D")
	for {
		line, err := repl.Readline()
		if err != nil {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := parseAndPrint(g, line); err != nil {
			pterm.Error.Println(err.Error())
		}
	}
	pterm.Info.Println("Good bye!")
}

func parseAndPrint(g *grammar.Grammar, input string) error {
	tok := scanner.GoTokenizer(g.Name, strings.NewReader(input))
	reader := scanner.NewTokenReader(tok)
	p := earley.NewParser(g)
	accept, err := p.Parse(reader)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	if !accept {
		return fmt.Errorf("input rejected")
	}
	root, ambiguous, ok := p.Translate()
	if !ok {
		return fmt.Errorf("no derivation found")
	}
	if ambiguous {
		pterm.Warning.Println("parse is ambiguous; showing one derivation")
	}
	pterm.DefaultTree.WithRoot(treeNodeToPterm(root)).Render()
	return nil
}

func treeNodeToPterm(n *earley.TreeNode) pterm.TreeNode {
	if n == nil {
		return pterm.TreeNode{Text: "nil"}
	}
	switch n.Kind {
	case earley.KindTerminal:
		return pterm.TreeNode{Text: fmt.Sprintf("%s %v", n.Symbol.Name, n.Attr)}
	case earley.KindAlt:
		node := pterm.TreeNode{Text: "Alt"}
		for _, alt := range n.Alternatives {
			node.Children = append(node.Children, treeNodeToPterm(alt))
		}
		return node
	default:
		label := "?"
		if n.Symbol != nil {
			label = n.Symbol.Name
		}
		node := pterm.TreeNode{Text: label}
		for _, c := range n.Children {
			node.Children = append(node.Children, treeNodeToPterm(c))
		}
		return node
	}
}
