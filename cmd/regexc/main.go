// Command regexc compiles a rule defined in a small rule-source file (see
// package rxsrc) to a deterministic byte-matching machine and emits Go
// matcher source implementing it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/compiler"
	"github.com/coregx/rxmachine/emit"
	"github.com/coregx/rxmachine/internal/rxsrc"
)

func main() {
	backendFlag := flag.String("backend", "table", "matcher backend: table or goto")
	ruleFlag := flag.String("rule", "", "rule to compile (default: the last rule defined in the source)")
	unambiguous := flag.Bool("unambiguous", false, "fail if two rules can match the same input with no declared priority to break the tie")
	outFlag := flag.String("out", "", "output file (default: stdout)")
	pkgFlag := flag.String("package", "generated", "package name for the emitted source")
	funcFlag := flag.String("func", "Match", "exported function name for the emitted matcher")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: regexc [flags] <source.rx>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *backendFlag, *ruleFlag, *outFlag, *pkgFlag, *funcFlag, *unambiguous); err != nil {
		fmt.Fprintln(os.Stderr, "regexc:", err)
		os.Exit(1)
	}
}

func run(path, backendName, ruleName, outPath, pkgName, funcName string, unambiguous bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	rules, order, err := rxsrc.Parse(string(data))
	if err != nil {
		return err
	}

	if ruleName == "" {
		ruleName = order[len(order)-1]
	}
	root, ok := rules[ruleName]
	if !ok {
		return fmt.Errorf("no such rule %q", ruleName)
	}

	opts := compiler.DefaultOptions()
	opts.Unambiguous = unambiguous
	m, warnings, err := compiler.Compile(root, action.NewRegistry(), opts)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	backend, err := parseBackend(backendName)
	if err != nil {
		return err
	}

	src, err := emit.Emit(m, emit.Config{Backend: backend, Package: pkgName, FuncName: funcName})
	if err != nil {
		return fmt.Errorf("emit: %w", err)
	}

	if outPath == "" {
		_, err := fmt.Print(src)
		return err
	}
	return os.WriteFile(outPath, []byte(src), 0o644)
}

func parseBackend(name string) (emit.Backend, error) {
	switch name {
	case "table":
		return emit.Table, nil
	case "goto":
		return emit.Goto, nil
	default:
		return 0, fmt.Errorf("unknown backend %q (want \"table\" or \"goto\")", name)
	}
}
