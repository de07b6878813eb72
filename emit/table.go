package emit

import (
	"fmt"
	"strings"

	"github.com/coregx/rxmachine/action"
	"github.com/coregx/rxmachine/machine"
)

// emitTable renders m as a Go-syntax transition table plus a single
// shared driver loop, grounded on the teacher's dense byte-class table
// layout (dfa/lazy/state.go) and slot-compaction technique
// (nfa/slot_table.go).
//
// The generated function implements the resumable variable protocol of
// spec.md §4.7: p and cs are both parameters and (the first two) return
// values, so a streaming caller can invoke it again with the returned p
// and cs once more input is available. cs follows spec.md §4.7/§6
// exactly: positive is a live state id, 0 is accepted-and-done, negative
// is a dead transition with |cs| naming the offending state.
func emitTable(m *machine.Machine, cfg Config) (string, error) {
	var b strings.Builder
	v := cfg.Vars

	fmt.Fprintf(&b, "package %s\n\n", cfg.packageName())
	b.WriteString("// Code generated by rxmachine. DO NOT EDIT.\n\n")

	b.WriteString("type transition struct {\n")
	b.WriteString("\tlo, hi  byte\n")
	b.WriteString("\ttarget  int\n")
	b.WriteString("\tprecond func() bool\n")
	b.WriteString("\tfire    func()\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "const %sStart = %d\n\n", cfg.funcName(), m.Start)

	fmt.Fprintf(&b, "var %sTransitions = [][]transition{\n", cfg.funcName())
	b.WriteString("\tnil, // state 0 is the dead/error sentinel\n")
	for _, st := range m.States {
		fmt.Fprintf(&b, "\t{ // state %d\n", st.ID)
		for _, e := range st.Edges {
			writeTableTransition(&b, cfg, e)
		}
		b.WriteString("\t},\n")
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "var %sAccept = map[int]bool{\n", cfg.funcName())
	for _, st := range m.States {
		if st.Accept {
			fmt.Fprintf(&b, "\t%d: true,\n", st.ID)
		}
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "var %sEOFActions = map[int]func(){\n", cfg.funcName())
	for _, st := range m.States {
		if body := actionsBody(cfg, st.EOFActions); body != "" {
			fmt.Fprintf(&b, "\t%d: func() { %s },\n", st.ID, body)
		}
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func %s(%s []byte, %s, %s int, %s int, %s %s, %s bool) %s {\n",
		cfg.funcName(), v.Data, v.P, v.PEnd, v.CS, v.Mem, cfg.memType(), v.IsEOF, cfg.returnSig())
	if cfg.Init != "" {
		fmt.Fprintf(&b, "\t%s\n", cfg.Init)
	}
	if cfg.Mark != "" {
		fmt.Fprintf(&b, "\t%s := -1\n", cfg.Mark)
	}

	fmt.Fprintf(&b, "\tfor %s < %s {\n", v.P, v.PEnd)
	if cfg.BoundsCheck {
		fmt.Fprintf(&b, "\t\tif %s >= len(%sTransitions) {\n", v.CS, cfg.funcName())
		if cfg.OnError != "" {
			fmt.Fprintf(&b, "\t\t\t%s\n", cfg.OnError)
		}
		writeReturn(&b, cfg, v, "\t\t\t", "-"+v.CS)
		b.WriteString("\t\t}\n")
	}
	fmt.Fprintf(&b, "\t\t%s := %s[%s]\n", v.Byte, v.Data, v.P)
	b.WriteString("\t\tnext := -1\n")
	fmt.Fprintf(&b, "\t\tfor _, t := range %sTransitions[%s] {\n", cfg.funcName(), v.CS)
	fmt.Fprintf(&b, "\t\t\tif %s < t.lo || %s > t.hi {\n\t\t\t\tcontinue\n\t\t\t}\n", v.Byte, v.Byte)
	b.WriteString("\t\t\tif t.precond != nil && !t.precond() {\n\t\t\t\tcontinue\n\t\t\t}\n")
	b.WriteString("\t\t\tif t.fire != nil {\n\t\t\t\tt.fire()\n\t\t\t}\n")
	b.WriteString("\t\t\tnext = t.target\n\t\t\tbreak\n")
	b.WriteString("\t\t}\n")
	b.WriteString("\t\tif next < 0 {\n")
	if cfg.OnError != "" {
		fmt.Fprintf(&b, "\t\t\t%s\n", cfg.OnError)
	}
	writeReturn(&b, cfg, v, "\t\t\t", "-"+v.CS)
	b.WriteString("\t\t}\n")
	fmt.Fprintf(&b, "\t\t%s = next\n", v.CS)
	fmt.Fprintf(&b, "\t\t%s++\n", v.P)
	b.WriteString("\t}\n")

	fmt.Fprintf(&b, "\tif %s && %sAccept[%s] {\n", v.IsEOF, cfg.funcName(), v.CS)
	fmt.Fprintf(&b, "\t\tif fn, ok := %sEOFActions[%s]; ok {\n\t\t\tfn()\n\t\t}\n", cfg.funcName(), v.CS)
	if cfg.Return != "" {
		fmt.Fprintf(&b, "\t\t%s\n", cfg.Return)
	}
	fmt.Fprintf(&b, "\t\t%s = 0\n", v.CS)
	b.WriteString("\t}\n")

	if cfg.Escape != "" {
		fmt.Fprintf(&b, "%s:\n", cfg.Escape)
	}
	writeReturn(&b, cfg, v, "\t", v.CS)
	b.WriteString("}\n")

	return b.String(), nil
}

func writeTableTransition(b *strings.Builder, cfg Config, e machine.Edge) {
	b.WriteString("\t\t{")
	fmt.Fprintf(b, "lo: %#02x, hi: %#02x, target: %d", e.Lo, e.Hi, e.Target)
	if e.Precond != "" {
		fmt.Fprintf(b, ", precond: func() bool { return %s }", cfg.precondExpr(e.Precond))
	}
	if body := actionsBody(cfg, e.Actions); body != "" {
		fmt.Fprintf(b, ", fire: func() { %s }", body)
	}
	b.WriteString("},\n")
}

// actionsBody splices every action's body, in priority order, separated by
// newlines, so two actions competing on one transition fire in spec.md
// §4.4's documented order.
func actionsBody(cfg Config, actions action.List) string {
	var b strings.Builder
	for _, a := range actions.Sorted() {
		if body := cfg.actionBody(a.Name); body != "" {
			b.WriteString(body)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
