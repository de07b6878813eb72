package emit

import (
	"fmt"
	"strings"

	"github.com/coregx/rxmachine/machine"
)

// emitGoto renders m as one labeled block per state with inline
// byte-range branches falling straight into action code, grounded on the
// teacher's O(1) first-byte dispatch (nfa/branch_dispatch.go) — no
// transition-table indirection, at the cost of a larger emitted function
// body.
//
// cs doubles as the resume point: a call passing a state's id as cs
// re-enters through the dispatch switch straight into that state's
// label instead of always starting at m.Start, the mechanism spec.md §5
// calls cooperative resumption.
func emitGoto(m *machine.Machine, cfg Config) (string, error) {
	var b strings.Builder
	v := cfg.Vars

	fmt.Fprintf(&b, "package %s\n\n", cfg.packageName())
	b.WriteString("// Code generated by rxmachine. DO NOT EDIT.\n\n")

	fmt.Fprintf(&b, "const %sStart = %d\n\n", cfg.funcName(), m.Start)

	fmt.Fprintf(&b, "func %s(%s []byte, %s, %s int, %s int, %s %s, %s bool) %s {\n",
		cfg.funcName(), v.Data, v.P, v.PEnd, v.CS, v.Mem, cfg.memType(), v.IsEOF, cfg.returnSig())
	if cfg.Init != "" {
		fmt.Fprintf(&b, "\t%s\n", cfg.Init)
	}
	if cfg.Mark != "" {
		fmt.Fprintf(&b, "\t%s := -1\n", cfg.Mark)
	}

	fmt.Fprintf(&b, "\tswitch %s {\n", v.CS)
	for _, st := range m.States {
		fmt.Fprintf(&b, "\tcase %d:\n\t\tgoto state%d\n", st.ID, st.ID)
	}
	b.WriteString("\t}\n")
	if cfg.OnError != "" {
		fmt.Fprintf(&b, "\t%s\n", cfg.OnError)
	}
	writeReturn(&b, cfg, v, "\t", "-"+v.CS)
	b.WriteString("\n")

	for _, st := range m.States {
		// Each state's body is wrapped in its own block: every block
		// declares its own "byte" local, and without a nested scope per
		// label (labels don't open one on their own) the repeated
		// declaration across states sharing the function's top-level
		// block would be a compile error.
		fmt.Fprintf(&b, "state%d:\n\t{\n", st.ID)
		fmt.Fprintf(&b, "\t\tif %s >= %s {\n", v.P, v.PEnd)
		if st.Accept {
			fmt.Fprintf(&b, "\t\t\tif %s {\n", v.IsEOF)
			if body := actionsBody(cfg, st.EOFActions); body != "" {
				fmt.Fprintf(&b, "\t\t\t\t%s\n", body)
			}
			if cfg.Return != "" {
				fmt.Fprintf(&b, "\t\t\t\t%s\n", cfg.Return)
			}
			writeReturn(&b, cfg, v, "\t\t\t\t", "0")
			b.WriteString("\t\t\t}\n")
		}
		writeReturn(&b, cfg, v, "\t\t\t", fmt.Sprintf("%d", st.ID))
		b.WriteString("\t\t}\n")
		if cfg.BoundsCheck {
			fmt.Fprintf(&b, "\t\tif %s < 0 || %s >= len(%s) {\n", v.P, v.P, v.Data)
			writeReturn(&b, cfg, v, "\t\t\t", fmt.Sprintf("-%d", st.ID))
			b.WriteString("\t\t}\n")
		}
		fmt.Fprintf(&b, "\t\t%s := %s[%s]\n", v.Byte, v.Data, v.P)
		for _, e := range st.Edges {
			writeGotoBranch(&b, cfg, v, e)
		}
		if cfg.OnError != "" {
			fmt.Fprintf(&b, "\t\t%s\n", cfg.OnError)
		}
		writeReturn(&b, cfg, v, "\t\t", fmt.Sprintf("-%d", st.ID))
		b.WriteString("\t}\n\n")
	}

	if cfg.Escape != "" {
		fmt.Fprintf(&b, "%s:\n", cfg.Escape)
		writeReturn(&b, cfg, v, "\t", v.CS)
	}

	b.WriteString("}\n")
	return b.String(), nil
}

func writeGotoBranch(b *strings.Builder, cfg Config, v VariableNames, e machine.Edge) {
	cond := fmt.Sprintf("%s >= %#02x && %s <= %#02x", v.Byte, e.Lo, v.Byte, e.Hi)
	if e.Precond != "" {
		cond = fmt.Sprintf("%s && (%s)", cond, cfg.precondExpr(e.Precond))
	}
	fmt.Fprintf(b, "\t\tif %s {\n", cond)
	if body := actionsBody(cfg, e.Actions); body != "" {
		fmt.Fprintf(b, "\t\t\t%s\n", body)
	}
	fmt.Fprintf(b, "\t\t\t%s++\n", v.P)
	fmt.Fprintf(b, "\t\t\tgoto state%d\n", e.Target)
	b.WriteString("\t\t}\n")
}
