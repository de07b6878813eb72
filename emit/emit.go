package emit

import "github.com/coregx/rxmachine/machine"

// Emit renders m as complete Go source per cfg.
func Emit(m *machine.Machine, cfg Config) (string, error) {
	if len(m.States) == 0 {
		return "", ErrNoStates
	}
	cfg.Vars = cfg.Vars.withDefaults()
	switch cfg.Backend {
	case Goto:
		return emitGoto(m, cfg)
	default:
		return emitTable(m, cfg)
	}
}
