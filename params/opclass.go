package params

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOp indicates a configured operation string that does not map to
// any known op-class.
var ErrUnknownOp = errors.New("params: unknown op")

// OpClass is one of the ten power-relevant operation classes tile operations
// are grouped into. Every configured operation is sanitized (lower-cased)
// and mapped into exactly one of these before the rest of the
// system ever looks at it; the Simulator and PowerModel never see the raw
// configured operation string again.
type OpClass int

const (
	OpMul OpClass = iota
	OpAlu
	OpCp
	OpCmp
	OpByp
	OpSram
	OpPhi
	OpBr
	OpZero
	OpConst
)

// String renders the canonical op-class name.
func (c OpClass) String() string {
	switch c {
	case OpMul:
		return "mul"
	case OpAlu:
		return "alu"
	case OpCp:
		return "cp"
	case OpCmp:
		return "cmp"
	case OpByp:
		return "byp"
	case OpSram:
		return "sram"
	case OpPhi:
		return "phi"
	case OpBr:
		return "br"
	case OpZero:
		return "zero"
	case OpConst:
		return "const"
	default:
		return "unknown"
	}
}

// opAliases maps every configured-operation spelling the tile JSON may use
// onto its op-class. Multiple aliases can collapse onto the same class (e.g.
// any integer-add/sub/shift/logic variant is OpAlu); the table is
// intentionally permissive on casing and is sanitized by OpClassForString.
var opAliases = map[string]OpClass{
	"mul":      OpMul,
	"mult":     OpMul,
	"add":      OpAlu,
	"sub":      OpAlu,
	"alu":      OpAlu,
	"and":      OpAlu,
	"or":       OpAlu,
	"xor":      OpAlu,
	"shl":      OpAlu,
	"shr":      OpAlu,
	"copy":     OpCp,
	"cp":       OpCp,
	"mov":      OpCp,
	"cmp":      OpCmp,
	"lt":       OpCmp,
	"gt":       OpCmp,
	"eq":       OpCmp,
	"byp":      OpByp,
	"bypass":   OpByp,
	"ld":       OpSram,
	"st":       OpSram,
	"sram":     OpSram,
	"ld_sram":  OpSram,
	"st_sram":  OpSram,
	"phi":      OpPhi,
	"br":       OpBr,
	"branch":   OpBr,
	"zero":     OpZero,
	"zext":     OpZero,
	"const":    OpConst,
	"constant": OpConst,
}

// OpClassForString sanitizes (lower-cases, trims) a configured operation
// string and resolves it to an OpClass. It returns ErrUnknownOp, wrapped
// with the offending string, if the operation has no known mapping; callers
// building a Graph from untrusted JSON should treat this as a configuration
// error.
func OpClassForString(op string) (OpClass, error) {
	key := strings.ToLower(strings.TrimSpace(op))
	class, ok := opAliases[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}

	return class, nil
}
