package ast

// Operator is a unary, binary or assignment operator.
type Operator int

const (
	OpNone Operator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpNot
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpIncrement
	OpDecrement
)

var operatorSymbols = map[Operator]string{
	OpAdd:       "+",
	OpSub:       "-",
	OpMul:       "*",
	OpDiv:       "/",
	OpMod:       "%",
	OpAnd:       "&&",
	OpOr:        "||",
	OpNot:       "!",
	OpBitAnd:    "&",
	OpBitOr:     "|",
	OpBitXor:    "^",
	OpBitNot:    "~",
	OpShl:       "<<",
	OpShr:       ">>",
	OpEq:        "==",
	OpNe:        "!=",
	OpLt:        "<",
	OpLe:        "<=",
	OpGt:        ">",
	OpGe:        ">=",
	OpIncrement: "++",
	OpDecrement: "--",
}

// String returns the source spelling of the operator.
func (op Operator) String() string {
	if s, ok := operatorSymbols[op]; ok {
		return s
	}
	return "="
}

// AssignSymbol returns the spelling of the assignment using op.
func (op Operator) AssignSymbol() string {
	if op == OpNone {
		return "="
	}
	return op.String() + "="
}
