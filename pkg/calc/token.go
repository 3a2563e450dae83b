// Package calc implements the token calculator: validation and evaluation of
// flat infix expressions such as "3 + 4 x 2" supplied as separate tokens.
// Multiplicative operators bind tighter than additive ones and each tier is
// evaluated left to right.
package calc

import (
	"strconv"
	"strings"
)

// Operator represents one of the five recognized operator tokens.
type Operator int

const (
	OpAdd      Operator = iota // +
	OpSubtract                 // -
	OpMultiply                 // x
	OpDivide                   // /
	OpModulus                  // %
)

var operatorSymbols = map[Operator]string{
	OpAdd:      "+",
	OpSubtract: "-",
	OpMultiply: "x",
	OpDivide:   "/",
	OpModulus:  "%",
}

var symbolOperators = map[string]Operator{
	"+": OpAdd,
	"-": OpSubtract,
	"x": OpMultiply,
	"/": OpDivide,
	"%": OpModulus,
}

// String returns the token symbol of the operator.
func (o Operator) String() string {
	if s, ok := operatorSymbols[o]; ok {
		return s
	}
	return "Operator(" + strconv.Itoa(int(o)) + ")"
}

// ParseOperator looks up an operator token. Only the exact symbols
// "+", "-", "x", "/" and "%" are recognized; "*" is not.
func ParseOperator(s string) (Operator, bool) {
	op, ok := symbolOperators[s]
	return op, ok
}

// additive is the pending operator of the outer accumulator.
type additive int

const (
	add additive = iota
	subtract
)

// multiplicative is the pending operator of the inner accumulator.
type multiplicative int

const (
	multiply multiplicative = iota
	divide
	modulus
)

func (o Operator) isAdditive() bool {
	return o == OpAdd || o == OpSubtract
}

func (o Operator) outerOp() additive {
	if o == OpSubtract {
		return subtract
	}
	return add
}

func (o Operator) innerOp() multiplicative {
	switch o {
	case OpDivide:
		return divide
	case OpModulus:
		return modulus
	default:
		return multiply
	}
}

// parseNumber parses a numeric token in base 10 within the range of int.
// A leading sign is accepted.
func parseNumber(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SplitExpression splits a whitespace separated expression such as
// "3 + 4 x 2" into tokens, the way a shell splits process arguments.
func SplitExpression(s string) []string {
	return strings.Fields(s)
}
