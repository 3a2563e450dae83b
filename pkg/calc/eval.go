package calc

// Expression is a validated token sequence. Numbers holds the operands in
// order and Operators the operators between them, so
// len(Operators) == len(Numbers)-1.
type Expression struct {
	Numbers   []int
	Operators []Operator
}

// Parse validates tokens and returns the expression they describe. The token
// count is checked first; the remaining tokens are checked in index order and
// the first offending token is reported.
func Parse(tokens []string) (*Expression, error) {
	if len(tokens)%2 != 1 {
		return nil, NewInvalidTokenCountError(len(tokens))
	}

	expr := &Expression{
		Numbers:   make([]int, 0, len(tokens)/2+1),
		Operators: make([]Operator, 0, len(tokens)/2),
	}
	for i, tok := range tokens {
		if i%2 == 0 {
			n, ok := parseNumber(tok)
			if !ok {
				return nil, NewInvalidNumberError(tok)
			}
			expr.Numbers = append(expr.Numbers, n)
			continue
		}
		op, ok := ParseOperator(tok)
		if !ok {
			return nil, NewInvalidOperatorError(tok)
		}
		expr.Operators = append(expr.Operators, op)
	}
	return expr, nil
}

// Evaluate validates and evaluates tokens in one call.
func Evaluate(tokens []string) (int, error) {
	expr, err := Parse(tokens)
	if err != nil {
		return 0, err
	}
	return expr.Evaluate()
}

// accumulator holds the running state of a single evaluation.
type accumulator struct {
	outerSign   additive
	innerOp     multiplicative
	outerResult int
	innerResult int
}

func newAccumulator() accumulator {
	return accumulator{
		outerSign:   add,
		innerOp:     multiply,
		outerResult: 0,
		innerResult: 1,
	}
}

// Evaluate computes the value of the expression. Each operand is folded when
// the operator after it is seen; a trailing "+" flushes the last group.
func (e *Expression) Evaluate() (int, error) {
	acc := newAccumulator()
	for i, n := range e.Numbers {
		next := OpAdd
		if i < len(e.Operators) {
			next = e.Operators[i]
		}
		if err := acc.apply(n, next); err != nil {
			return 0, err
		}
	}
	return acc.outerResult, nil
}

// apply folds the pending number n and then records op as the next pending
// operator.
func (a *accumulator) apply(n int, op Operator) error {
	if err := a.foldInner(n); err != nil {
		return err
	}
	if !op.isAdditive() {
		a.innerOp = op.innerOp()
		return nil
	}
	if err := a.foldOuter(); err != nil {
		return err
	}
	a.outerSign = op.outerOp()
	a.innerOp = multiply
	a.innerResult = 1
	return nil
}

// foldInner combines n into the multiplicative group.
func (a *accumulator) foldInner(n int) error {
	switch a.innerOp {
	case multiply:
		if mulOverflows(a.innerResult, n) {
			return NewOutOfBoundsError()
		}
		a.innerResult *= n
	case divide:
		if n == 0 {
			return NewDivisionByZeroError()
		}
		if divOverflows(a.innerResult, n) {
			return NewOutOfBoundsError()
		}
		a.innerResult /= n
	case modulus:
		if n == 0 {
			return NewDivisionByZeroError()
		}
		a.innerResult %= n
	}
	return nil
}

// foldOuter combines the multiplicative group into the running sum.
func (a *accumulator) foldOuter() error {
	switch a.outerSign {
	case add:
		if addOverflows(a.outerResult, a.innerResult) {
			return NewOutOfBoundsError()
		}
		a.outerResult += a.innerResult
	case subtract:
		if subOverflows(a.outerResult, a.innerResult) {
			return NewOutOfBoundsError()
		}
		a.outerResult -= a.innerResult
	}
	return nil
}
