package sym

// ============================================================
// Free Symbols and tree scans
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Func:
		if v.name == "solve" && len(v.args) == 2 {
			if t, ok := v.args[1].(*Sym); ok {
				inner := map[string]struct{}{}
				collectSymbols(v.args[0], inner)
				delete(inner, t.name)
				for name := range inner {
					out[name] = struct{}{}
				}
				return
			}
		}
		for _, a := range v.args {
			collectSymbols(a, out)
		}
	default:
		for _, c := range children(e) {
			collectSymbols(c, out)
		}
	}
}

// HasSymbol reports whether name occurs free in e.
func HasSymbol(e Expr, name string) bool {
	_, ok := FreeSymbols(e)[name]
	return ok
}

func children(e Expr) []Expr {
	switch v := e.(type) {
	case *Add:
		return v.terms
	case *Mul:
		return v.factors
	case *Pow:
		return []Expr{v.base, v.exp}
	case *Func:
		return v.args
	case *Vec:
		return v.elems
	case *PlusMinus:
		if v.a == nil {
			return []Expr{v.b}
		}
		return []Expr{v.a, v.b}
	}
	return nil
}

// Walk visits e and its subexpressions depth first. Returning false from fn
// skips the children of the current node.
func Walk(e Expr, fn func(Expr) bool) {
	if !fn(e) {
		return
	}
	for _, c := range children(e) {
		Walk(c, fn)
	}
}

// HasMultiOutput reports whether e contains a primitive that yields a
// variable number of values: a multi-output function or ±.
func HasMultiOutput(e Expr) bool {
	found := false
	Walk(e, func(n Expr) bool {
		switch v := n.(type) {
		case *PlusMinus:
			found = true
		case *Func:
			if IsMultiOutput(v.name) {
				found = true
			}
		}
		return !found
	})
	return found
}

// producesVector reports whether e may evaluate to something other than a
// scalar. Symbols other than the axes may name vector-valued definitions.
func producesVector(e Expr) bool {
	found := false
	Walk(e, func(n Expr) bool {
		switch v := n.(type) {
		case *PlusMinus, *Vec:
			found = true
		case *Sym:
			if v.name != AxisX && v.name != AxisY {
				found = true
			}
		case *Func:
			if IsMultiOutput(v.name) {
				found = true
			}
		}
		return !found
	})
	return found
}
