package sym

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
	"strings"
)

// ============================================================
// Func — named function applications
// ============================================================

// Func applies a named function to its arguments. Most functions are unary
// and act componentwise; the multi-output ones (see multiArity) return one
// value per root.
type Func struct {
	name string
	args []Expr
}

func funcOf(name string, args ...Expr) *Func { return &Func{name: name, args: args} }

// FuncOf builds and simplifies a function application.
func FuncOf(name string, args ...Expr) Expr { return funcOf(name, args...).Simplify() }

func SinOf(arg Expr) Expr  { return FuncOf("sin", arg) }
func CosOf(arg Expr) Expr  { return FuncOf("cos", arg) }
func ExpOf(arg Expr) Expr  { return FuncOf("exp", arg) }
func LnOf(arg Expr) Expr   { return FuncOf("ln", arg) }
func SqrtOf(arg Expr) Expr { return FuncOf("sqrt", arg) }
func AbsOf(arg Expr) Expr  { return FuncOf("abs", arg) }

// SolveOf returns solve(f, t): the real roots of f in the bound variable t.
func SolveOf(f Expr, t string) Expr { return FuncOf("solve", f, S(t)) }

var unaryFuncs = map[string]func(complex128) complex128{
	"sin":  realOr(math.Sin, nil, cmplx.Sin),
	"cos":  realOr(math.Cos, nil, cmplx.Cos),
	"tan":  realOr(math.Tan, nil, cmplx.Tan),
	"exp":  realOr(math.Exp, nil, cmplx.Exp),
	"ln":   realOr(math.Log, nonNegative, cmplx.Log),
	"log":  realOr(math.Log, nonNegative, cmplx.Log),
	"sqrt": realOr(math.Sqrt, nonNegative, cmplx.Sqrt),
	"asin": realOr(math.Asin, unitInterval, cmplx.Asin),
	"acos": realOr(math.Acos, unitInterval, cmplx.Acos),
	"atan": realOr(math.Atan, nil, cmplx.Atan),
	"sinh": realOr(math.Sinh, nil, cmplx.Sinh),
	"cosh": realOr(math.Cosh, nil, cmplx.Cosh),
	"tanh": realOr(math.Tanh, nil, cmplx.Tanh),
	"abs":  func(z complex128) complex128 { return complex(cmplx.Abs(z), 0) },
	"floor": func(z complex128) complex128 {
		return complex(math.Floor(real(z)), math.Floor(imag(z)))
	},
	"ceil": func(z complex128) complex128 {
		return complex(math.Ceil(real(z)), math.Ceil(imag(z)))
	},
	"sign": func(z complex128) complex128 {
		if imag(z) == 0 {
			switch r := real(z); {
			case r > 0:
				return 1
			case r < 0:
				return -1
			default:
				return complex(r, 0)
			}
		}
		return z / complex(cmplx.Abs(z), 0)
	},
	"re":   func(z complex128) complex128 { return complex(real(z), 0) },
	"im":   func(z complex128) complex128 { return complex(imag(z), 0) },
	"arg":  func(z complex128) complex128 { return complex(cmplx.Phase(z), 0) },
	"conj": cmplx.Conj,
}

// multiArity lists the functions that produce a variable number of values.
var multiArity = map[string]int{
	"quadratic": 3,
	"quad":      3,
	"cubic":     4,
	"quartic":   5,
	"unity":     1,
	"solve":     2,
}

// IsFunction reports whether name is a function the kernel can evaluate.
func IsFunction(name string) bool {
	_, unary := unaryFuncs[name]
	_, multi := multiArity[name]
	return unary || multi
}

// Arity returns the number of arguments name takes.
func Arity(name string) int {
	if n, ok := multiArity[name]; ok {
		return n
	}
	return 1
}

// IsMultiOutput reports whether name returns a list of values.
func IsMultiOutput(name string) bool {
	_, ok := multiArity[name]
	return ok
}

func realOr(rf func(float64) float64, domain func(float64) bool, cf func(complex128) complex128) func(complex128) complex128 {
	return func(z complex128) complex128 {
		if imag(z) == 0 && (domain == nil || domain(real(z))) {
			return complex(rf(real(z)), 0)
		}
		return cf(z)
	}
}

func nonNegative(f float64) bool  { return f >= 0 || math.IsNaN(f) }
func unitInterval(f float64) bool { return (f >= -1 && f <= 1) || math.IsNaN(f) }

// powComplex raises b to e without introducing spurious imaginary parts
// when the result is real.
func powComplex(b, e complex128) complex128 {
	if imag(b) == 0 && imag(e) == 0 {
		rb, re := real(b), real(e)
		if rb >= 0 || re == math.Trunc(re) || math.IsNaN(rb) || math.IsNaN(re) {
			return complex(math.Pow(rb, re), 0)
		}
	}
	if imag(e) == 0 {
		re := real(e)
		if re == math.Trunc(re) && math.Abs(re) <= 64 {
			n := int(math.Abs(re))
			acc := complex128(1)
			base := b
			for n > 0 {
				if n&1 == 1 {
					acc *= base
				}
				base *= base
				n >>= 1
			}
			if re < 0 {
				return 1 / acc
			}
			return acc
		}
	}
	if b == 0 {
		if real(e) > 0 {
			return 0
		}
		return complex(math.Inf(1), 0)
	}
	return cmplx.Pow(b, e)
}

func (f *Func) Simplify() Expr {
	args := make([]Expr, len(f.args))
	for i, a := range f.args {
		if f.name == "solve" && i == 1 {
			args[i] = a
			continue
		}
		args[i] = a.Simplify()
	}

	if fn, ok := unaryFuncs[f.name]; ok && len(args) == 1 {
		if n, ok := args[0].(*Num); ok {
			return NComplex(fn(n.val))
		}
	}

	switch f.name {
	case "exp":
		if inner, ok := args[0].(*Func); ok && (inner.name == "ln" || inner.name == "log") && len(inner.args) == 1 {
			return inner.args[0]
		}
	case "abs":
		if m, ok := args[0].(*Mul); ok && len(m.factors) >= 2 {
			if coeff, ok2 := m.factors[0].(*Num); ok2 && coeff.IsNegOne() {
				inner := m.factors[1:]
				if len(inner) == 1 {
					return AbsOf(inner[0])
				}
				return AbsOf(MulOf(inner...))
			}
		}
	case "solve":
		if len(args) == 2 {
			if t, ok := args[1].(*Sym); ok {
				free := FreeSymbols(args[0])
				delete(free, t.name)
				if len(free) == 0 {
					return numVec(solveReal(args[0], t.name))
				}
			}
		}
	default:
		if IsMultiOutput(f.name) && allNum(args) {
			in := make([]complex128, len(args))
			for i, a := range args {
				in[i] = a.(*Num).val
			}
			if roots, err := multiRoots(f.name, in); err == nil {
				return numVec(roots)
			}
		}
	}
	return &Func{name: f.name, args: args}
}

func allNum(es []Expr) bool {
	for _, e := range es {
		if _, ok := e.(*Num); !ok {
			return false
		}
	}
	return true
}

func numVec(zs []complex128) Expr {
	elems := make([]Expr, len(zs))
	for i, z := range zs {
		elems[i] = NComplex(z)
	}
	return &Vec{elems: elems}
}

func (f *Func) String() string {
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.String()
	}
	return f.name + "(" + strings.Join(parts, ", ") + ")"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	if f.name == "solve" && len(f.args) == 2 {
		if t, ok := f.args[1].(*Sym); ok && t.name == varName {
			return f
		}
		return funcOf(f.name, f.args[0].Sub(varName, value), f.args[1]).Simplify()
	}
	args := make([]Expr, len(f.args))
	for i, a := range f.args {
		args[i] = a.Sub(varName, value)
	}
	return funcOf(f.name, args...).Simplify()
}

func (f *Func) Eval() (Value, error) {
	if fn, ok := unaryFuncs[f.name]; ok {
		if len(f.args) != 1 {
			return nil, arityError(f.name, 1, len(f.args))
		}
		v, err := f.args[0].Eval()
		if err != nil {
			return nil, err
		}
		return mapValue(v, fn)
	}
	want, ok := multiArity[f.name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunc, f.name)
	}
	if len(f.args) != want {
		return nil, arityError(f.name, want, len(f.args))
	}
	if f.name == "solve" {
		t, ok := f.args[1].(*Sym)
		if !ok {
			return nil, fmt.Errorf("solve: second argument must be a variable, got %s", f.args[1])
		}
		return Vector(solveReal(f.args[0], t.name)), nil
	}
	in := make([]complex128, len(f.args))
	for i, a := range f.args {
		v, err := a.Eval()
		if err != nil {
			return nil, err
		}
		s, ok := v.(Scalar)
		if !ok {
			return nil, fmt.Errorf("%s: %w: argument %d is %T", f.name, ErrShape, i+1, v)
		}
		in[i] = complex128(s)
	}
	roots, err := multiRoots(f.name, in)
	if err != nil {
		return nil, err
	}
	return Vector(roots), nil
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && equalAll(f.args, o.args)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) FuncName() string { return f.name }
func (f *Func) Args() []Expr     { return f.args }

// ============================================================
// Solvers
// ============================================================

const (
	solveRange  = 10.0
	solveStarts = 40
	solveIter   = 60
	solveTol    = 1e-10
)

// solveReal finds the real roots of expr in varName by running Newton's
// method from evenly spaced starting points. Roots are sorted ascending.
func solveReal(expr Expr, varName string) []complex128 {
	f := func(x float64) float64 {
		v, err := expr.Sub(varName, R(x)).Eval()
		if err != nil {
			return math.NaN()
		}
		s, ok := v.(Scalar)
		if !ok || math.Abs(imag(complex128(s))) > 1e-9 {
			return math.NaN()
		}
		return real(complex128(s))
	}
	var roots []float64
	for i := 0; i <= solveStarts; i++ {
		x := -solveRange + 2*solveRange*float64(i)/solveStarts
		for iter := 0; iter < solveIter; iter++ {
			fx := f(x)
			if math.IsNaN(fx) {
				break
			}
			if math.Abs(fx) < solveTol {
				dup := false
				for _, r := range roots {
					if math.Abs(r-x) < 1e-6 {
						dup = true
						break
					}
				}
				if !dup {
					roots = append(roots, x)
				}
				break
			}
			h := 1e-6 * math.Max(1, math.Abs(x))
			dfx := (f(x+h) - f(x-h)) / (2 * h)
			if math.IsNaN(dfx) || math.Abs(dfx) < 1e-15 {
				break
			}
			x -= fx / dfx
			if math.Abs(x) > solveRange*10 {
				break
			}
		}
	}
	sort.Float64s(roots)
	roots = mergeRoots(roots)
	out := make([]complex128, len(roots))
	for i, r := range roots {
		out[i] = complex(cleanReal(r), 0)
	}
	return out
}

// mergeRoots collapses runs of sorted roots closer than rootGap into their
// mean. Newton stops within about sqrt(solveTol) of a repeated root, so a
// double root arrives as a cluster of nearby approximations.
func mergeRoots(sorted []float64) []float64 {
	const rootGap = 1e-4
	var out []float64
	for i := 0; i < len(sorted); {
		j, sum := i+1, sorted[i]
		for j < len(sorted) && sorted[j]-sorted[j-1] < rootGap*math.Max(1, math.Abs(sorted[j])) {
			sum += sorted[j]
			j++
		}
		out = append(out, sum/float64(j-i))
		i = j
	}
	return out
}

func cleanReal(r float64) float64 {
	if n := math.Round(r); math.Abs(r-n) < 1e-9 {
		return n + 0
	}
	return r
}
