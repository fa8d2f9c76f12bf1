// Package solver implements the Newton-Raphson load-flow solver over the
// polar-form power-flow equations with the partitioned H,N,M,L Jacobian.
package solver

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"powerflow/element"
	"powerflow/maths"
	"powerflow/network"
)

const (
	DefaultTolerance     = 1e-8
	DefaultMaxIterations = 100

	// vmFloor bounds the voltage magnitude away from zero on the N and L
	// diagonals, where the computed injection is divided by Vm.
	vmFloor = 1e-12
)

var (
	ErrTolerance        = errors.New("solver: tolerance must be positive")
	ErrMaxIterations    = errors.New("solver: iteration budget must be positive")
	ErrSingularJacobian = errors.New("solver: jacobian is singular")
)

// Result is the load-flow solution. All vectors are indexed by bus index.
// A non-converged solve is a normal outcome: Converged is false, the vectors
// hold the last computed state and Iterations equals the budget.
type Result struct {
	Vm         []float64 // voltage magnitude (p.u.)
	Va         []float64 // voltage angle (rad)
	P          []float64 // net injected active power (p.u.)
	Q          []float64 // net injected reactive power (p.u.)
	Iterations int
	Converged  bool
}

// LoadFlow holds the solver configuration. The zero value is not usable;
// construct with New.
type LoadFlow struct {
	Tol      float64
	MaxIter  int
	Observer Observer
}

// Option configures a LoadFlow.
type Option func(*LoadFlow)

// WithTolerance sets the convergence tolerance on the maximum power
// mismatch (p.u.).
func WithTolerance(tol float64) Option {
	return func(lf *LoadFlow) { lf.Tol = tol }
}

// WithMaxIterations sets the iteration budget.
func WithMaxIterations(n int) Option {
	return func(lf *LoadFlow) { lf.MaxIter = n }
}

// WithObserver attaches a diagnostic observer.
func WithObserver(obs Observer) Option {
	return func(lf *LoadFlow) { lf.Observer = obs }
}

// WithVerbose routes diagnostics to w via a LogObserver.
func WithVerbose(w io.Writer) Option {
	return func(lf *LoadFlow) { lf.Observer = LogObserver{W: w} }
}

// New returns a configured solver, rejecting non-positive tolerance or
// iteration budget.
func New(opts ...Option) (*LoadFlow, error) {
	lf := &LoadFlow{Tol: DefaultTolerance, MaxIter: DefaultMaxIterations}
	for _, o := range opts {
		o(lf)
	}
	if lf.Tol <= 0 {
		return nil, fmt.Errorf("%w: got %g", ErrTolerance, lf.Tol)
	}
	if lf.MaxIter <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrMaxIterations, lf.MaxIter)
	}
	return lf, nil
}

// Solve runs the Newton-Raphson iteration on net and returns the final
// state. The network is never mutated: all working state lives in the call.
// A singular Jacobian is a hard error, distinct from running out of
// iterations, which returns Converged=false with a nil error.
func (lf *LoadFlow) Solve(net *network.Network) (*Result, error) {
	slack, err := net.SlackIndex()
	if err != nil {
		return nil, err
	}

	yb := maths.BuildYbus(net)
	n := net.NumBuses()

	// working state, seeded from the bus records
	vm := make([]float64, n)
	va := make([]float64, n)
	pSpec := make([]float64, n)
	qSpec := make([]float64, n)
	for k, b := range net.Buses {
		vm[k] = b.V
		va[k] = b.ThetaDeg * math.Pi / 180
		pSpec[k] = b.P
		// Q is specified for PQ only; PV entries are placeholders until a
		// limit violation pins them.
		if b.Type == element.PQ {
			qSpec[k] = b.Q
		}
	}

	// PV classification state: active means the magnitude constraint still
	// holds, converted means the bus behaves as PQ for the rest of the
	// solve. The transition is one-way.
	pvActive := make([]bool, n)
	converted := make([]bool, n)
	for _, k := range net.PVIndices() {
		pvActive[k] = true
	}

	v := make([]complex128, n)
	p := make([]float64, n)
	q := make([]float64, n)

	for iter := 0; iter < lf.MaxIter; iter++ {
		// injected powers at the current voltage estimate: S = V .* conj(Y V)
		for k := range v {
			v[k] = cmplx.Rect(vm[k], va[k])
		}
		for k := 0; k < n; k++ {
			var ik complex128
			for m := 0; m < n; m++ {
				ik += yb.At(k, m) * v[m]
			}
			s := v[k] * cmplx.Conj(ik)
			p[k] = real(s)
			q[k] = imag(s)
		}

		// enforce PV reactive limits
		for k := 0; k < n; k++ {
			if !pvActive[k] {
				continue
			}
			b := net.Buses[k]
			switch {
			case b.Qmin != nil && q[k] < *b.Qmin:
				pvActive[k] = false
				converted[k] = true
				qSpec[k] = *b.Qmin
				if lf.Observer != nil {
					lf.Observer.BusConverted(iter, k, *b.Qmin, LimitMin)
				}
			case b.Qmax != nil && q[k] > *b.Qmax:
				pvActive[k] = false
				converted[k] = true
				qSpec[k] = *b.Qmax
				if lf.Observer != nil {
					lf.Observer.BusConverted(iter, k, *b.Qmax, LimitMax)
				}
			}
		}

		// partition the unknowns: angles at every non-slack bus, magnitudes
		// at PQ buses and converted PV buses, both ascending
		pRows := make([]int, 0, n-1)
		qRows := make([]int, 0, n)
		for k := 0; k < n; k++ {
			if k != slack {
				pRows = append(pRows, k)
			}
			if net.Buses[k].Type == element.PQ || converted[k] {
				qRows = append(qRows, k)
			}
		}
		mP, mQ := len(pRows), len(qRows)

		mis := make([]float64, mP+mQ)
		for ri, k := range pRows {
			mis[ri] = pSpec[k] - p[k]
		}
		for ri, k := range qRows {
			mis[mP+ri] = qSpec[k] - q[k]
		}

		maxMis := maxAbs(mis)
		if lf.Observer != nil {
			lf.Observer.Iteration(iter, maxMis)
		}
		if maxMis < lf.Tol {
			return newResult(vm, va, p, q, iter, true), nil
		}

		dx, err := lf.correction(yb, vm, va, p, q, pRows, qRows, mis)
		if err != nil {
			return nil, err
		}
		for ri, k := range pRows {
			va[k] += dx.AtVec(ri)
		}
		for ri, k := range qRows {
			vm[k] += dx.AtVec(mP + ri)
		}

		// magnitude is not an unknown on a still-active PV bus; re-impose
		// the setpoint against numerical drift
		for k := 0; k < n; k++ {
			if pvActive[k] {
				vm[k] = net.Buses[k].V
			}
		}
	}

	return newResult(vm, va, p, q, lf.MaxIter, false), nil
}

// correction assembles the partitioned Jacobian J = [[H,N],[M,L]] over the
// unknown sets and solves J*dx = mismatch directly.
func (lf *LoadFlow) correction(yb *mat.CDense, vm, va, p, q []float64, pRows, qRows []int, mis []float64) (*mat.VecDense, error) {
	mP, mQ := len(pRows), len(qRows)
	dim := mP + mQ

	// bus index -> column position, rebuilt per iteration as the magnitude
	// partition grows with PV conversions
	thetaPos := make(map[int]int, mP)
	vPos := make(map[int]int, mQ)
	for pos, k := range pRows {
		thetaPos[k] = pos
	}
	for pos, k := range qRows {
		vPos[k] = pos
	}

	jac := mat.NewDense(dim, dim, nil)

	// H and N: active power rows
	for ri, k := range pRows {
		vk := vm[k]
		ykk := yb.At(k, k)
		jac.Set(ri, thetaPos[k], -q[k]-vk*vk*imag(ykk))
		if pos, ok := vPos[k]; ok {
			jac.Set(ri, mP+pos, p[k]/math.Max(vk, vmFloor)+vk*real(ykk))
		}
		for _, m := range pRows {
			if m == k {
				continue
			}
			ykm := yb.At(k, m)
			d := va[k] - va[m]
			jac.Set(ri, thetaPos[m], vk*vm[m]*(real(ykm)*math.Sin(d)-imag(ykm)*math.Cos(d)))
		}
		for _, m := range qRows {
			if m == k {
				continue
			}
			ykm := yb.At(k, m)
			d := va[k] - va[m]
			jac.Set(ri, mP+vPos[m], vk*(real(ykm)*math.Cos(d)+imag(ykm)*math.Sin(d)))
		}
	}

	// M and L: reactive power rows
	for ri, k := range qRows {
		vk := vm[k]
		ykk := yb.At(k, k)
		jac.Set(mP+ri, thetaPos[k], p[k]-vk*vk*real(ykk))
		jac.Set(mP+ri, mP+vPos[k], q[k]/math.Max(vk, vmFloor)-vk*imag(ykk))
		for _, m := range pRows {
			if m == k {
				continue
			}
			ykm := yb.At(k, m)
			d := va[k] - va[m]
			jac.Set(mP+ri, thetaPos[m], -vk*vm[m]*(real(ykm)*math.Cos(d)+imag(ykm)*math.Sin(d)))
		}
		for _, m := range qRows {
			if m == k {
				continue
			}
			ykm := yb.At(k, m)
			d := va[k] - va[m]
			jac.Set(mP+ri, mP+vPos[m], vk*(real(ykm)*math.Sin(d)-imag(ykm)*math.Cos(d)))
		}
	}

	var lu mat.LU
	lu.Factorize(jac)
	dx := mat.NewVecDense(dim, nil)
	if err := lu.SolveVecTo(dx, false, mat.NewVecDense(dim, mis)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularJacobian, err)
	}
	return dx, nil
}

func newResult(vm, va, p, q []float64, iterations int, converged bool) *Result {
	return &Result{
		Vm:         append([]float64(nil), vm...),
		Va:         append([]float64(nil), va...),
		P:          append([]float64(nil), p...),
		Q:          append([]float64(nil), q...),
		Iterations: iterations,
		Converged:  converged,
	}
}

func maxAbs(xs []float64) float64 {
	m := 0.0
	for _, x := range xs {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}
