package solver

import (
	"fmt"
	"io"
)

// Limit identifies which reactive bound a PV bus violated.
type Limit int

const (
	LimitMin Limit = iota
	LimitMax
)

func (l Limit) String() string {
	if l == LimitMin {
		return "Qmin"
	}
	return "Qmax"
}

// Observer receives per-iteration diagnostics from the solver. The solve
// result never depends on whether an observer is attached.
type Observer interface {
	// Iteration is called once per iteration with the maximum absolute
	// power mismatch before the convergence check.
	Iteration(iter int, maxMismatch float64)
	// BusConverted is called when a PV bus drops to PQ behavior because
	// its reactive output crossed a limit.
	BusConverted(iter, bus int, limit float64, which Limit)
}

// LogObserver prints diagnostics to W.
type LogObserver struct {
	W io.Writer
}

func (o LogObserver) Iteration(iter int, maxMismatch float64) {
	fmt.Fprintf(o.W, "iter %02d | max mismatch = %.3e\n", iter, maxMismatch)
}

func (o LogObserver) BusConverted(iter, bus int, limit float64, which Limit) {
	fmt.Fprintf(o.W, "iter %02d | PV bus %d converted to PQ due to %s limit (%g p.u.)\n", iter, bus, which, limit)
}
