// Package powerflow computes the steady-state voltage profile of a
// transmission network from fixed power injections and generator setpoints.
// The subpackages do the work: element and network hold the data model,
// maths builds the admittance matrix, solver runs the Newton-Raphson
// iteration, load reads case files and report presents a solution. This
// package ties them together for the common load-and-solve path.
package powerflow

import (
	"powerflow/network"
	"powerflow/report"
	"powerflow/solver"
)

// Solve runs a Newton-Raphson load flow on net with the given solver
// options.
func Solve(net *network.Network, opts ...solver.Option) (*solver.Result, error) {
	lf, err := solver.New(opts...)
	if err != nil {
		return nil, err
	}
	return lf.Solve(net)
}

// NewReport binds a solved result to its network for presentation.
func NewReport(net *network.Network, res *solver.Result) *report.Report {
	return report.New(net, res)
}
