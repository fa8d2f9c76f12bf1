// Package report derives presentation quantities from a solved load flow:
// per-branch power flows and losses, a printable flow table, profile plots
// and an HTML page. Everything here is recomputed from the Network and the
// solved voltage phasors; the solver is not involved.
package report

import (
	"fmt"
	"io"
	"math"
	"math/cmplx"

	"powerflow/network"
	"powerflow/solver"
)

// Report binds a network to its load-flow solution.
type Report struct {
	Net *network.Network
	Res *solver.Result
}

// New returns a report over net and its solution res.
func New(net *network.Network, res *solver.Result) *Report {
	return &Report{Net: net, Res: res}
}

// BranchFlow is the power flow over one branch, in MW/MVAr on the system
// base. Loss is Pij + Pji.
type BranchFlow struct {
	Branch   int
	From, To int
	Pij, Qij float64
	Pji, Qji float64
	Loss     float64
}

// BranchFlows recomputes the flow through every branch from its pi-model
// and the solved voltages.
func (r *Report) BranchFlows() []BranchFlow {
	v := r.phasors()
	flows := make([]BranchFlow, len(r.Net.Branches))
	for k, br := range r.Net.Branches {
		ys := br.SeriesAdmittance()
		ysh := br.ChargingAdmittance()
		t := br.TapPhasor()
		if br.Tap == 0 {
			// zero-tap records mean "no transformer"
			t = cmplx.Rect(1, br.ShiftDeg*math.Pi/180)
		}
		vi, vj := v[br.I], v[br.J]

		iij := (vi/t-vj)*ys + (vi/t)*ysh
		sij := vi * cmplx.Conj(iij) * complex(r.Net.BaseMVA, 0)
		iji := (vj-vi/t)*ys + vj*ysh
		sji := vj * cmplx.Conj(iji) * complex(r.Net.BaseMVA, 0)

		flows[k] = BranchFlow{
			Branch: k,
			From:   br.I,
			To:     br.J,
			Pij:    real(sij),
			Qij:    imag(sij),
			Pji:    real(sji),
			Qji:    imag(sji),
			Loss:   real(sij) + real(sji),
		}
	}
	return flows
}

// TotalLosses sums the active losses over all branches, in MW.
func (r *Report) TotalLosses() float64 {
	var total float64
	for _, fl := range r.BranchFlows() {
		total += fl.Loss
	}
	return total
}

// GenerationShare is one generator's contribution to the active generation.
type GenerationShare struct {
	Bus      int
	MW       float64
	Fraction float64
}

// GenerationShares lists the buses with positive active injection and their
// share of the total.
func (r *Report) GenerationShares() []GenerationShare {
	var shares []GenerationShare
	var total float64
	for _, b := range r.Net.Buses {
		if b.P > 0 {
			shares = append(shares, GenerationShare{Bus: b.Index, MW: b.P * r.Net.BaseMVA})
			total += b.P * r.Net.BaseMVA
		}
	}
	for i := range shares {
		if total > 0 {
			shares[i].Fraction = shares[i].MW / total
		}
	}
	return shares
}

// WriteFlowTable prints the branch flow table with per-branch and total
// losses to w.
func (r *Report) WriteFlowTable(w io.Writer) {
	const rule = "----------------------------------------------------------------------------------------------------------------------------"
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "BRANCH POWER FLOWS")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-8s %-6s %-10s %-6s %-10s %-12s %-12s %-12s %-12s %-12s %-12s %-12s\n",
		"Branch", "From", "From type", "To", "To type", "Vi (p.u.)", "Vj (p.u.)",
		"P_ij (MW)", "Q_ij (MVAr)", "P_ji (MW)", "Q_ji (MVAr)", "Losses (MW)")
	fmt.Fprintln(w, rule)

	var total float64
	for _, fl := range r.BranchFlows() {
		fmt.Fprintf(w, "%-8d %-6d %-10s %-6d %-10s %11.4f %11.4f %11.4f %11.4f %11.4f %11.4f %11.4f\n",
			fl.Branch+1, fl.From+1, r.Net.Buses[fl.From].Type, fl.To+1, r.Net.Buses[fl.To].Type,
			r.Res.Vm[fl.From], r.Res.Vm[fl.To], fl.Pij, fl.Qij, fl.Pji, fl.Qji, fl.Loss)
		total += fl.Loss
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-20s %11.4f MW\n", "TOTAL LOSSES:", total)
	fmt.Fprintln(w, rule)
}

// phasors rebuilds the complex bus voltages from the solved polar state.
func (r *Report) phasors() []complex128 {
	v := make([]complex128, len(r.Res.Vm))
	for k := range v {
		v[k] = cmplx.Rect(r.Res.Vm[k], r.Res.Va[k])
	}
	return v
}

// anglesDeg converts the solved angles to degrees for display.
func (r *Report) anglesDeg() []float64 {
	deg := make([]float64, len(r.Res.Va))
	for k, a := range r.Res.Va {
		deg[k] = a * 180 / math.Pi
	}
	return deg
}
