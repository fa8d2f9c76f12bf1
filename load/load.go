// Package load reads network descriptions from disk: the standardized
// JSON/YAML case schema and MATPOWER .m case files. Loaders only populate
// the data model; all validation happens in network.New.
package load

import (
	"powerflow/element"
	"powerflow/network"
)

// caseFile is the standardized case schema shared by the JSON and YAML
// loaders.
type caseFile struct {
	BaseMVA  float64        `json:"base_mva" yaml:"base_mva"`
	Buses    []busRecord    `json:"buses" yaml:"buses"`
	Branches []branchRecord `json:"branches" yaml:"branches"`
	Shunts   []shuntRecord  `json:"shunts" yaml:"shunts"`
}

type busRecord struct {
	ID       int      `json:"id" yaml:"id"`
	Type     string   `json:"type" yaml:"type"`
	V        *float64 `json:"V" yaml:"v"`
	ThetaDeg float64  `json:"theta_deg" yaml:"theta_deg"`
	P        float64  `json:"P" yaml:"p"`
	Q        float64  `json:"Q" yaml:"q"`
	Qmin     *float64 `json:"Qmin" yaml:"qmin"`
	Qmax     *float64 `json:"Qmax" yaml:"qmax"`
}

type branchRecord struct {
	I        int      `json:"i" yaml:"i"`
	J        int      `json:"j" yaml:"j"`
	R        float64  `json:"r" yaml:"r"`
	X        float64  `json:"x" yaml:"x"`
	B        float64  `json:"b" yaml:"b"`
	Tap      *float64 `json:"tap" yaml:"tap"`
	ShiftDeg float64  `json:"shift_deg" yaml:"shift_deg"`
}

type shuntRecord struct {
	Bus int     `json:"bus" yaml:"bus"`
	G   float64 `json:"g" yaml:"g"`
	B   float64 `json:"b" yaml:"b"`
}

func (cf *caseFile) network() (*network.Network, error) {
	buses := make([]*element.Bus, 0, len(cf.Buses))
	for _, r := range cf.Buses {
		b := element.NewBus(r.ID, element.ParseBusType(r.Type))
		if r.V != nil {
			b.V = *r.V
		}
		b.ThetaDeg = r.ThetaDeg
		b.P = r.P
		b.Q = r.Q
		b.Qmin = r.Qmin
		b.Qmax = r.Qmax
		buses = append(buses, b)
	}

	branches := make([]*element.Branch, 0, len(cf.Branches))
	for _, r := range cf.Branches {
		br := element.NewBranch(r.I, r.J, r.R, r.X, r.B)
		if r.Tap != nil {
			br.Tap = *r.Tap
		}
		br.ShiftDeg = r.ShiftDeg
		branches = append(branches, br)
	}

	shunts := make([]*element.Shunt, 0, len(cf.Shunts))
	for _, r := range cf.Shunts {
		shunts = append(shunts, element.NewShunt(r.Bus, r.G, r.B))
	}

	return network.New(buses, branches, shunts, cf.BaseMVA)
}
