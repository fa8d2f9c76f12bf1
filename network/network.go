// Package network aggregates buses, branches and shunts into the immutable
// snapshot the Ybus builder and the load-flow solver operate on.
package network

import (
	"errors"
	"fmt"

	"powerflow/element"
)

// DefaultBaseMVA is the system power base used when none is given.
const DefaultBaseMVA = 100.0

var (
	ErrNoSlackBus       = errors.New("network: no slack bus")
	ErrMultipleSlackBus = errors.New("network: more than one slack bus")
	ErrBusOrder         = errors.New("network: buses must be listed in index order 0..n-1")
	ErrUnknownBus       = errors.New("network: reference to unknown bus")
)

// Network owns the element lists and the system power base. It is read-only
// for the duration of a solve, so one Network may serve repeated or
// concurrent solves.
type Network struct {
	Buses    []*element.Bus
	Branches []*element.Branch
	Shunts   []*element.Shunt
	BaseMVA  float64
}

// New validates every element and their cross-references and returns the
// aggregate. A baseMVA of zero selects DefaultBaseMVA.
func New(buses []*element.Bus, branches []*element.Branch, shunts []*element.Shunt, baseMVA float64) (*Network, error) {
	if baseMVA == 0 {
		baseMVA = DefaultBaseMVA
	}
	n := len(buses)
	for i, b := range buses {
		if err := b.Validate(); err != nil {
			return nil, err
		}
		if b.Index != i {
			return nil, fmt.Errorf("%w: bus %d at position %d", ErrBusOrder, b.Index, i)
		}
	}
	for _, br := range branches {
		if err := br.Validate(); err != nil {
			return nil, err
		}
		if br.I >= n || br.J >= n {
			return nil, fmt.Errorf("%w: branch %d-%d", ErrUnknownBus, br.I, br.J)
		}
	}
	for _, sh := range shunts {
		if err := sh.Validate(); err != nil {
			return nil, err
		}
		if sh.K >= n {
			return nil, fmt.Errorf("%w: shunt at %d", ErrUnknownBus, sh.K)
		}
	}
	return &Network{Buses: buses, Branches: branches, Shunts: shunts, BaseMVA: baseMVA}, nil
}

// NumBuses is the bus count.
func (net *Network) NumBuses() int { return len(net.Buses) }

// SlackIndex returns the index of the single slack bus. A network with zero
// or several slack buses is rejected.
func (net *Network) SlackIndex() (int, error) {
	slack := -1
	for _, b := range net.Buses {
		if b.Type != element.Slack {
			continue
		}
		if slack >= 0 {
			return 0, fmt.Errorf("%w: buses %d and %d", ErrMultipleSlackBus, slack, b.Index)
		}
		slack = b.Index
	}
	if slack < 0 {
		return 0, ErrNoSlackBus
	}
	return slack, nil
}

// PVIndices lists the PV bus indices in ascending order.
func (net *Network) PVIndices() []int { return net.indicesOf(element.PV) }

// PQIndices lists the PQ bus indices in ascending order.
func (net *Network) PQIndices() []int { return net.indicesOf(element.PQ) }

func (net *Network) indicesOf(t element.BusType) []int {
	var idx []int
	for _, b := range net.Buses {
		if b.Type == t {
			idx = append(idx, b.Index)
		}
	}
	return idx
}
