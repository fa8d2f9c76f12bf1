// Package element defines the value records a transmission network is built
// from: buses, branches and shunts. Records are plain data; they validate
// their own invariants and are treated as read-only once a network is formed.
package element

import (
	"fmt"
	"strings"
)

// BusType selects which bus quantities are specified and which are solved.
type BusType int

const (
	// PQ fixes active and reactive injection; voltage is solved.
	PQ BusType = iota
	// PV fixes voltage magnitude and active injection; reactive power is
	// solved, subject to the bus reactive limits.
	PV
	// Slack fixes voltage magnitude and angle; it absorbs the system
	// power balance.
	Slack
)

func (t BusType) String() string {
	switch t {
	case Slack:
		return "Slack"
	case PV:
		return "PV"
	default:
		return "PQ"
	}
}

// ParseBusType maps a type string case-insensitively. Unrecognized values
// fall back to PQ.
func ParseBusType(s string) BusType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "slack":
		return Slack
	case "pv":
		return PV
	default:
		return PQ
	}
}

// Bus is a network node. Power injections are signed, positive for
// generation, in per unit on the system base. The angle is stored in
// degrees; the solver works in radians internally.
type Bus struct {
	Index    int
	Type     BusType
	V        float64  // voltage magnitude (p.u.)
	ThetaDeg float64  // voltage angle (deg)
	P        float64  // net injected active power (p.u.)
	Q        float64  // net injected reactive power (p.u.)
	Qmin     *float64 // reactive limits, meaningful for PV buses only
	Qmax     *float64
}

// NewBus returns a bus with flat-start voltage 1.0 p.u. at 0 degrees.
func NewBus(index int, typ BusType) *Bus {
	return &Bus{Index: index, Type: typ, V: 1.0}
}

// Validate reports the first violated bus invariant.
func (b *Bus) Validate() error {
	if b.Index < 0 {
		return fmt.Errorf("%w: got %d", ErrBusIndex, b.Index)
	}
	if b.Type != Slack && b.Type != PV && b.Type != PQ {
		return fmt.Errorf("%w: %d", ErrBusType, int(b.Type))
	}
	return nil
}

// Float is a convenience for filling the optional reactive limits.
func Float(v float64) *float64 { return &v }
