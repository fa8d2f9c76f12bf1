package element

import "fmt"

// Shunt is a constant admittance G + jB between bus K and ground. Positive B
// is a capacitor bank, negative B a reactor.
type Shunt struct {
	K    int
	G, B float64 // admittance (p.u.)
}

// NewShunt returns a shunt admittance at bus k.
func NewShunt(k int, g, b float64) *Shunt {
	return &Shunt{K: k, G: g, B: b}
}

// Validate reports the first violated shunt invariant.
func (sh *Shunt) Validate() error {
	if sh.K < 0 {
		return fmt.Errorf("%w: shunt at %d", ErrBusIndex, sh.K)
	}
	return nil
}

// Admittance is G + jB.
func (sh *Shunt) Admittance() complex128 {
	return complex(sh.G, sh.B)
}
