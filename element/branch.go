package element

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Branch is a pi-equivalent transmission line or transformer between buses
// I and J. The series impedance is R + jX, the total charging susceptance B
// is split equally at both ends, and the complex tap
// t = Tap * exp(j*ShiftDeg) sits on the I side.
type Branch struct {
	I, J     int
	R, X     float64 // series impedance (p.u.)
	B        float64 // total line charging susceptance (p.u.)
	Tap      float64 // transformer ratio magnitude, I side
	ShiftDeg float64 // transformer phase shift (deg), I side
}

// NewBranch returns a branch with unity tap and no phase shift.
func NewBranch(i, j int, r, x, b float64) *Branch {
	return &Branch{I: i, J: j, R: r, X: x, B: b, Tap: 1.0}
}

// Validate reports the first violated branch invariant.
func (br *Branch) Validate() error {
	if br.I < 0 || br.J < 0 {
		return fmt.Errorf("%w: branch %d-%d", ErrBusIndex, br.I, br.J)
	}
	if br.I == br.J {
		return fmt.Errorf("%w: branch %d-%d", ErrSelfLoop, br.I, br.J)
	}
	if br.R < 0 || br.X < 0 {
		return fmt.Errorf("%w: branch %d-%d r=%g x=%g", ErrImpedance, br.I, br.J, br.R, br.X)
	}
	if br.B < 0 {
		return fmt.Errorf("%w: branch %d-%d b=%g", ErrCharging, br.I, br.J, br.B)
	}
	if br.Tap < 0 {
		return fmt.Errorf("%w: branch %d-%d tap=%g", ErrTap, br.I, br.J, br.Tap)
	}
	if br.ShiftDeg < 0 || br.ShiftDeg > 360 {
		return fmt.Errorf("%w: branch %d-%d shift=%g", ErrPhaseShift, br.I, br.J, br.ShiftDeg)
	}
	return nil
}

// SeriesAdmittance is y = 1/(R + jX).
func (br *Branch) SeriesAdmittance() complex128 {
	return 1 / complex(br.R, br.X)
}

// ChargingAdmittance is the per-end shunt admittance jB/2.
func (br *Branch) ChargingAdmittance() complex128 {
	return complex(0, br.B/2)
}

// TapPhasor is the complex tap t = Tap * exp(j*ShiftDeg*pi/180).
func (br *Branch) TapPhasor() complex128 {
	return cmplx.Rect(br.Tap, br.ShiftDeg*math.Pi/180)
}
