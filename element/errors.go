package element

import "errors"

// Validation errors for the network element records.
var (
	ErrBusIndex   = errors.New("element: bus index must be non-negative")
	ErrBusType    = errors.New("element: unknown bus type")
	ErrSelfLoop   = errors.New("element: branch endpoints must differ")
	ErrImpedance  = errors.New("element: series impedance must be non-negative")
	ErrCharging   = errors.New("element: charging susceptance must be non-negative")
	ErrTap        = errors.New("element: tap ratio must be non-negative")
	ErrPhaseShift = errors.New("element: phase shift must lie in [0, 360] degrees")
)
