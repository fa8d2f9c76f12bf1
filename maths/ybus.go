// Package maths holds the numeric kernel of the load-flow computation: the
// construction of the bus admittance matrix Ybus, with Y*V = I for the
// linear part of the network.
package maths

import (
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"powerflow/network"
)

// BuildYbus assembles the dense complex admittance matrix of net. Each
// branch stamps its pi-model with the complex tap on the I side; each shunt
// adds G + jB to its diagonal. The result depends only on the input and the
// same network always yields the identical matrix.
func BuildYbus(net *network.Network) *mat.CDense {
	n := net.NumBuses()
	y := mat.NewCDense(n, n, nil)

	for _, br := range net.Branches {
		ys := br.SeriesAdmittance()
		ysh := br.ChargingAdmittance()
		t := br.TapPhasor()
		tt := complex(real(t)*real(t)+imag(t)*imag(t), 0) // |t|^2
		i, j := br.I, br.J

		y.Set(i, i, y.At(i, i)+(ys+ysh)/tt)
		y.Set(j, j, y.At(j, j)+ys+ysh)
		y.Set(i, j, y.At(i, j)-ys/cmplx.Conj(t))
		y.Set(j, i, y.At(j, i)-ys/t)
	}

	for _, sh := range net.Shunts {
		y.Set(sh.K, sh.K, y.At(sh.K, sh.K)+sh.Admittance())
	}

	return y
}
