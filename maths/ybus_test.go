package maths

import (
	"math/cmplx"
	"testing"

	"powerflow/element"
	"powerflow/network"
)

func mustNetwork(t testing.TB, buses []*element.Bus, branches []*element.Branch, shunts []*element.Shunt) *network.Network {
	t.Helper()
	net, err := network.New(buses, branches, shunts, 0)
	if err != nil {
		t.Fatalf("network.New: %v", err)
	}
	return net
}

// TestYbusPiModel: with unity tap and zero shift the branch stamps collapse
// to the plain pi-model.
func TestYbusPiModel(t *testing.T) {
	br := element.NewBranch(0, 1, 0.01, 0.05, 0.02)
	net := mustNetwork(t,
		[]*element.Bus{element.NewBus(0, element.Slack), element.NewBus(1, element.PQ)},
		[]*element.Branch{br}, nil)

	yb := BuildYbus(net)

	y := br.SeriesAdmittance()
	ysh := br.ChargingAdmittance()
	checks := []struct {
		i, j int
		want complex128
	}{
		{0, 0, y + ysh},
		{1, 1, y + ysh},
		{0, 1, -y},
		{1, 0, -y},
	}
	for _, c := range checks {
		if got := yb.At(c.i, c.j); cmplx.Abs(got-c.want) > 1e-15 {
			t.Errorf("Y[%d,%d] = %v, want %v", c.i, c.j, got, c.want)
		}
	}
}

// TestYbusTap: a tap ratio scales the self admittance by 1/tap^2 and the
// mutual admittances by 1/tap.
func TestYbusTap(t *testing.T) {
	br := element.NewBranch(0, 1, 0.01, 0.05, 0)
	br.Tap = 2.0
	net := mustNetwork(t,
		[]*element.Bus{element.NewBus(0, element.Slack), element.NewBus(1, element.PQ)},
		[]*element.Branch{br}, nil)

	yb := BuildYbus(net)
	y := br.SeriesAdmittance()

	if got, want := yb.At(0, 0), y/4; cmplx.Abs(got-want) > 1e-15 {
		t.Errorf("Y[0,0] = %v, want %v", got, want)
	}
	if got, want := yb.At(1, 1), y; cmplx.Abs(got-want) > 1e-15 {
		t.Errorf("Y[1,1] = %v, want %v", got, want)
	}
	if got, want := yb.At(0, 1), -y/2; cmplx.Abs(got-want) > 1e-15 {
		t.Errorf("Y[0,1] = %v, want %v", got, want)
	}
	if got, want := yb.At(1, 0), -y/2; cmplx.Abs(got-want) > 1e-15 {
		t.Errorf("Y[1,0] = %v, want %v", got, want)
	}
}

// TestYbusPhaseShift: a phase-shifting branch breaks reciprocity, the two
// mutual admittances differ.
func TestYbusPhaseShift(t *testing.T) {
	br := element.NewBranch(0, 1, 0.01, 0.05, 0)
	br.ShiftDeg = 30
	net := mustNetwork(t,
		[]*element.Bus{element.NewBus(0, element.Slack), element.NewBus(1, element.PQ)},
		[]*element.Branch{br}, nil)

	yb := BuildYbus(net)
	if yb.At(0, 1) == yb.At(1, 0) {
		t.Error("phase-shifting branch produced a symmetric Ybus")
	}
}

// TestYbusSymmetry: a network of unity-tap, non-shifting branches and
// shunts is reciprocal.
func TestYbusSymmetry(t *testing.T) {
	buses := []*element.Bus{
		element.NewBus(0, element.Slack),
		element.NewBus(1, element.PV),
		element.NewBus(2, element.PQ),
		element.NewBus(3, element.PQ),
	}
	branches := []*element.Branch{
		element.NewBranch(0, 1, 0.01, 0.06, 0.03),
		element.NewBranch(1, 2, 0.02, 0.10, 0.02),
		element.NewBranch(0, 2, 0.03, 0.12, 0.04),
		element.NewBranch(2, 3, 0.01, 0.08, 0.01),
	}
	shunts := []*element.Shunt{
		element.NewShunt(2, 0, 0.05),
		element.NewShunt(3, 0.01, -0.02),
	}
	net := mustNetwork(t, buses, branches, shunts)

	yb := BuildYbus(net)
	n := net.NumBuses()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if yb.At(i, j) != yb.At(j, i) {
				t.Errorf("Y[%d,%d] = %v but Y[%d,%d] = %v", i, j, yb.At(i, j), j, i, yb.At(j, i))
			}
		}
	}
}

// TestYbusShunt: a shunt lands on its own diagonal only.
func TestYbusShunt(t *testing.T) {
	net := mustNetwork(t,
		[]*element.Bus{element.NewBus(0, element.Slack), element.NewBus(1, element.PQ)},
		[]*element.Branch{element.NewBranch(0, 1, 0, 0.1, 0)},
		[]*element.Shunt{element.NewShunt(1, 0.02, 0.08)})

	with := BuildYbus(net)

	bare := mustNetwork(t,
		[]*element.Bus{element.NewBus(0, element.Slack), element.NewBus(1, element.PQ)},
		[]*element.Branch{element.NewBranch(0, 1, 0, 0.1, 0)}, nil)
	without := BuildYbus(bare)

	if got, want := with.At(1, 1)-without.At(1, 1), complex(0.02, 0.08); cmplx.Abs(got-want) > 1e-15 {
		t.Errorf("shunt contribution = %v, want %v", got, want)
	}
	if with.At(0, 0) != without.At(0, 0) || with.At(0, 1) != without.At(0, 1) {
		t.Error("shunt leaked off its diagonal")
	}
}

// TestYbusIdempotent: building twice from one network yields bit-identical
// matrices.
func TestYbusIdempotent(t *testing.T) {
	buses := []*element.Bus{
		element.NewBus(0, element.Slack),
		element.NewBus(1, element.PV),
		element.NewBus(2, element.PQ),
	}
	br := element.NewBranch(0, 1, 0.013, 0.071, 0.024)
	br.Tap = 1.05
	br.ShiftDeg = 2.5
	branches := []*element.Branch{
		br,
		element.NewBranch(1, 2, 0.02, 0.1, 0.02),
		element.NewBranch(0, 2, 0.03, 0.12, 0.04),
	}
	net := mustNetwork(t, buses, branches, []*element.Shunt{element.NewShunt(2, 0, 0.07)})

	a := BuildYbus(net)
	b := BuildYbus(net)
	n := net.NumBuses()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if a.At(i, j) != b.At(i, j) {
				t.Fatalf("Y[%d,%d] differs between builds: %v vs %v", i, j, a.At(i, j), b.At(i, j))
			}
		}
	}
}

// BenchmarkBuildYbus measures assembly on a 50-bus chain.
func BenchmarkBuildYbus(b *testing.B) {
	const n = 50
	buses := make([]*element.Bus, n)
	buses[0] = element.NewBus(0, element.Slack)
	for k := 1; k < n; k++ {
		buses[k] = element.NewBus(k, element.PQ)
	}
	branches := make([]*element.Branch, n-1)
	for k := 0; k < n-1; k++ {
		branches[k] = element.NewBranch(k, k+1, 0.01, 0.05, 0.02)
	}
	net := mustNetwork(b, buses, branches, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BuildYbus(net)
	}
}
