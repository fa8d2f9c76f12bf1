package load

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powerflow/element"
	"powerflow/network"
)

// TestJSONFile loads the bundled JSON case and checks it end to end.
func TestJSONFile(t *testing.T) {
	net, err := JSON(filepath.Join("testdata", "case3.json"))
	require.NoError(t, err)
	checkCase3(t, net)
}

// TestYAMLFile loads the same case in YAML form.
func TestYAMLFile(t *testing.T) {
	net, err := YAML(filepath.Join("testdata", "case3.yaml"))
	require.NoError(t, err)
	checkCase3(t, net)
}

// checkCase3 verifies the fields shared by the JSON and YAML fixtures.
func checkCase3(t *testing.T, net *network.Network) {
	t.Helper()

	require.Equal(t, 3, net.NumBuses())
	assert.Equal(t, 100.0, net.BaseMVA)

	slack, err := net.SlackIndex()
	require.NoError(t, err)
	assert.Equal(t, 0, slack)

	gen := net.Buses[1]
	assert.Equal(t, element.PV, gen.Type)
	assert.Equal(t, 1.02, gen.V)
	assert.Equal(t, 0.3, gen.P)
	require.NotNil(t, gen.Qmin)
	require.NotNil(t, gen.Qmax)
	assert.Equal(t, -0.2, *gen.Qmin)
	assert.Equal(t, 0.3, *gen.Qmax)

	ld := net.Buses[2]
	assert.Equal(t, element.PQ, ld.Type)
	assert.Equal(t, -0.4, ld.P)
	assert.Equal(t, -0.2, ld.Q)
	assert.Nil(t, ld.Qmin)

	require.Len(t, net.Branches, 3)
	assert.Equal(t, 1.0, net.Branches[0].Tap) // default when absent
	assert.Equal(t, 0.0, net.Branches[0].ShiftDeg)
	assert.Equal(t, 1.05, net.Branches[2].Tap)
	assert.Equal(t, 2.0, net.Branches[2].ShiftDeg)

	require.Len(t, net.Shunts, 1)
	assert.Equal(t, 2, net.Shunts[0].K)
	assert.Equal(t, 0.05, net.Shunts[0].B)
}

// TestDecodeJSONDefaults: a minimal record gets flat-start voltage, PQ type
// for unknown strings and unity tap.
func TestDecodeJSONDefaults(t *testing.T) {
	src := `{
		"buses": [
			{"id": 0, "type": "slack"},
			{"id": 1, "type": "mystery", "P": -0.1}
		],
		"branches": [{"i": 0, "j": 1, "r": 0.0, "x": 0.1, "b": 0.0}]
	}`
	net, err := DecodeJSON(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, network.DefaultBaseMVA, net.BaseMVA)
	assert.Equal(t, 1.0, net.Buses[0].V)
	assert.Equal(t, element.PQ, net.Buses[1].Type)
	assert.Equal(t, 1.0, net.Branches[0].Tap)
}

// TestDecodeJSONInvalid: malformed documents and invalid topology both
// surface errors.
func TestDecodeJSONInvalid(t *testing.T) {
	_, err := DecodeJSON(strings.NewReader("{not json"))
	assert.Error(t, err)

	// self loop caught by network construction
	_, err = DecodeJSON(strings.NewReader(`{
		"buses": [{"id": 0, "type": "slack"}],
		"branches": [{"i": 0, "j": 0, "r": 0.0, "x": 0.1, "b": 0.0}]
	}`))
	assert.ErrorIs(t, err, element.ErrSelfLoop)
}

// TestMATPOWERFile parses the bundled function-form case: 1-based indices
// shift down, demand flips sign, the gen table merges into its buses and
// bus-table Gs/Bs become shunts, everything divided onto the system base.
func TestMATPOWERFile(t *testing.T) {
	net, err := MATPOWER(filepath.Join("testdata", "case3.m"))
	require.NoError(t, err)

	require.Equal(t, 3, net.NumBuses())
	assert.Equal(t, 100.0, net.BaseMVA)

	slack, err := net.SlackIndex()
	require.NoError(t, err)
	assert.Equal(t, 0, slack)
	assert.Equal(t, 1.0, net.Buses[0].V) // Vg from the gen table

	gen := net.Buses[1]
	assert.Equal(t, element.PV, gen.Type)
	assert.Equal(t, 1.02, gen.V)
	assert.InDelta(t, 0.2, gen.P, 1e-12) // -20/100 + 40/100
	assert.InDelta(t, -0.1, gen.Q, 1e-12)
	require.NotNil(t, gen.Qmax)
	assert.InDelta(t, 0.3, *gen.Qmax, 1e-12)
	require.NotNil(t, gen.Qmin)
	assert.InDelta(t, -0.2, *gen.Qmin, 1e-12)

	ld := net.Buses[2]
	assert.Equal(t, element.PQ, ld.Type)
	assert.InDelta(t, -0.45, ld.P, 1e-12)
	assert.InDelta(t, -0.15, ld.Q, 1e-12)

	require.Len(t, net.Branches, 3)
	assert.Equal(t, 0, net.Branches[0].I)
	assert.Equal(t, 1, net.Branches[0].J)
	assert.Equal(t, 1.0, net.Branches[0].Tap) // zero ratio means no transformer
	assert.Equal(t, 1.05, net.Branches[2].Tap)
	assert.Equal(t, 2.0, net.Branches[2].ShiftDeg)

	require.Len(t, net.Shunts, 1)
	assert.Equal(t, 2, net.Shunts[0].K)
	assert.InDelta(t, 0.05, net.Shunts[0].B, 1e-12) // Bs=5 on base 100
}

// TestMATPOWERScriptForm: the same matrices without the function wrapper.
func TestMATPOWERScriptForm(t *testing.T) {
	src := `
mpc.baseMVA = 100;
mpc.bus = [
	1	3	0	0	0	0	1	1.0	0;
	2	1	30	10	0	0	1	1.0	0;
];
mpc.branch = [
	1	2	0.01	0.1	0.02;
];
`
	net, err := ParseMATPOWER(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 2, net.NumBuses())
	assert.InDelta(t, -0.3, net.Buses[1].P, 1e-12)
	assert.Empty(t, net.Shunts)
}

// TestMATPOWERMalformed: missing matrices and non-numeric rows are parse
// errors.
func TestMATPOWERMalformed(t *testing.T) {
	_, err := ParseMATPOWER(strings.NewReader("mpc.baseMVA = 100;"))
	assert.ErrorIs(t, err, ErrMATPOWER)

	_, err = ParseMATPOWER(strings.NewReader(`
mpc.bus = [
	1	3	oops	0	0	0	1	1.0	0;
];
mpc.branch = [];
`))
	assert.ErrorIs(t, err, ErrMATPOWER)
}
