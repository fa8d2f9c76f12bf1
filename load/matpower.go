package load

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"powerflow/element"
	"powerflow/network"
)

// ErrMATPOWER reports a malformed MATPOWER case file.
var ErrMATPOWER = errors.New("load: malformed matpower case")

// MATPOWER loads a network from a MATPOWER .m case file, in either script
// form (mpc.bus = [...]) or function form (function mpc = caseXX ... end).
// Only the numeric subset used by case files is understood: the baseMVA
// scalar and the bus/gen/branch matrices.
func MATPOWER(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseMATPOWER(f)
}

// ParseMATPOWER reads a MATPOWER case from r.
func ParseMATPOWER(r io.Reader) (*network.Network, error) {
	c, err := scanCase(r)
	if err != nil {
		return nil, err
	}

	baseMVA := c.baseMVA
	if baseMVA == 0 {
		baseMVA = network.DefaultBaseMVA
	}

	busRows, ok := c.matrices["bus"]
	if !ok {
		return nil, fmt.Errorf("%w: missing mpc.bus", ErrMATPOWER)
	}
	branchRows, ok := c.matrices["branch"]
	if !ok {
		return nil, fmt.Errorf("%w: missing mpc.branch", ErrMATPOWER)
	}
	genRows := c.matrices["gen"]

	buses := make([]*element.Bus, 0, len(busRows))
	byIndex := make(map[int]*element.Bus, len(busRows))
	var shunts []*element.Shunt
	for _, row := range busRows {
		if len(row) < 9 {
			return nil, fmt.Errorf("%w: bus row has %d columns", ErrMATPOWER, len(row))
		}
		idx := int(row[0]) - 1
		var typ element.BusType
		switch int(row[1]) {
		case 3:
			typ = element.Slack
		case 2:
			typ = element.PV
		default:
			typ = element.PQ
		}
		b := element.NewBus(idx, typ)
		b.V = row[7]
		b.ThetaDeg = row[8]
		// bus table carries demand; injections are negative loads
		b.P = -row[2] / baseMVA
		b.Q = -row[3] / baseMVA
		buses = append(buses, b)
		byIndex[idx] = b

		if gs, bs := row[4], row[5]; gs != 0 || bs != 0 {
			shunts = append(shunts, element.NewShunt(idx, gs/baseMVA, bs/baseMVA))
		}
	}

	// merge the generator table into its buses
	for _, row := range genRows {
		if len(row) < 6 {
			return nil, fmt.Errorf("%w: gen row has %d columns", ErrMATPOWER, len(row))
		}
		idx := int(row[0]) - 1
		b, ok := byIndex[idx]
		if !ok {
			return nil, fmt.Errorf("%w: gen references unknown bus %d", ErrMATPOWER, idx+1)
		}
		b.P += row[1] / baseMVA
		b.Q += row[2] / baseMVA
		b.Qmax = element.Float(row[3] / baseMVA)
		b.Qmin = element.Float(row[4] / baseMVA)
		if b.Type == element.Slack || b.Type == element.PV {
			b.V = row[5]
		}
	}

	branches := make([]*element.Branch, 0, len(branchRows))
	for _, row := range branchRows {
		if len(row) < 5 {
			return nil, fmt.Errorf("%w: branch row has %d columns", ErrMATPOWER, len(row))
		}
		br := element.NewBranch(int(row[0])-1, int(row[1])-1, row[2], row[3], row[4])
		if len(row) > 8 && row[8] != 0 {
			br.Tap = row[8]
		}
		if len(row) > 9 {
			br.ShiftDeg = row[9]
		}
		branches = append(branches, br)
	}

	return network.New(buses, branches, shunts, baseMVA)
}

// mpcCase is the raw numeric content of a case file.
type mpcCase struct {
	baseMVA  float64
	matrices map[string][][]float64
}

// scanCase walks the file line by line. A function-form file is cut down to
// the body between the function header and the closing end before any
// assignment is read.
func scanCase(r io.Reader) (*mpcCase, error) {
	c := &mpcCase{matrices: make(map[string][][]float64)}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inFunction := false
	matrix := "" // name of the matrix being collected, "" outside
	first := true
	for sc.Scan() {
		line := stripComment(sc.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			if strings.HasPrefix(line, "function") && strings.Contains(line, "mpc") {
				inFunction = true
				continue
			}
		}
		if inFunction && line == "end" {
			break
		}

		if matrix != "" {
			done, err := c.collectRows(matrix, line)
			if err != nil {
				return nil, err
			}
			if done {
				matrix = ""
			}
			continue
		}

		name, rhs, ok := splitAssignment(line)
		if !ok {
			continue
		}
		switch {
		case name == "baseMVA":
			v, err := strconv.ParseFloat(strings.TrimSuffix(rhs, ";"), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: baseMVA %q", ErrMATPOWER, rhs)
			}
			c.baseMVA = v
		case strings.HasPrefix(rhs, "["):
			c.matrices[name] = nil
			done, err := c.collectRows(name, strings.TrimPrefix(rhs, "["))
			if err != nil {
				return nil, err
			}
			if !done {
				matrix = name
			}
		default:
			// version strings and other non-numeric fields are ignored
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// collectRows appends the matrix rows found on one line and reports whether
// the closing bracket was reached.
func (c *mpcCase) collectRows(name, line string) (bool, error) {
	done := false
	if i := strings.Index(line, "]"); i >= 0 {
		line = line[:i]
		done = true
	}
	for _, rowText := range strings.Split(line, ";") {
		fields := strings.Fields(rowText)
		if len(fields) == 0 {
			continue
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return false, fmt.Errorf("%w: %s row value %q", ErrMATPOWER, name, f)
			}
			row[i] = v
		}
		c.matrices[name] = append(c.matrices[name], row)
	}
	return done, nil
}

func stripComment(line string) string {
	if i := strings.Index(line, "%"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// splitAssignment recognizes "mpc.<name> = <rhs>" lines.
func splitAssignment(line string) (name, rhs string, ok bool) {
	if !strings.HasPrefix(line, "mpc.") {
		return "", "", false
	}
	eq := strings.Index(line, "=")
	if eq < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(strings.TrimPrefix(line[:eq], "mpc."))
	rhs = strings.TrimSpace(line[eq+1:])
	return name, rhs, name != ""
}
