package main

import (
	"log"
	"os"

	"powerflow"
	"powerflow/element"
	"powerflow/network"
	"powerflow/report"
	"powerflow/solver"
)

// A small three-bus demonstration case: slack generator, a PV machine with
// tight reactive limits and a PQ load.
func demoNetwork() (*network.Network, error) {
	slack := element.NewBus(0, element.Slack)
	slack.V = 1.0

	gen := element.NewBus(1, element.PV)
	gen.V = 1.02
	gen.P = 0.4
	gen.Qmin = element.Float(-0.2)
	gen.Qmax = element.Float(0.3)

	fld := element.NewBus(2, element.PQ)
	fld.P = -0.9
	fld.Q = -0.3

	branches := []*element.Branch{
		element.NewBranch(0, 1, 0.01, 0.06, 0.02),
		element.NewBranch(1, 2, 0.02, 0.10, 0.02),
		element.NewBranch(0, 2, 0.03, 0.12, 0.03),
	}
	shunts := []*element.Shunt{element.NewShunt(2, 0, 0.05)}

	return network.New([]*element.Bus{slack, gen, fld}, branches, shunts, 100)
}

func main() {
	net, err := demoNetwork()
	if err != nil {
		log.Fatal(err)
	}

	res, err := powerflow.Solve(net, solver.WithVerbose(os.Stdout))
	if err != nil {
		log.Fatal(err)
	}
	if !res.Converged {
		log.Fatalf("no convergence within %d iterations", res.Iterations)
	}

	rep := report.New(net, res)
	rep.WriteFlowTable(os.Stdout)

	f, err := os.Create("report.html")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := rep.RenderHTML(f); err != nil {
		log.Fatal(err)
	}
	log.Println("wrote report.html")
}
