package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveVoltageProfile writes a bar chart of the voltage magnitudes to path.
// The format follows the file extension (png, pdf, svg, ...).
func (r *Report) SaveVoltageProfile(path string) error {
	return r.saveProfile(path, "Voltage Profile", "|V| (p.u.)", r.Res.Vm)
}

// SaveAngleProfile writes a bar chart of the voltage angles (degrees) to
// path.
func (r *Report) SaveAngleProfile(path string) error {
	return r.saveProfile(path, "Voltage Angles", "Angle (deg)", r.anglesDeg())
}

func (r *Report) saveProfile(path, title, yLabel string, values []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Bus index"
	p.Y.Label.Text = yLabel

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(14))
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(r.busLabels()...)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func (r *Report) busLabels() []string {
	labels := make([]string, len(r.Net.Buses))
	for k := range labels {
		labels[k] = fmt.Sprintf("%d", k)
	}
	return labels
}
