package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// RenderHTML writes a self-contained HTML page with the voltage and angle
// profiles and the generation share to w.
func (r *Report) RenderHTML(w io.Writer) error {
	barV := charts.NewBar()
	barV.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Voltage Profile",
			Subtitle: "Solved bus voltage magnitudes",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  "|V| (p.u.)",
			Scale: opts.Bool(true),
		}),
	)
	barV.SetXAxis(r.busLabels()).AddSeries("|V|", barData(r.Res.Vm))

	barA := charts.NewBar()
	barA.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Voltage Angles",
			Subtitle: "Solved bus voltage angles",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  "Angle (deg)",
			Scale: opts.Bool(true),
		}),
	)
	barA.SetXAxis(r.busLabels()).AddSeries("angle", barData(r.anglesDeg()))

	page := components.NewPage()
	page.AddCharts(barV, barA)

	if shares := r.GenerationShares(); len(shares) > 0 {
		pie := charts.NewPie()
		pie.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{
				Title: "Generator Real Power Share",
			}),
		)
		items := make([]opts.PieData, len(shares))
		for i, s := range shares {
			items[i] = opts.PieData{Name: fmt.Sprintf("Bus %d", s.Bus+1), Value: s.MW}
		}
		pie.AddSeries("generation", items)
		page.AddCharts(pie)
	}

	return page.Render(w)
}

func barData(values []float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}
	return data
}
