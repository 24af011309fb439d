// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

package visualizer

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/0xsoniclabs/statfeed/stochastic/recorder"
	"github.com/cockroachdb/errors"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTML references for the rendered pages.
const countsRef = "counts"
const weightsRef = "weights"
const cumulativeRef = "cumulative"
const frequencyRef = "frequency"
const transitionsRef = "transitions"
const historyRef = "history"
const metricsRef = "metrics"

// MainHtml is the index page.
const MainHtml = `
<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>Statfeed: Adaptive Sampler</title>
  </head>
  <body>
    <h1>Statfeed: Adaptive Sampler</h1>
    <ul>
    <li> <h3> <a href="/` + countsRef + `"> Counts </a> </h3> </li>
    <li> <h3> <a href="/` + weightsRef + `"> Weights </a> </h3> </li>
    <li> <h3> <a href="/` + cumulativeRef + `"> Cumulative Weights </a> </h3> </li>
    <li> <h3> <a href="/` + frequencyRef + `"> Selection Frequency </a> </h3> </li>
    <li> <h3> <a href="/` + transitionsRef + `"> Transitions </a> </h3> </li>
    <li> <h3> <a href="/` + historyRef + `"> Selection History </a> </h3> </li>
    <li> <h3> <a href="/` + metricsRef + `"> Metrics </a> </h3> </li>
    </ul>
</body>
</html>
`

// renderMain renders the main menu.
func renderMain(w http.ResponseWriter, r *http.Request) {
	_, _ = fmt.Fprint(w, MainHtml)
}

// globalOptions are the options shared by all charts.
func globalOptions(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeChalk,
			PageTitle: title,
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Save",
				},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show: true,
				},
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
	}
}

// indexLabels produces the x-axis labels 0, ..., n-1.
func indexLabels(n int) []string {
	items := make([]string, n)
	for i := range items {
		items[i] = strconv.Itoa(i)
	}
	return items
}

// convertBarData produces a bar series.
func convertBarData(data []float64) []opts.BarData {
	items := make([]opts.BarData, 0, len(data))
	for _, v := range data {
		items = append(items, opts.BarData{Value: v})
	}
	return items
}

// convertLineData produces a line series.
func convertLineData(data []float64) []opts.LineData {
	items := make([]opts.LineData, 0, len(data))
	for _, v := range data {
		items = append(items, opts.LineData{Value: v})
	}
	return items
}

// newCountsChart creates a bar chart of the counts.
func newCountsChart(v *View) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions("Counts", fmt.Sprintf("%d active items", v.Snapshot.Count))...)
	bar.SetXAxis(indexLabels(v.Snapshot.Count)).AddSeries("Count", convertBarData(v.Snapshot.Counts))
	return bar
}

// newWeightsChart creates a bar chart of the weights and the resulting
// selection probabilities.
func newWeightsChart(v *View) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions("Weights", fmt.Sprintf("exponent %g", v.Snapshot.Exponent))...)
	bar.SetXAxis(indexLabels(v.Snapshot.Count)).
		AddSeries("Weight", convertBarData(v.Snapshot.Weights)).
		AddSeries("Probability", convertBarData(v.pmf))
	return bar
}

// newCumulativeChart creates a line chart of the cumulative weights.
func newCumulativeChart(v *View) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOptions("Cumulative Weights", "")...)
	line.SetXAxis(indexLabels(v.Snapshot.Count)).AddSeries("Cumulative", convertLineData(v.Snapshot.Cumulative))
	return line
}

// newFrequencyChart creates a bar chart comparing the observed selections
// with the long-run distribution of the observed transitions.
func newFrequencyChart(v *View) *charts.Bar {
	subtitle := fmt.Sprintf("%d selections; max gap %d; mean gap %.2f", v.Stats.Steps, v.Stats.MaxGap, v.Stats.MeanGap)
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions("Selection Frequency", subtitle)...)
	bar.SetXAxis(v.Stats.Labels).
		AddSeries("Observed", convertBarData(v.observed)).
		AddSeries("Stationary", convertBarData(v.stationary))
	return bar
}

// convertHistoryData produces a scatter series of (step, selected index).
func convertHistoryData(rows []recorder.Row) []opts.ScatterData {
	items := make([]opts.ScatterData, 0, len(rows))
	for _, row := range rows {
		items = append(items, opts.ScatterData{Value: [2]float64{float64(row.Step), float64(row.Selected)}, SymbolSize: 4})
	}
	return items
}

// newHistoryChart creates a scatter chart of the selected index per step.
func newHistoryChart(v *View) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(globalOptions("Selection History", fmt.Sprintf("%d recorded selections", len(v.History)))...)
	scatter.AddSeries("Selected", convertHistoryData(v.History))
	return scatter
}

// renderCounts renders the counts.
func renderCounts(w http.ResponseWriter, r *http.Request) {
	v, err := getView()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_ = newCountsChart(v).Render(w)
}

// renderWeights renders the weights.
func renderWeights(w http.ResponseWriter, r *http.Request) {
	v, err := getView()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_ = newWeightsChart(v).Render(w)
}

// renderCumulative renders the cumulative weights.
func renderCumulative(w http.ResponseWriter, r *http.Request) {
	v, err := getView()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_ = newCumulativeChart(v).Render(w)
}

// renderFrequency renders the observed selection frequency.
func renderFrequency(w http.ResponseWriter, r *http.Request) {
	v, err := getStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_ = newFrequencyChart(v).Render(w)
}

// renderHistory renders the recorded selections.
func renderHistory(w http.ResponseWriter, r *http.Request) {
	v, err := getHistory()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_ = newHistoryChart(v).Render(w)
}

// edgeColor maps a transition probability to an edge color.
func edgeColor(p float64) string {
	switch int(4 * p) {
	case 0:
		return "gray"
	case 1:
		return "green"
	case 2:
		return "black"
	case 3:
		return "indianred"
	default:
		return "red"
	}
}

// printMarkovInDotty renders a markov chain in dotty format
func printMarkovInDotty(title string, stochasticMatrix [][]float64, label []string) (out string, err error) {
	g := graphviz.New()
	graph, err := g.Graph()
	if err != nil {
		return "", errors.Wrap(err, "renderMarkovChain: failed to create graph")
	}
	defer func() {
		err = errors.Join(err, graph.Close(), g.Close())
	}()
	n := len(label)
	if n != len(stochasticMatrix) {
		return "", errors.Newf("renderMarkovChain: stochastic matrix has %d rows, expected %d", len(stochasticMatrix), n)
	}
	nodes := make([]*cgraph.Node, n)
	for i := range n {
		var err error
		nodes[i], err = graph.CreateNode(label[i])
		if err != nil {
			return "", errors.Wrapf(err, "renderMarkovChain: failed to create node for label (%v, %v)", i, label[i])
		}
		nodes[i].SetLabel(label[i])
	}
	for i := range n {
		if len(stochasticMatrix[i]) != n {
			return "", errors.Newf("renderMarkovChain: stochastic matrix row %d has length %d, expected %d", i, len(stochasticMatrix[i]), n)
		}
		for j := range n {
			p := stochasticMatrix[i][j]
			if p <= 0.0 {
				continue
			}
			e, err := graph.CreateEdge("", nodes[i], nodes[j])
			if err != nil {
				return "", errors.Wrapf(err, "renderMarkovChain: failed to create edge %v -> %v", label[i], label[j])
			}
			e.SetLabel(fmt.Sprintf("%.2f", p))
			e.SetColor(edgeColor(p))
		}
	}
	txt, err := renderDotGraph(title, g, graph)
	if err != nil {
		return "", errors.Wrap(err, "renderMarkovChain: failed to render")
	}
	return txt, nil
}

// renderTransitions renders the chain of observed transitions.
func renderTransitions(w http.ResponseWriter, r *http.Request) {
	v, err := getStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	txt, err := printMarkovInDotty("Observed Transitions", v.Stats.StochasticMatrix, v.Stats.Labels)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = fmt.Fprint(w, txt)
}

// newServeMux registers all pages. Metrics are served from reg if it is
// not nil.
func newServeMux(reg prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", renderMain)
	mux.HandleFunc("/"+countsRef, renderCounts)
	mux.HandleFunc("/"+weightsRef, renderWeights)
	mux.HandleFunc("/"+cumulativeRef, renderCumulative)
	mux.HandleFunc("/"+frequencyRef, renderFrequency)
	mux.HandleFunc("/"+transitionsRef, renderTransitions)
	mux.HandleFunc("/"+historyRef, renderHistory)
	if reg != nil {
		mux.Handle("/"+metricsRef, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	return mux
}

// FireUpWeb publishes the view and serves it with a local web-server on
// the given port.
func FireUpWeb(view *View, addr string, reg prometheus.Gatherer) error {
	if err := setView(view); err != nil {
		return err
	}
	return http.ListenAndServe(":"+addr, newServeMux(reg))
}
