package api

import (
	"image/color"
	"net/http"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/suchin-t/tourboard/pkg/analytics"
)

// Server-rendered PNG charts, for clients without a JS plotting stack.

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 5 * vg.Inch
)

var (
	historyColor  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	forecastColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	bandColor     = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0x60}
)

func (h *handler) chartSeries(w http.ResponseWriter, r *http.Request) {
	province := r.PathValue("province")
	view, err := h.svc.Series(r.Context(), province)
	if err != nil {
		writeEndpointError(w, err)
		return
	}

	p := plot.New()
	p.Title.Text = view.Province
	p.Y.Label.Text = "visitors"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}

	line, err := plotter.NewLine(seriesXYs(view.Points))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	line.Color = historyColor
	p.Add(plotter.NewGrid(), line)

	writePNG(w, p)
}

func (h *handler) chartForecast(w http.ResponseWriter, r *http.Request) {
	province := r.PathValue("province")
	horizon, err := parseHorizon(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.svc.Forecast(r.Context(), province, horizon)
	if err != nil {
		writeEndpointError(w, err)
		return
	}

	p := plot.New()
	p.Title.Text = view.Province
	p.Y.Label.Text = "visitors"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Add(plotter.NewGrid())

	history, err := plotter.NewLine(seriesXYs(view.History))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	history.Color = historyColor

	predicted, err := plotter.NewLine(forecastXYs(view.Forecast, func(fp analytics.ForecastPoint) float64 { return fp.Predicted }))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	predicted.Color = forecastColor

	upper, err := plotter.NewLine(forecastXYs(view.Forecast, func(fp analytics.ForecastPoint) float64 { return fp.Upper }))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	lower, err := plotter.NewLine(forecastXYs(view.Forecast, func(fp analytics.ForecastPoint) float64 { return fp.Lower }))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for _, band := range []*plotter.Line{upper, lower} {
		band.Color = bandColor
		band.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	}

	p.Add(history, predicted, upper, lower)
	p.Legend.Add("history", history)
	p.Legend.Add("forecast", predicted)
	p.Legend.Top = true

	writePNG(w, p)
}

func (h *handler) chartImportance(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Importance(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Ranking is importance-descending; take the head so labels stay legible.
	features := view.Features
	if len(features) > 15 {
		features = features[:15]
	}
	// Horizontal bars read bottom-up, so reverse to keep the top factor on top.
	values := make(plotter.Values, len(features))
	names := make([]string, len(features))
	for i, f := range features {
		j := len(features) - 1 - i
		values[j] = f.Importance
		names[j] = f.Feature
	}

	p := plot.New()
	p.Title.Text = "Feature importance"
	p.X.Label.Text = "importance"

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	bars.Color = historyColor
	bars.LineStyle.Width = 0
	bars.Horizontal = true
	p.Add(bars)
	p.NominalY(names...)

	writePNG(w, p)
}

func seriesXYs(points []analytics.SeriesPoint) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, sp := range points {
		xys[i].X = monthUnix(sp.Month)
		xys[i].Y = sp.Visitors
	}
	return xys
}

func forecastXYs(points []analytics.ForecastPoint, value func(analytics.ForecastPoint) float64) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, fp := range points {
		xys[i].X = monthUnix(fp.Month)
		xys[i].Y = value(fp)
	}
	return xys
}

func monthUnix(month string) float64 {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return 0
	}
	return float64(t.Unix())
}

func writePNG(w http.ResponseWriter, p *plot.Plot) {
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	wt.WriteTo(w)
}
