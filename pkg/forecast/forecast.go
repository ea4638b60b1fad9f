// Package forecast fits an additive trend + yearly-seasonality model to a
// monthly visitor series and extrapolates it with an uncertainty band. The
// model is linear in its parameters: an intercept, a linear trend and a
// Fourier expansion of the day-of-year, solved by ridge-stabilized least
// squares. Fits are cheap and deterministic, so one is run per request.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Options tune a fit. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	Horizon      int     // future monthly periods to predict
	FourierOrder int     // yearly seasonality harmonics
	BandZ        float64 // band half-width in residual standard deviations
	Ridge        float64 // regularization added to the normal equations
}

// DefaultOptions matches the dashboard defaults: a 12-month horizon and an
// ~80% uncertainty band.
func DefaultOptions() *Options {
	return &Options{
		Horizon:      12,
		FourierOrder: 10,
		BandZ:        1.28,
		Ridge:        1e-4,
	}
}

// Point is one observed month.
type Point struct {
	T     time.Time
	Value float64
}

// Prediction is the model output at one month: the point estimate, its
// band, and the additive components it decomposes into.
type Prediction struct {
	T         time.Time `json:"month"`
	Predicted float64   `json:"predicted"`
	Lower     float64   `json:"lower"`
	Upper     float64   `json:"upper"`
	Trend     float64   `json:"trend"`
	Yearly    float64   `json:"yearly"`
	Observed  bool      `json:"observed"` // falls inside the fitted history
}

// Result is a complete fit: predictions over the history months followed by
// the future horizon.
type Result struct {
	Predictions []Prediction
	Cutoff      time.Time // last observed month
	Sigma       float64   // in-sample residual standard deviation
}

// Future returns only the predictions past the history cutoff.
func (r *Result) Future() []Prediction {
	for i, p := range r.Predictions {
		if !p.Observed {
			return r.Predictions[i:]
		}
	}
	return nil
}

const yearDays = 365.25

// Fit trains the model on history (ordered by time, gaps allowed) and
// predicts every history month plus opts.Horizon future months.
func Fit(history []Point, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	n := len(history)
	if n < 2 {
		return nil, errors.New("forecast: need at least two observations")
	}

	t0 := history[0].T
	span := history[n-1].T.Sub(t0).Hours()
	if span <= 0 {
		return nil, errors.New("forecast: history is not time-ordered")
	}

	p := 2 + 2*opts.FourierOrder
	X := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i, pt := range history {
		X.SetRow(i, featureRow(pt.T, t0, span, opts.FourierOrder))
		y.SetVec(i, pt.Value)
	}

	beta, err := solveRidge(X, y, opts.Ridge)
	if err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}

	// In-sample residual spread drives the uncertainty band.
	residuals := make([]float64, n)
	for i, pt := range history {
		trend, yearly := components(featureRow(pt.T, t0, span, opts.FourierOrder), beta, opts.FourierOrder)
		residuals[i] = pt.Value - (trend + yearly)
	}
	sigma := stat.StdDev(residuals, nil)
	if math.IsNaN(sigma) {
		sigma = 0
	}

	cutoff := history[n-1].T
	months := make([]time.Time, 0, n+opts.Horizon)
	for _, pt := range history {
		months = append(months, pt.T)
	}
	for i := 1; i <= opts.Horizon; i++ {
		months = append(months, cutoff.AddDate(0, i, 0))
	}

	res := &Result{Cutoff: cutoff, Sigma: sigma}
	for _, m := range months {
		trend, yearly := components(featureRow(m, t0, span, opts.FourierOrder), beta, opts.FourierOrder)
		yhat := trend + yearly
		res.Predictions = append(res.Predictions, Prediction{
			T:         m,
			Predicted: yhat,
			Lower:     yhat - opts.BandZ*sigma,
			Upper:     yhat + opts.BandZ*sigma,
			Trend:     trend,
			Yearly:    yearly,
			Observed:  !m.After(cutoff),
		})
	}
	return res, nil
}

// featureRow builds one design-matrix row: intercept, normalized trend time,
// then sin/cos pairs over the yearly period.
func featureRow(t, t0 time.Time, spanHours float64, order int) []float64 {
	row := make([]float64, 2+2*order)
	row[0] = 1
	row[1] = t.Sub(t0).Hours() / spanHours

	days := t.Sub(t0).Hours() / 24
	for k := 1; k <= order; k++ {
		angle := 2 * math.Pi * float64(k) * days / yearDays
		row[2*k] = math.Sin(angle)
		row[2*k+1] = math.Cos(angle)
	}
	return row
}

// components splits the linear prediction into its trend part (intercept +
// slope) and its seasonal part (the Fourier terms).
func components(row []float64, beta *mat.VecDense, order int) (trend, yearly float64) {
	trend = row[0]*beta.AtVec(0) + row[1]*beta.AtVec(1)
	for k := 1; k <= order; k++ {
		yearly += row[2*k]*beta.AtVec(2*k) + row[2*k+1]*beta.AtVec(2*k+1)
	}
	return trend, yearly
}

// solveRidge solves (XᵀX + λI)β = Xᵀy. The ridge term keeps the system
// solvable when the history is shorter than the parameter count.
func solveRidge(X *mat.Dense, y *mat.VecDense, ridge float64) (*mat.VecDense, error) {
	_, p := X.Dims()

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	for i := 0; i < p; i++ {
		xtx.Set(i, i, xtx.At(i, i)+ridge)
	}

	var xty mat.VecDense
	xty.MulVec(X.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		return nil, fmt.Errorf("solve normal equations: %w", err)
	}
	return &beta, nil
}
