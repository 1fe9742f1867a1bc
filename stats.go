/*
Copyright © 2019 the GR4J authors.
This file is part of GR4J.

GR4J is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GR4J is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GR4J.  If not, see <http://www.gnu.org/licenses/>.
*/

package gr4j

import (
	"fmt"
	"math"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/ctessum/atmos/evalstats"
	"gonum.org/v1/gonum/floats"
)

// Summary holds totals and descriptive statistics for a completed
// simulation. All water quantities are in millimeters.
type Summary struct {
	Timesteps int

	TotalRainfall       float64
	TotalPET            float64
	TotalActualET       float64
	TotalActualExchange float64
	TotalFlow           float64

	MeanFlow, StdDevFlow, MinFlow, MaxFlow float64

	InitialStorage, FinalStorage float64

	// BalanceResidual is the net of the inputs and outputs minus the
	// change in storage. It is zero to within
	// rounding error for a correctly functioning model.
	BalanceResidual float64

	// Fit holds goodness-of-fit statistics when observed streamflow
	// is available.
	Fit *Fit
}

// Summarize returns a summary of the simulation results. It must be
// called after the simulation has been run.
func (s *Simulation) Summarize() (*Summary, error) {
	if s.Model == nil {
		return nil, fmt.Errorf("gr4j: simulation has not been initialized")
	}
	n := len(s.Records)
	rain := make([]float64, n)
	pet := make([]float64, n)
	aet := make([]float64, n)
	exch := make([]float64, n)
	flow := make([]float64, n)
	for i, r := range s.Records {
		rain[i] = r.Rainfall
		pet[i] = r.PET
		aet[i] = r.ActualET
		exch[i] = r.ActualExchange
		flow[i] = r.Flow
	}
	sum := &Summary{
		Timesteps:           n,
		TotalRainfall:       floats.Sum(rain),
		TotalPET:            floats.Sum(pet),
		TotalActualET:       floats.Sum(aet),
		TotalActualExchange: floats.Sum(exch),
		TotalFlow:           floats.Sum(flow),
		InitialStorage:      s.InitialStorage,
		FinalStorage:        s.Model.Storage(),
	}
	if n > 0 {
		sum.MeanFlow = stats.StatsMean(flow)
		sum.MinFlow = stats.StatsMin(flow)
		sum.MaxFlow = stats.StatsMax(flow)
	}
	if n > 1 {
		sum.StdDevFlow = stats.StatsSampleStandardDeviation(flow)
	}
	sum.BalanceResidual = sum.TotalRainfall - sum.TotalActualET + sum.TotalActualExchange -
		sum.TotalFlow - (sum.FinalStorage - sum.InitialStorage)

	if s.Forcing != nil && s.Forcing.Observed != nil && n > 1 {
		fit, err := Evaluate(s.Forcing.Observed[:n], flow)
		if err != nil {
			return nil, err
		}
		sum.Fit = fit
	}
	return sum, nil
}

func (sum *Summary) String() string {
	o := fmt.Sprintf("Timesteps:            %d\n", sum.Timesteps)
	o += fmt.Sprintf("Total rainfall:       %.4g mm\n", sum.TotalRainfall)
	o += fmt.Sprintf("Total PET:            %.4g mm\n", sum.TotalPET)
	o += fmt.Sprintf("Total actual ET:      %.4g mm\n", sum.TotalActualET)
	o += fmt.Sprintf("Total exchange:       %.4g mm\n", sum.TotalActualExchange)
	o += fmt.Sprintf("Total streamflow:     %.4g mm\n", sum.TotalFlow)
	o += fmt.Sprintf("Streamflow mean:      %.4g mm (sd %.4g, min %.4g, max %.4g)\n",
		sum.MeanFlow, sum.StdDevFlow, sum.MinFlow, sum.MaxFlow)
	o += fmt.Sprintf("Storage:              %.4g mm -> %.4g mm\n", sum.InitialStorage, sum.FinalStorage)
	o += fmt.Sprintf("Water balance error:  %.3g mm\n", sum.BalanceResidual)
	if sum.Fit != nil {
		o += sum.Fit.String()
	}
	return o
}

// Fit holds statistics describing how well simulated streamflow matches
// observations.
type Fit struct {
	// NSE is the Nash-Sutcliffe efficiency.
	NSE float64

	// Slope and RSquared describe the linear regression of the
	// simulated values on the observed values.
	Slope, Intercept, RSquared float64

	// MB and ME are the mean bias and mean error, and MFB and MFE are
	// the mean fractional bias and error.
	MB, ME, MFB, MFE float64
}

// Evaluate compares simulated streamflow sim to observed streamflow obs.
func Evaluate(obs, sim []float64) (*Fit, error) {
	if len(obs) != len(sim) {
		return nil, fmt.Errorf("gr4j: observed and simulated series must be the same length; %d != %d",
			len(obs), len(sim))
	}
	if len(obs) < 2 {
		return nil, fmt.Errorf("gr4j: at least two observations are required for evaluation")
	}
	f := new(Fit)
	f.Slope, f.Intercept, f.RSquared, _, _, _ = stats.LinearRegression(obs, sim)

	mean := stats.StatsMean(obs)
	var num, den float64
	for i, o := range obs {
		num += (sim[i] - o) * (sim[i] - o)
		den += (o - mean) * (o - mean)
	}
	if den == 0 {
		f.NSE = math.NaN()
	} else {
		f.NSE = 1 - num/den
	}

	f.MB = evalstats.MB(obs, sim)
	f.ME = evalstats.ME(obs, sim)
	f.MFB = evalstats.MFB(obs, sim) * 100.
	f.MFE = evalstats.MFE(obs, sim) * 100.
	return f, nil
}

func (f *Fit) String() string {
	o := fmt.Sprintf("Nash-Sutcliffe:       %.4g\n", f.NSE)
	o += fmt.Sprintf("Regression:           slope %.4g, intercept %.4g, R² %.4g\n",
		f.Slope, f.Intercept, f.RSquared)
	o += fmt.Sprintf("Mean bias:            %.4g mm (MFB %.3g%%)\n", f.MB, f.MFB)
	o += fmt.Sprintf("Mean error:           %.4g mm (MFE %.3g%%)\n", f.ME, f.MFE)
	return o
}
