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
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// hydrograph creates a plot of simulated streamflow and, if available,
// observed streamflow against the timestep number.
func (s *Simulation) hydrograph() (*plot.Plot, error) {
	p, err := plot.New()
	if err != nil {
		return nil, fmt.Errorf("gr4j: creating hydrograph: %v", err)
	}
	p.Title.Text = "Hydrograph"
	p.X.Label.Text = "Timestep (days)"
	if len(s.Records) > 0 && s.Forcing != nil {
		p.X.Label.Text = fmt.Sprintf("Timestep (days from %s)", s.Forcing.Dates[0])
	}
	p.Y.Label.Text = "Streamflow (mm)"

	sim := make(plotter.XYs, len(s.Records))
	for i, r := range s.Records {
		sim[i].X = float64(i)
		sim[i].Y = r.Flow
	}
	lines := []interface{}{"Simulated", sim}
	if s.Forcing != nil && s.Forcing.Observed != nil {
		obs := make(plotter.XYs, len(s.Records))
		for i := range s.Records {
			obs[i].X = float64(i)
			obs[i].Y = s.Forcing.Observed[i]
		}
		lines = append(lines, "Observed", obs)
	}
	if err = plotutil.AddLines(p, lines...); err != nil {
		return nil, fmt.Errorf("gr4j: creating hydrograph: %v", err)
	}
	p.Y.Min = 0.
	return p, nil
}

const (
	plotWidth  = 7 * vg.Inch
	plotHeight = 3 * vg.Inch
)

// WriteHydrograph writes a hydrograph of the simulation results to w
// in the given format, which can be "png", "svg", "pdf", or any other
// format supported by gonum.org/v1/plot.
func (s *Simulation) WriteHydrograph(w io.Writer, format string) error {
	p, err := s.hydrograph()
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, format)
	if err != nil {
		return fmt.Errorf("gr4j: writing hydrograph: %v", err)
	}
	if _, err = wt.WriteTo(w); err != nil {
		return fmt.Errorf("gr4j: writing hydrograph: %v", err)
	}
	return nil
}

// PlotHydrograph returns a function that saves a hydrograph of the
// simulation results to fileName. The file format is determined by the
// file extension.
func PlotHydrograph(fileName string) SimulationManipulator {
	return func(s *Simulation) error {
		p, err := s.hydrograph()
		if err != nil {
			return err
		}
		if err = p.Save(plotWidth, plotHeight, fileName); err != nil {
			return fmt.Errorf("gr4j: saving hydrograph: %v", err)
		}
		return nil
	}
}
