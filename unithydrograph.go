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
	"math"

	"gonum.org/v1/gonum/floats"
)

// Fractions of the production store output that take the slow path
// (through the routing store) and the fast path (directly to the outlet).
const (
	slowFraction = 0.9
	fastFraction = 0.1
)

// UnitHydrograph is a finite impulse response filter that spreads each
// input over len(Ordinates) timesteps.
type UnitHydrograph struct {
	Ordinates []float64

	// buffer holds the convolved amounts that are due at the current
	// timestep (index 0) and at each following timestep.
	buffer []float64
}

// NewUnitHydrograph creates a unit hydrograph with n ordinates derived
// from curve s with time base days.
func NewUnitHydrograph(s SCurve, n int, days float64) *UnitHydrograph {
	return &UnitHydrograph{
		Ordinates: Ordinates(s, n, days),
		buffer:    make([]float64, n),
	}
}

// Convolve shifts the buffer forward by one timestep, spreads input over
// the buffer according to the ordinates, and returns the amount released
// at the current timestep.
func (uh *UnitHydrograph) Convolve(input float64) float64 {
	last := len(uh.buffer) - 1
	for i := 0; i < last; i++ {
		uh.buffer[i] = uh.buffer[i+1] + input*uh.Ordinates[i]
	}
	uh.buffer[last] = input * uh.Ordinates[last]
	return uh.buffer[0]
}

// pending returns the amount that has been added to the hydrograph but
// not yet released.
func (uh *UnitHydrograph) pending() float64 {
	return floats.Sum(uh.buffer[1:])
}

// Routing routes production store output to the catchment outlet
// through two unit hydrographs and the routing store.
type Routing struct {
	Store *RoutingStore
	UH1   *UnitHydrograph // slow path, ceil(days) ordinates
	UH2   *UnitHydrograph // fast path, ceil(2·days) ordinates
}

// NewRouting creates a routing stage where days is the unit hydrograph
// time base, exchange is the groundwater exchange coefficient, and capacity
// and content are the routing store capacity and initial water content.
func NewRouting(days, exchange, capacity, content float64) *Routing {
	return &Routing{
		Store: &RoutingStore{
			Capacity:              capacity,
			WaterContent:          content,
			GWExchangeCoefficient: exchange,
		},
		UH1: NewUnitHydrograph(S1, int(math.Ceil(days)), days),
		UH2: NewUnitHydrograph(S2, int(math.Ceil(2*days)), days),
	}
}

// routingFluxes holds the water moved by the routing stage during one
// timestep.
type routingFluxes struct {
	routed, direct           float64
	exchange, actualExchange float64
}

// Step routes toRouting and returns the streamflow at the outlet for the
// current timestep.
func (r *Routing) Step(toRouting float64) float64 {
	f := r.step(toRouting)
	return f.routed + f.direct
}

func (r *Routing) step(toRouting float64) routingFluxes {
	slow := r.UH1.Convolve(toRouting) * slowFraction
	fast := r.UH2.Convolve(toRouting) * fastFraction

	before := r.Store.WaterContent
	qr, exchange := r.Store.Step(slow)
	qd := math.Max(0, fast+exchange)

	return routingFluxes{
		routed:   qr,
		direct:   qd,
		exchange: exchange,
		// Exchange is clamped separately in the store and in the fast path.
		actualExchange: (r.Store.WaterContent + qr - before - slow) + (qd - fast),
	}
}

// pending returns the water held in the unit hydrographs that has not yet
// been released.
func (r *Routing) pending() float64 {
	return r.UH1.pending()*slowFraction + r.UH2.pending()*fastFraction
}
