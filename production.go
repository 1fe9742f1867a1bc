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

import "math"

// percolationRatio relates the production store capacity to the
// water content at which percolation becomes significant.
const percolationRatio = 9. / 4.

// ProductionStore is the soil moisture reservoir. It absorbs part of the
// net rainfall, loses water to evapotranspiration, and leaks water to
// routing by percolation.
type ProductionStore struct {
	Capacity     float64 // mm
	WaterContent float64 // mm
}

// productionFluxes holds the water moved by the production store during
// one timestep.
type productionFluxes struct {
	toRouting   float64
	percolation float64
	actualET    float64
}

// Step processes one timestep of rainfall and potential evapotranspiration
// (pet) and returns the amount of water passed on to routing.
func (p *ProductionStore) Step(rainfall, pet float64) float64 {
	return p.step(rainfall, pet).toRouting
}

func (p *ProductionStore) step(rainfall, pet float64) productionFluxes {
	var f productionFluxes
	var direct float64
	if rainfall >= pet {
		net := rainfall - pet
		direct = net - p.Fill(net)
		f.actualET = pet
	} else {
		before := p.WaterContent
		p.Evaporate(pet - rainfall)
		f.actualET = rainfall + before - p.WaterContent
	}
	f.percolation = p.Percolate()
	f.toRouting = f.percolation + direct
	return f
}

// Fill adds the share of netRainfall that the store absorbs to its water
// content and returns that share. The rest is left for direct runoff.
func (p *ProductionStore) Fill(netRainfall float64) float64 {
	tws := math.Tanh(netRainfall / p.Capacity)
	sr := p.WaterContent / p.Capacity
	ps := p.Capacity * (1 - sr*sr) * tws / (1 + sr*tws)
	p.WaterContent += ps
	return ps
}

// Evaporate removes water from the store to satisfy the evaporative demand
// left over after rainfall.
func (p *ProductionStore) Evaporate(deficit float64) {
	ws := math.Tanh(deficit / p.Capacity)
	sr := p.WaterContent / p.Capacity
	er := p.WaterContent * (2 - sr) * ws / (1 + (1-sr)*ws)
	p.WaterContent -= er
}

// Percolate removes and returns the water that leaks from the store.
func (p *ProductionStore) Percolate() float64 {
	perc := p.WaterContent * (1 - math.Pow(1+math.Pow(p.WaterContent/(percolationRatio*p.Capacity), 4), -0.25))
	p.WaterContent -= perc
	return perc
}
