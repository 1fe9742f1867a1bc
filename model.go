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

import "fmt"

// Model is a GR4J rainfall-runoff model of a single catchment. It owns
// its stores and unit hydrographs; a Model must not be shared between
// goroutines.
type Model struct {
	production *ProductionStore
	routing    *Routing
}

// New creates a new model from the given parameters. The unit hydrograph
// buffers start empty.
func New(p Parameters) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Model{
		production: &ProductionStore{
			Capacity:     p.ProductionStoreCapacity,
			WaterContent: p.ProductionStoreContent,
		},
		routing: NewRouting(p.Days, p.ExchangeCoefficient, p.RoutingStoreCapacity, p.RoutingStoreContent),
	}, nil
}

// State holds the model inputs, fluxes, and store contents for a single
// timestep. All values are in mm (per timestep, for fluxes).
type State struct {
	Rainfall float64 `desc:"Rainfall"`
	PET      float64 `desc:"Potential evapotranspiration"`
	Observed float64 `desc:"Observed streamflow, if available"`

	ToRouting      float64 `desc:"Production store output to routing"`
	Percolation    float64 `desc:"Production store percolation"`
	ActualET       float64 `desc:"Actual evapotranspiration"`
	Exchange       float64 `desc:"Potential groundwater exchange"`
	ActualExchange float64 `desc:"Groundwater exchange actually applied"`
	RoutedFlow     float64 `desc:"Routing store outflow"`
	DirectFlow     float64 `desc:"Fast path flow"`
	Flow           float64 `desc:"Total streamflow"`

	ProductionStore float64 `desc:"Production store water content at end of timestep"`
	RoutingStore    float64 `desc:"Routing store water content at end of timestep"`
}

// Step runs the model for one timestep and returns the streamflow.
func (m *Model) Step(rainfall, pet float64) float64 {
	return m.StepState(rainfall, pet).Flow
}

// StepState runs the model for one timestep and returns the complete
// model state for that timestep.
func (m *Model) StepState(rainfall, pet float64) State {
	pf := m.production.step(rainfall, pet)
	rf := m.routing.step(pf.toRouting)
	return State{
		Rainfall:        rainfall,
		PET:             pet,
		ToRouting:       pf.toRouting,
		Percolation:     pf.percolation,
		ActualET:        pf.actualET,
		Exchange:        rf.exchange,
		ActualExchange:  rf.actualExchange,
		RoutedFlow:      rf.routed,
		DirectFlow:      rf.direct,
		Flow:            rf.routed + rf.direct,
		ProductionStore: m.production.WaterContent,
		RoutingStore:    m.routing.Store.WaterContent,
	}
}

// Run runs the model over paired rainfall and potential evapotranspiration
// series and returns one streamflow value per timestep.
func (m *Model) Run(rainfall, pet []float64) ([]float64, error) {
	if len(rainfall) != len(pet) {
		return nil, fmt.Errorf("gr4j: rainfall and pet series must be the same length; %d != %d",
			len(rainfall), len(pet))
	}
	flow := make([]float64, len(rainfall))
	for i, r := range rainfall {
		flow[i] = m.Step(r, pet[i])
	}
	return flow, nil
}

// Storage returns the water currently held by the model: the contents of
// both stores plus water in the unit hydrographs that has not yet been
// released.
func (m *Model) Storage() float64 {
	return m.production.WaterContent + m.routing.Store.WaterContent + m.routing.pending()
}
