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

// SimulationManipulator is a function that operates on a Simulation.
type SimulationManipulator func(s *Simulation) error

// Simulation holds the current state of a model run over a forcing series.
type Simulation struct {
	// Forcing holds the input series.
	Forcing *Forcing

	// Model is the model being run. It is typically set by NewModel
	// during initialization.
	Model *Model

	// Records holds the model state for each timestep that has been run.
	Records []State

	// InitialStorage is the water held by the model before the first timestep.
	InitialStorage float64

	// InitFuncs are functions to be called in the given order
	// at the beginning of the simulation.
	InitFuncs []SimulationManipulator

	// RunFuncs are functions to be called in the given order repeatedly
	// until "Done" is true. Therefore, RunFuncs must include a function
	// that advances the model and eventually sets "Done" to true.
	RunFuncs []SimulationManipulator

	// CleanupFuncs are functions to be called in the given order
	// at the end of the simulation.
	CleanupFuncs []SimulationManipulator

	// Done specifies whether the simulation is finished.
	Done bool
}

// Init initializes the simulation by running s.InitFuncs.
func (s *Simulation) Init() error {
	for i, f := range s.InitFuncs {
		if err := f(s); err != nil {
			return fmt.Errorf("gr4j: initialization function %d: %v", i, err)
		}
	}
	if s.Forcing == nil {
		return fmt.Errorf("gr4j: simulation has no forcing data")
	}
	if s.Model == nil {
		return fmt.Errorf("gr4j: simulation has no model")
	}
	s.InitialStorage = s.Model.Storage()
	s.Records = make([]State, 0, s.Forcing.Len())
	return nil
}

// Run carries out the simulation by running s.RunFuncs until s.Done is true.
// A simulation with no forcing data finishes without running any timesteps.
func (s *Simulation) Run() error {
	if s.Forcing.Len() == 0 {
		s.Done = true
	}
	for !s.Done {
		for _, f := range s.RunFuncs {
			if err := f(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// Cleanup finishes the simulation by running s.CleanupFuncs.
func (s *Simulation) Cleanup() error {
	for _, f := range s.CleanupFuncs {
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}

// NewModel returns a function that creates the simulation model from p.
func NewModel(p Parameters) SimulationManipulator {
	return func(s *Simulation) error {
		m, err := New(p)
		if err != nil {
			return err
		}
		s.Model = m
		return nil
	}
}

// UseForcing returns a function that sets the simulation input data.
func UseForcing(f *Forcing) SimulationManipulator {
	return func(s *Simulation) error {
		s.Forcing = f
		return nil
	}
}

// CheckForcing returns a function that checks that the
// simulation input data is valid.
func CheckForcing() SimulationManipulator {
	return func(s *Simulation) error {
		if s.Forcing == nil {
			return fmt.Errorf("gr4j: simulation has no forcing data")
		}
		return s.Forcing.Validate()
	}
}

// Flow returns the simulated streamflow for each completed timestep.
func (s *Simulation) Flow() []float64 {
	o := make([]float64, len(s.Records))
	for i, r := range s.Records {
		o[i] = r.Flow
	}
	return o
}
