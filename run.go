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
	"time"
)

// Advance returns a function that runs the model for the next timestep
// of the forcing data and records the result. It sets s.Done after the
// last timestep.
func Advance() SimulationManipulator {
	return func(s *Simulation) error {
		i := len(s.Records)
		if i >= s.Forcing.Len() {
			s.Done = true
			return nil
		}
		st := s.Model.StepState(s.Forcing.Rainfall[i], s.Forcing.PET[i])
		if s.Forcing.Observed != nil {
			st.Observed = s.Forcing.Observed[i]
		}
		s.Records = append(s.Records, st)
		if len(s.Records) == s.Forcing.Len() {
			s.Done = true
		}
		return nil
	}
}

// SimulationStatus holds information about the progress of a simulation.
type SimulationStatus struct {
	Timestep     int
	Timesteps    int
	Date         string
	Flow         float64
	Walltime     time.Duration
	StepWalltime time.Duration
}

func (s SimulationStatus) String() string {
	return fmt.Sprintf("Timestep %-6d of %-6d date=%-10s  flow=%8.4g mm  walltime=%6.3gs  Δwalltime=%4.2gμs",
		s.Timestep, s.Timesteps, s.Date, s.Flow, s.Walltime.Seconds(),
		float64(s.StepWalltime)/float64(time.Microsecond))
}

// Log sends simulation status messages to c after each timestep.
// It should be placed after Advance in the RunFuncs.
func Log(c chan *SimulationStatus) SimulationManipulator {
	startTime := time.Now()
	stepTime := time.Now()

	return func(s *Simulation) error {
		n := len(s.Records)
		if n == 0 {
			return nil
		}
		c <- &SimulationStatus{
			Timestep:     n,
			Timesteps:    s.Forcing.Len(),
			Date:         s.Forcing.Dates[n-1],
			Flow:         s.Records[n-1].Flow,
			Walltime:     time.Since(startTime),
			StepWalltime: time.Since(stepTime),
		}
		stepTime = time.Now()
		return nil
	}
}
