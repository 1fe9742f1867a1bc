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

// SCurve is a cumulative response curve giving the fraction of a unit input
// that has left a unit hydrograph by time t, for a hydrograph with
// time base days.
type SCurve func(t, days float64) float64

// S1 is the S-curve of the slow-path unit hydrograph, which
// releases all of its input within days.
func S1(t, days float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t < days:
		return math.Pow(t/days, 2.5)
	default:
		return 1
	}
}

// S2 is the S-curve of the fast-path unit hydrograph, which is
// symmetric about days and releases all of its input within 2·days.
func S2(t, days float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t < days:
		return 0.5 * math.Pow(t/days, 2.5)
	case t < 2*days:
		return 1 - 0.5*math.Pow(2-t/days, 2.5)
	default:
		return 1
	}
}

// Ordinates returns the n unit hydrograph ordinates derived from
// curve s, where ordinate i is s(i+1) - s(i).
func Ordinates(s SCurve, n int, days float64) []float64 {
	o := make([]float64, n)
	for i := range o {
		t := float64(i)
		o[i] = s(t+1, days) - s(t, days)
	}
	return o
}
