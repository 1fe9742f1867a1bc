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

// RoutingStore is the groundwater routing reservoir. It exchanges water
// with areas outside of the catchment at a rate set by
// GWExchangeCoefficient, which may be negative.
type RoutingStore struct {
	Capacity              float64 // mm
	WaterContent          float64 // mm
	GWExchangeCoefficient float64 // mm/day
}

// Step adds uh1Output to the store and returns the store outflow qr and the
// groundwater exchange calculated for this timestep.
// WaterContent is never negative after Step returns.
func (r *RoutingStore) Step(uh1Output float64) (qr, exchange float64) {
	exchange = r.GWExchangeCoefficient * math.Pow(r.WaterContent/r.Capacity, 3.5)
	r.WaterContent = math.Max(0, r.WaterContent+uh1Output+exchange)
	qr = r.WaterContent * (1 - math.Pow(1+math.Pow(r.WaterContent/r.Capacity, 4), -0.25))
	r.WaterContent -= qr
	return qr, exchange
}
