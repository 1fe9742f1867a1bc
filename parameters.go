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
)

// MaxDays is the largest accepted unit hydrograph time base [days]. The
// routing buffer holds ceil(2·MaxDays) values.
const MaxDays = 10000

// Parameters are the GR4J model parameters.
type Parameters struct {
	// ProductionStoreCapacity is the maximum production store
	// water content (X1) [mm].
	ProductionStoreCapacity float64 `json:"production_store_capacity" toml:"production_store_capacity"`

	// ExchangeCoefficient is the groundwater exchange coefficient (X2) [mm/day].
	// Positive values import water into the catchment and negative values
	// export it.
	ExchangeCoefficient float64 `json:"exchange_coefficient" toml:"exchange_coefficient"`

	// RoutingStoreCapacity is the maximum routing store water content (X3) [mm].
	RoutingStoreCapacity float64 `json:"routing_store_capacity" toml:"routing_store_capacity"`

	// Days is the unit hydrograph time base (X4) [days].
	Days float64 `json:"days" toml:"days"`

	// ProductionStoreContent is the initial production store water content [mm].
	ProductionStoreContent float64 `json:"production_store_content" toml:"production_store_content"`

	// RoutingStoreContent is the initial routing store water content [mm].
	RoutingStoreContent float64 `json:"routing_store_content" toml:"routing_store_content"`
}

// Validate returns an error if the parameters can not be used to
// construct a model.
func (p Parameters) Validate() error {
	vals := []float64{p.ProductionStoreCapacity, p.ExchangeCoefficient, p.RoutingStoreCapacity,
		p.Days, p.ProductionStoreContent, p.RoutingStoreContent}
	names := []string{"production_store_capacity", "exchange_coefficient", "routing_store_capacity",
		"days", "production_store_content", "routing_store_content"}
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("gr4j: parameter %s=%g is not a finite number", names[i], v)
		}
	}
	vals = []float64{p.ProductionStoreCapacity, p.RoutingStoreCapacity, p.Days}
	names = []string{"production_store_capacity", "routing_store_capacity", "days"}
	for i, v := range vals {
		if !(v > 0) {
			return fmt.Errorf("gr4j: parameter %s=%g but should be >0", names[i], v)
		}
	}
	if p.Days > MaxDays {
		return fmt.Errorf("gr4j: parameter days=%g too large; it should be <=%d", p.Days, MaxDays)
	}
	if p.ProductionStoreContent < 0 || p.ProductionStoreContent > p.ProductionStoreCapacity {
		return fmt.Errorf("gr4j: parameter production_store_content=%g but should be between 0 and production_store_capacity (%g)",
			p.ProductionStoreContent, p.ProductionStoreCapacity)
	}
	if p.RoutingStoreContent < 0 {
		return fmt.Errorf("gr4j: parameter routing_store_content=%g but should be >=0", p.RoutingStoreContent)
	}
	return nil
}
