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
	"os"
	"testing"
)

const testTolerance = 1.e-3

// testParameters are the parameters of the reference catchment.
var testParameters = Parameters{
	ProductionStoreCapacity: 300,
	ExchangeCoefficient:     2.5,
	RoutingStoreCapacity:    70,
	Days:                    1.5,
	ProductionStoreContent:  180,
	RoutingStoreContent:     49,
}

var (
	testRainfall = []float64{14.1, 3.7, 7.1, 9.3, 7.1}
	testPET      = []float64{0.46, 0.46, 0.47, 0.47, 0.48}
	testFlow     = []float64{4.018, 4.574, 4.240, 4.397, 4.721}
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func absDifferent(a, b float64) bool {
	if math.Abs(a-b) > testTolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func testForcing(t *testing.T) *Forcing {
	f, err := os.Open("testdata/forcing.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	forcing, err := ReadForcing(f)
	if err != nil {
		t.Fatal(err)
	}
	return forcing
}
