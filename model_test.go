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
	"strings"
	"testing"
)

func TestModelRun(t *testing.T) {
	m, err := New(testParameters)
	if err != nil {
		t.Fatal(err)
	}
	flow, err := m.Run(testRainfall, testPET)
	if err != nil {
		t.Fatal(err)
	}
	if len(flow) != len(testFlow) {
		t.Fatalf("length %d != %d", len(flow), len(testFlow))
	}
	for i, want := range testFlow {
		if absDifferent(flow[i], want) {
			t.Errorf("timestep %d: have %g, want %g", i, flow[i], want)
		}
	}
}

func TestModelStep(t *testing.T) {
	m, err := New(testParameters)
	if err != nil {
		t.Fatal(err)
	}
	st := m.StepState(testRainfall[0], testPET[0])
	if absDifferent(st.ToRouting, 5.4334) {
		t.Errorf("to routing: have %g, want 5.4334", st.ToRouting)
	}
	if absDifferent(st.Flow, testFlow[0]) {
		t.Errorf("flow: have %g, want %g", st.Flow, testFlow[0])
	}
	if st.Flow != st.RoutedFlow+st.DirectFlow {
		t.Errorf("flow %g != %g + %g", st.Flow, st.RoutedFlow, st.DirectFlow)
	}
	if st.ActualET != testPET[0] {
		t.Errorf("actual ET: have %g, want %g", st.ActualET, testPET[0])
	}
	if absDifferent(m.Step(testRainfall[1], testPET[1]), testFlow[1]) {
		t.Errorf("second step does not match run")
	}
}

func TestModelRunEmpty(t *testing.T) {
	m, err := New(testParameters)
	if err != nil {
		t.Fatal(err)
	}
	flow, err := m.Run(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if flow == nil || len(flow) != 0 {
		t.Errorf("want empty, non-nil result; have %#v", flow)
	}
}

func TestModelRunMismatch(t *testing.T) {
	m, err := New(testParameters)
	if err != nil {
		t.Fatal(err)
	}
	s0 := m.Storage()
	_, err = m.Run([]float64{1, 2}, []float64{1})
	if err == nil || !strings.Contains(err.Error(), "same length") {
		t.Errorf("unexpected error: %v", err)
	}
	if m.Storage() != s0 {
		t.Errorf("model state changed on invalid input")
	}
}

// The model should conserve water: the change in storage equals
// rainfall minus evapotranspiration plus groundwater exchange minus
// streamflow.
func TestWaterBalance(t *testing.T) {
	tests := []struct {
		name string
		p    Parameters
		rain []float64
		pet  []float64
	}{
		{
			name: "reference",
			p:    testParameters,
			rain: testRainfall,
			pet:  testPET,
		},
		{
			name: "export",
			p: Parameters{
				ProductionStoreCapacity: 300,
				ExchangeCoefficient:     -20,
				RoutingStoreCapacity:    70,
				Days:                    2.3,
				ProductionStoreContent:  10,
				RoutingStoreContent:     1,
			},
			rain: []float64{0, 30, 0, 0, 5, 0, 0, 0},
			pet:  []float64{5, 1, 4, 4, 2, 6, 6, 6},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, err := New(test.p)
			if err != nil {
				t.Fatal(err)
			}
			s0 := m.Storage()
			var in, out float64
			for i, r := range test.rain {
				st := m.StepState(r, test.pet[i])
				in += st.Rainfall + st.ActualExchange
				out += st.ActualET + st.Flow
				if st.Flow < 0 || st.RoutingStore < 0 || st.ProductionStore < 0 {
					t.Errorf("timestep %d: negative quantity: %+v", i, st)
				}
			}
			if residual := in - out - (m.Storage() - s0); math.Abs(residual) > 1.e-9 {
				t.Errorf("water balance residual %g", residual)
			}
		})
	}
}

func TestParametersValidate(t *testing.T) {
	mod := func(f func(p *Parameters)) Parameters {
		p := testParameters
		f(&p)
		return p
	}
	tests := []struct {
		p   Parameters
		err string
	}{
		{p: testParameters},
		{p: mod(func(p *Parameters) { p.ExchangeCoefficient = -3 })},
		{p: mod(func(p *Parameters) { p.ProductionStoreContent = 0 })},
		{p: mod(func(p *Parameters) { p.Days = 0.5 })},
		{
			p:   mod(func(p *Parameters) { p.ProductionStoreCapacity = 0 }),
			err: "gr4j: parameter production_store_capacity=0 but should be >0",
		},
		{
			p:   mod(func(p *Parameters) { p.RoutingStoreCapacity = -1 }),
			err: "gr4j: parameter routing_store_capacity=-1 but should be >0",
		},
		{
			p:   mod(func(p *Parameters) { p.Days = 0 }),
			err: "gr4j: parameter days=0 but should be >0",
		},
		{p: mod(func(p *Parameters) { p.Days = MaxDays })},
		{
			p:   mod(func(p *Parameters) { p.Days = 1e19 }),
			err: "gr4j: parameter days=1e+19 too large; it should be <=10000",
		},
		{
			p:   mod(func(p *Parameters) { p.ProductionStoreContent = 301 }),
			err: "gr4j: parameter production_store_content=301 but should be between 0 and production_store_capacity (300)",
		},
		{
			p:   mod(func(p *Parameters) { p.RoutingStoreContent = -0.5 }),
			err: "gr4j: parameter routing_store_content=-0.5 but should be >=0",
		},
		{
			p:   mod(func(p *Parameters) { p.ExchangeCoefficient = math.NaN() }),
			err: "gr4j: parameter exchange_coefficient=NaN is not a finite number",
		},
		{
			p:   mod(func(p *Parameters) { p.Days = math.Inf(1) }),
			err: "gr4j: parameter days=+Inf is not a finite number",
		},
	}
	for i, test := range tests {
		err := test.p.Validate()
		if test.err == "" {
			if err != nil {
				t.Errorf("%d: unexpected error: %v", i, err)
			}
			continue
		}
		if err == nil || err.Error() != test.err {
			t.Errorf("%d: have error %v, want %s", i, err, test.err)
		}
		if _, err := New(test.p); err == nil {
			t.Errorf("%d: New should fail", i)
		}
	}
}
