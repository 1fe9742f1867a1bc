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
	"testing"
)

func TestProductionStore(t *testing.T) {
	t.Run("fill", func(t *testing.T) {
		p := &ProductionStore{Capacity: 300, WaterContent: 180}
		ps := p.Fill(13.64)
		if absDifferent(p.WaterContent, 188.492) {
			t.Errorf("water content: have %g, want 188.492", p.WaterContent)
		}
		if absDifferent(ps, 188.492-180) {
			t.Errorf("absorbed: have %g, want %g", ps, 188.492-180)
		}
	})
	t.Run("evaporate", func(t *testing.T) {
		p := &ProductionStore{Capacity: 300, WaterContent: 240}
		p.Evaporate(0.36)
		if absDifferent(p.WaterContent, 239.6545) {
			t.Errorf("have %g, want 239.6545", p.WaterContent)
		}
	})
	t.Run("percolate", func(t *testing.T) {
		p := &ProductionStore{Capacity: 300, WaterContent: 240}
		perc := p.Percolate()
		if absDifferent(perc, 0.949) {
			t.Errorf("have %g, want 0.949", perc)
		}
		if absDifferent(p.WaterContent, 240-perc) {
			t.Errorf("water content: have %g, want %g", p.WaterContent, 240-perc)
		}
	})
	t.Run("step", func(t *testing.T) {
		p := &ProductionStore{Capacity: 300, WaterContent: 180}
		r := p.Step(14.1, 0.46)
		if absDifferent(r, 5.4334) {
			t.Errorf("have %g, want 5.4334", r)
		}
	})
	t.Run("step_dry", func(t *testing.T) {
		p := &ProductionStore{Capacity: 300, WaterContent: 180}
		f := p.step(0.2, 3)
		if f.toRouting != f.percolation {
			t.Errorf("dry step should only route percolation: %g != %g", f.toRouting, f.percolation)
		}
		if f.actualET <= 0.2 || f.actualET > 3 {
			t.Errorf("actual ET %g should be between rainfall and PET", f.actualET)
		}
		if absDifferent(180+0.2-f.actualET-f.percolation, p.WaterContent) {
			t.Errorf("store does not balance: %g", p.WaterContent)
		}
	})
}

func TestFillLimits(t *testing.T) {
	for _, sr := range []float64{0, 0.3, 0.9, 0.999} {
		prev := 300 * sr
		for _, net := range []float64{0.1, 1, 10, 100, 1000, 1.e5} {
			p := &ProductionStore{Capacity: 300, WaterContent: 300 * sr}
			p.Fill(net)
			if p.WaterContent < prev {
				t.Errorf("sr=%g, net=%g: content %g decreased from %g", sr, net, p.WaterContent, prev)
			}
			if p.WaterContent > 300+1.e-9 {
				t.Errorf("sr=%g, net=%g: content %g exceeds capacity", sr, net, p.WaterContent)
			}
			prev = p.WaterContent
		}
		if different(prev, 300, 1.e-6) {
			t.Errorf("sr=%g: content %g does not approach capacity", sr, prev)
		}
	}
}

func TestEvaporateLimits(t *testing.T) {
	for _, sr := range []float64{0.1, 0.5, 1} {
		prev := 300 * sr
		for _, deficit := range []float64{0.1, 1, 10, 100, 1000, 1.e5} {
			p := &ProductionStore{Capacity: 300, WaterContent: 300 * sr}
			p.Evaporate(deficit)
			if p.WaterContent > prev || p.WaterContent < 0 {
				t.Errorf("sr=%g, deficit=%g: content %g out of range", sr, deficit, p.WaterContent)
			}
			prev = p.WaterContent
		}
		if prev > 1.e-6 {
			t.Errorf("sr=%g: content %g does not approach zero", sr, prev)
		}
	}
}

func TestPercolateLimits(t *testing.T) {
	for _, w := range []float64{1.e-3, 1, 50, 150, 300} {
		p := &ProductionStore{Capacity: 300, WaterContent: w}
		perc := p.Percolate()
		if perc < 0 || perc >= w {
			t.Errorf("content %g: percolation %g out of range", w, perc)
		}
	}
	p := &ProductionStore{Capacity: 300}
	if perc := p.Percolate(); perc != 0 || math.IsNaN(p.WaterContent) {
		t.Errorf("empty store percolated %g", perc)
	}
}
