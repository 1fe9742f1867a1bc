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
	"strings"
	"testing"

	"github.com/kr/pretty"
)

func TestReadForcing(t *testing.T) {
	f := testForcing(t)
	want := &Forcing{
		Dates:    []string{"2019-01-01", "2019-01-02", "2019-01-03", "2019-01-04", "2019-01-05"},
		Rainfall: testRainfall,
		PET:      testPET,
		Observed: []float64{4.1, 4.5, 4.3, 4.3, 4.8},
	}
	if diff := pretty.Diff(f, want); len(diff) > 0 {
		t.Errorf("forcing: %v", diff)
	}
}

func TestReadForcingColumns(t *testing.T) {
	const in = `PET, Date, Rainfall, notes
0.5, d1, 3, a
1, d2, 0, b
`
	f, err := ReadForcing(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := &Forcing{
		Dates:    []string{"d1", "d2"},
		Rainfall: []float64{3, 0},
		PET:      []float64{0.5, 1},
	}
	if diff := pretty.Diff(f, want); len(diff) > 0 {
		t.Errorf("forcing: %v", diff)
	}
	if f.Observed != nil {
		t.Errorf("observed should be nil")
	}
}

func TestReadForcingErrors(t *testing.T) {
	tests := []struct {
		name, in, err string
	}{
		{
			name: "empty",
			in:   "",
			err:  "gr4j: reading forcing: missing header",
		},
		{
			name: "missing column",
			in:   "date,rainfall\n2019-01-01,3\n",
			err:  "gr4j: reading forcing: missing column 'pet'",
		},
		{
			name: "bad number",
			in:   "date,rainfall,pet\n2019-01-01,3,0.4\n2019-01-02,x,0.4\n",
			err:  "gr4j: reading forcing line 3 column 'rainfall': strconv.ParseFloat: parsing \"x\": invalid syntax",
		},
		{
			name: "negative",
			in:   "date,rainfall,pet\n2019-01-01,3,-0.4\n",
			err:  "gr4j: invalid pet value -0.4 on 2019-01-01",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, err := ReadForcing(strings.NewReader(test.in))
			if err == nil || err.Error() != test.err {
				t.Errorf("have error %v, want %s", err, test.err)
			}
			if f != nil {
				t.Errorf("forcing should be nil on error")
			}
		})
	}
}

func TestForcingValidate(t *testing.T) {
	f := &Forcing{
		Dates:    []string{"a", "b"},
		Rainfall: []float64{1, 2},
		PET:      []float64{1},
	}
	if err := f.Validate(); err == nil {
		t.Errorf("mismatched lengths should fail")
	}
	f.PET = append(f.PET, 2)
	f.Observed = []float64{1}
	if err := f.Validate(); err == nil {
		t.Errorf("mismatched observations should fail")
	}
	f.Observed = nil
	if err := f.Validate(); err != nil {
		t.Error(err)
	}
}
