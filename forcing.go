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
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Forcing holds the daily input series for a simulation.
type Forcing struct {
	Dates    []string
	Rainfall []float64 // mm/day
	PET      []float64 // mm/day

	// Observed holds observed streamflow [mm/day]. It is nil if the
	// input did not include observations.
	Observed []float64
}

// Len returns the number of timesteps in the forcing.
func (f *Forcing) Len() int { return len(f.Dates) }

// Validate checks that all series are the same length and that the
// rainfall and PET values are finite and non-negative.
func (f *Forcing) Validate() error {
	n := len(f.Dates)
	if len(f.Rainfall) != n || len(f.PET) != n {
		return fmt.Errorf("gr4j: forcing series must be the same length; dates=%d, rainfall=%d, pet=%d",
			n, len(f.Rainfall), len(f.PET))
	}
	if f.Observed != nil && len(f.Observed) != n {
		return fmt.Errorf("gr4j: observed series length %d != forcing length %d", len(f.Observed), n)
	}
	for i := 0; i < n; i++ {
		for _, v := range []struct {
			name string
			val  float64
		}{{"rainfall", f.Rainfall[i]}, {"pet", f.PET[i]}} {
			if v.val < 0 || math.IsNaN(v.val) || math.IsInf(v.val, 0) {
				return fmt.Errorf("gr4j: invalid %s value %g on %s", v.name, v.val, f.Dates[i])
			}
		}
	}
	return nil
}

// ReadForcing reads forcing data from a comma-separated file with a header
// row. The columns "date", "rainfall" and "pet" are required, and an
// "observed" streamflow column is read if present. Column names are
// not case sensitive.
func ReadForcing(r io.Reader) (*Forcing, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("gr4j: reading forcing: missing header")
	} else if err != nil {
		return nil, fmt.Errorf("gr4j: reading forcing header: %v", err)
	}
	cols := map[string]int{"date": -1, "rainfall": -1, "pet": -1, "observed": -1}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if _, ok := cols[h]; ok {
			cols[h] = i
		}
	}
	for _, c := range []string{"date", "rainfall", "pet"} {
		if cols[c] < 0 {
			return nil, fmt.Errorf("gr4j: reading forcing: missing column '%s'", c)
		}
	}

	f := new(Forcing)
	hasObs := cols["observed"] >= 0
	if hasObs {
		f.Observed = []float64{}
	}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("gr4j: reading forcing: %v", err)
		}
		line++
		parse := func(col string) (float64, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[col]]), 64)
			if err != nil {
				return 0, fmt.Errorf("gr4j: reading forcing line %d column '%s': %v", line, col, err)
			}
			return v, nil
		}
		rain, err := parse("rainfall")
		if err != nil {
			return nil, err
		}
		pet, err := parse("pet")
		if err != nil {
			return nil, err
		}
		f.Dates = append(f.Dates, strings.TrimSpace(rec[cols["date"]]))
		f.Rainfall = append(f.Rainfall, rain)
		f.PET = append(f.PET, pet)
		if hasObs {
			obs, err := parse("observed")
			if err != nil {
				return nil, err
			}
			f.Observed = append(f.Observed, obs)
		}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}
