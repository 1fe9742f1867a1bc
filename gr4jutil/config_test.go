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

package gr4jutil

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/gr4j"
)

var testParameters = gr4j.Parameters{
	ProductionStoreCapacity: 300,
	ExchangeCoefficient:     2.5,
	RoutingStoreCapacity:    70,
	Days:                    1.5,
	ProductionStoreContent:  180,
	RoutingStoreContent:     49,
}

func TestReadParameters(t *testing.T) {
	for _, f := range []string{"../testdata/params.json", "../testdata/params.toml"} {
		t.Run(filepath.Ext(f), func(t *testing.T) {
			p, err := ReadParameters(f)
			if err != nil {
				t.Fatal(err)
			}
			if diff := pretty.Diff(p, testParameters); len(diff) > 0 {
				t.Error(diff)
			}
		})
	}
}

func TestReadParametersErrors(t *testing.T) {
	dir, err := ioutil.TempDir("", "gr4jutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	tests := []struct {
		name, contents, err string
	}{
		{
			name:     "params.yaml",
			contents: "days: 1",
			err:      "invalid extension '.yaml'",
		},
		{
			name:     "unknown.json",
			contents: `{"days": 1.5, "x5": 2}`,
			err:      `unknown field "x5"`,
		},
		{
			name:     "unknown.toml",
			contents: "days = 1.5\nx5 = 2\n",
			err:      "unknown keys [x5]",
		},
		{
			name:     "invalid.json",
			contents: `{"production_store_capacity": 300, "routing_store_capacity": 70, "days": 0}`,
			err:      "gr4j: parameter days=0 but should be >0",
		},
		{
			name:     "syntax.json",
			contents: `{"days": }`,
			err:      "reading parameter file",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := filepath.Join(dir, test.name)
			if err := ioutil.WriteFile(f, []byte(test.contents), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := ReadParameters(f)
			if err == nil || !strings.Contains(err.Error(), test.err) {
				t.Errorf("have error %v, want %s", err, test.err)
			}
		})
	}
	if _, err := ReadParameters(filepath.Join(dir, "missing.json")); err == nil {
		t.Errorf("missing file should cause an error")
	}
}

func TestParametersFromConfig(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Parameters.ProductionStoreCapacity", 300.)
	cfg.Set("Parameters.ExchangeCoefficient", 2.5)
	cfg.Set("Parameters.RoutingStoreCapacity", 70.)
	cfg.Set("Parameters.Days", 1.5)
	cfg.Set("Parameters.ProductionStoreContent", 180.)
	cfg.Set("Parameters.RoutingStoreContent", 49.)
	p, err := parameters(context.Background(), cfg, newLogger(ioutil.Discard))
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(p, testParameters); len(diff) > 0 {
		t.Error(diff)
	}

	cfg.Set("ParameterFile", "../testdata/params.json")
	cfg.Set("Parameters.Days", -1.)
	p, err = parameters(context.Background(), cfg, newLogger(ioutil.Discard))
	if err != nil {
		t.Fatal(err)
	}
	if p.Days != 1.5 {
		t.Errorf("parameter file should take precedence: %+v", p)
	}
}

func TestGetStringMapString(t *testing.T) {
	cfg := viper.New()
	want := map[string]string{"Q": "Flow", "E": "ActualET"}
	for _, v := range []interface{}{
		`{"Q": "Flow", "E": "ActualET"}`,
		map[string]interface{}{"Q": "Flow", "E": "ActualET"},
		map[string]string{"Q": "Flow", "E": "ActualET"},
	} {
		cfg.Set("OutputVariables", v)
		have, err := GetStringMapString("OutputVariables", cfg)
		if err != nil {
			t.Fatal(err)
		}
		if diff := pretty.Diff(have, want); len(diff) > 0 {
			t.Errorf("%#v: %v", v, diff)
		}
	}
	cfg.Set("OutputVariables", `{"Q": `)
	if _, err := GetStringMapString("OutputVariables", cfg); err == nil {
		t.Errorf("invalid json should cause an error")
	}
	cfg.Set("OutputVariables", 3)
	if _, err := GetStringMapString("OutputVariables", cfg); err == nil {
		t.Errorf("invalid type should cause an error")
	}
}

func TestCheckOutputVars(t *testing.T) {
	os.Setenv("GR4J_TEST_VAR", "Flow")
	defer os.Unsetenv("GR4J_TEST_VAR")
	have, err := checkOutputVars(map[string]string{"Q": "2 *\n${GR4J_TEST_VAR}"})
	if err != nil {
		t.Fatal(err)
	}
	if have["Q"] != "2 * Flow" {
		t.Errorf("have %s, want '2 * Flow'", have["Q"])
	}
	if _, err := checkOutputVars(nil); err == nil {
		t.Errorf("missing output variables should cause an error")
	}
}

func TestCheckFiles(t *testing.T) {
	if f := checkLogFile("", "/a/b/out.csv"); f != "/a/b/out.log" {
		t.Errorf("log file: %s", f)
	}
	if f := checkLogFile("x.log", "/a/b/out.csv"); f != "x.log" {
		t.Errorf("log file: %s", f)
	}
	if _, err := checkOutputFile(context.Background(), ""); err == nil {
		t.Errorf("missing output file should cause an error")
	}
	if _, err := checkOutputFile(context.Background(), "/this/does/not/exist/out.csv"); err == nil {
		t.Errorf("missing output directory should cause an error")
	}
	if f, err := checkOutputFile(context.Background(), "out.csv"); err != nil || f != "out.csv" {
		t.Errorf("have %s, %v", f, err)
	}
}
