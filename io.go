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
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/tealeg/xlsx"
)

// OutputOptions returns the names and descriptions of the model
// variables that can be used in output expressions.
func OutputOptions() (names, descriptions []string) {
	t := reflect.TypeOf(State{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		names = append(names, f.Name)
		descriptions = append(descriptions, f.Tag.Get("desc"))
	}
	return names, descriptions
}

// vars returns the fields of st keyed by name, for evaluating output
// expressions.
func (st State) vars() map[string]interface{} {
	v := reflect.ValueOf(st)
	t := v.Type()
	o := make(map[string]interface{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		o[t.Field(i).Name] = v.Field(i).Float()
	}
	return o
}

// Outputter is a holder for output parameters.
//
// fileName contains the path where the output will be saved. Files
// ending in ".xlsx" are written as spreadsheets and all other files are
// written as comma-separated text.
//
// outputVariables maps the names of the variables for which data
// should be returned to expressions that define how the
// requested data should be calculated. These expressions can utilize
// the variables returned by OutputOptions and the functions in
// outputFunctions.
type Outputter struct {
	fileName        string
	outputVariables map[string]string
	expressions     map[string]*govaluate.EvaluableExpression
	outputFunctions map[string]govaluate.ExpressionFunction
}

func oneArg(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("gr4j: got %d arguments for function '%s', but needs 1", len(arg), name)
		}
		x, ok := arg[0].(float64)
		if !ok {
			return nil, fmt.Errorf("gr4j: invalid argument %v for function '%s'", arg[0], name)
		}
		return f(x), nil
	}
}

func twoArgs(name string, f func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 2 {
			return nil, fmt.Errorf("gr4j: got %d arguments for function '%s', but needs 2", len(arg), name)
		}
		x, ok1 := arg[0].(float64)
		y, ok2 := arg[1].(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("gr4j: invalid arguments %v for function '%s'", arg, name)
		}
		return f(x, y), nil
	}
}

// NewOutputter initializes a new Outputter holder and adds a set of default
// output functions: 'exp(x)', 'log(x)', 'max(x, y)', 'min(x, y)' and
// 'pow(x, y)'. outputFunctions adds to or replaces the defaults.
func NewOutputter(fileName string, outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	funcs := map[string]govaluate.ExpressionFunction{
		"exp": oneArg("exp", math.Exp),
		"log": oneArg("log", math.Log),
		"max": twoArgs("max", math.Max),
		"min": twoArgs("min", math.Min),
		"pow": twoArgs("pow", math.Pow),
	}
	for k, v := range outputFunctions {
		funcs[k] = v
	}
	if len(outputVariables) == 0 {
		return nil, fmt.Errorf("gr4j: there are no output variables specified")
	}
	o := &Outputter{
		fileName:        fileName,
		outputVariables: outputVariables,
		expressions:     make(map[string]*govaluate.EvaluableExpression),
		outputFunctions: funcs,
	}
	for name, expr := range outputVariables {
		expr = strings.Replace(expr, "\r\n", " ", -1)
		expr = strings.Replace(expr, "\n", " ", -1)
		e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, funcs)
		if err != nil {
			return nil, fmt.Errorf("gr4j: output variable %s: %v", name, err)
		}
		o.expressions[name] = e
	}
	return o, nil
}

// names returns the output variable names in sorted order.
func (o *Outputter) names() []string {
	names := make([]string, 0, len(o.expressions))
	for n := range o.expressions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var outputNameRegexp = regexp.MustCompile(`^[A-Za-z]\w*$`)

// CheckOutputVars returns a function that ensures the output variables
// can be calculated.
func (o *Outputter) CheckOutputVars() SimulationManipulator {
	return func(s *Simulation) error {
		opts, _ := OutputOptions()
		available := make(map[string]bool, len(opts))
		for _, n := range opts {
			available[n] = true
		}
		for _, name := range o.names() {
			if !outputNameRegexp.MatchString(name) || strings.EqualFold(name, "date") {
				return fmt.Errorf("gr4j: invalid output variable name '%s'", name)
			}
			for _, v := range o.expressions[name].Vars() {
				if !available[v] {
					return fmt.Errorf("gr4j: undefined variable name '%s' in output variable '%s'", v, name)
				}
				if v == "Observed" && s.Forcing != nil && s.Forcing.Observed == nil {
					return fmt.Errorf("gr4j: output variable '%s' uses observed streamflow, "+
						"but the forcing data has no 'observed' column", name)
				}
			}
		}
		return nil
	}
}

// Results evaluates the output expressions for each completed
// timestep and returns the results keyed by output variable name.
func (o *Outputter) Results(s *Simulation) (map[string][]float64, error) {
	r := make(map[string][]float64, len(o.expressions))
	for name, e := range o.expressions {
		vals := make([]float64, len(s.Records))
		for i, st := range s.Records {
			v, err := e.Evaluate(st.vars())
			if err != nil {
				return nil, fmt.Errorf("gr4j: evaluating output variable '%s' at timestep %d: %v", name, i, err)
			}
			f, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("gr4j: output variable '%s' evaluates to %T, not a number", name, v)
			}
			vals[i] = f
		}
		r[name] = vals
	}
	return r, nil
}

// Output returns a function that writes the simulation results
// to the output file.
func (o *Outputter) Output() SimulationManipulator {
	return func(s *Simulation) error {
		results, err := o.Results(s)
		if err != nil {
			return err
		}
		if strings.ToLower(filepath.Ext(o.fileName)) == ".xlsx" {
			return o.writeXLSX(s.Forcing.Dates, results)
		}
		f, err := os.Create(o.fileName)
		if err != nil {
			return fmt.Errorf("gr4j: creating output file: %v", err)
		}
		if err = o.WriteCSV(f, s.Forcing.Dates, results); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
}

// WriteCSV writes results to w as comma-separated rows of the date
// followed by each output variable.
func (o *Outputter) WriteCSV(w io.Writer, dates []string, results map[string][]float64) error {
	names := o.names()
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"date"}, names...)); err != nil {
		return fmt.Errorf("gr4j: writing output: %v", err)
	}
	row := make([]string, len(names)+1)
	for i := range results[names[0]] {
		row[0] = dates[i]
		for j, n := range names {
			row[j+1] = strconv.FormatFloat(results[n][i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("gr4j: writing output: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("gr4j: writing output: %v", err)
	}
	return nil
}

func (o *Outputter) writeXLSX(dates []string, results map[string][]float64) error {
	names := o.names()
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("GR4J")
	if err != nil {
		return fmt.Errorf("gr4j: creating output spreadsheet: %v", err)
	}
	header := sheet.AddRow()
	header.AddCell().SetString("date")
	for _, n := range names {
		header.AddCell().SetString(n)
	}
	for i := range results[names[0]] {
		row := sheet.AddRow()
		row.AddCell().SetString(dates[i])
		for _, n := range names {
			row.AddCell().SetFloat(results[n][i])
		}
	}
	if err := file.Save(o.fileName); err != nil {
		return fmt.Errorf("gr4j: saving output spreadsheet: %v", err)
	}
	return nil
}
