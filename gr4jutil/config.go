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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/gr4j"
	"github.com/spf13/cast"
)

// checkOutputVars removes end lines and expands environment
// variables in the output variables.
func checkOutputVars(vars map[string]string) (map[string]string, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("there are no variables specified for output. Please fill in " +
			"the OutputVariables configuration and try again.")
	}
	o := make(map[string]string, len(vars))
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		o[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}
	return o, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(ctx context.Context, f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="output.csv")`)
	}
	f = os.ExpandEnv(f)
	if IsBlob(f) {
		url, err := url.Parse(f)
		if err != nil {
			return f, err
		}
		_, err = OpenBucket(ctx, url.Scheme+"://"+url.Host)
		if err != nil {
			return f, fmt.Errorf("gr4j: error when checking OutputFile location: %v", err)
		}
		return f, nil
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("gr4j: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}

// checkForcingFile makes sure that the forcing file is specified, expands
// any environment variables, and downloads it if it is remote.
func checkForcingFile(ctx context.Context, f string, log logrus.FieldLogger) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify a forcing file configuration variable (for example: ForcingFile="forcing.csv")`)
	}
	return maybeDownload(ctx, os.ExpandEnv(f), log)
}

// parameters returns the model parameters specified by cfg. If
// the ParameterFile variable is set, the parameters are read from that file.
// Otherwise, they are read from the Parameters.* variables.
func parameters(ctx context.Context, cfg *viper.Viper, log logrus.FieldLogger) (gr4j.Parameters, error) {
	if f := os.ExpandEnv(cfg.GetString("ParameterFile")); f != "" {
		f, err := maybeDownload(ctx, f, log)
		if err != nil {
			return gr4j.Parameters{}, err
		}
		return ReadParameters(f)
	}
	p := gr4j.Parameters{
		ProductionStoreCapacity: cfg.GetFloat64("Parameters.ProductionStoreCapacity"),
		ExchangeCoefficient:     cfg.GetFloat64("Parameters.ExchangeCoefficient"),
		RoutingStoreCapacity:    cfg.GetFloat64("Parameters.RoutingStoreCapacity"),
		Days:                    cfg.GetFloat64("Parameters.Days"),
		ProductionStoreContent:  cfg.GetFloat64("Parameters.ProductionStoreContent"),
		RoutingStoreContent:     cfg.GetFloat64("Parameters.RoutingStoreContent"),
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// ReadParameters reads model parameters from a JSON file (if the
// file name ends in ".json") or a TOML file (if the file name ends
// in ".toml") and checks that they are valid.
func ReadParameters(fileName string) (gr4j.Parameters, error) {
	var p gr4j.Parameters
	f, err := os.Open(fileName)
	if err != nil {
		return p, fmt.Errorf("gr4jutil: opening parameter file: %v", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".json":
		d := json.NewDecoder(f)
		d.DisallowUnknownFields()
		if err := d.Decode(&p); err != nil {
			return p, fmt.Errorf("gr4jutil: reading parameter file %s: %v", fileName, err)
		}
	case ".toml":
		md, err := toml.DecodeReader(f, &p)
		if err != nil {
			return p, fmt.Errorf("gr4jutil: reading parameter file %s: %v", fileName, err)
		}
		if u := md.Undecoded(); len(u) > 0 {
			return p, fmt.Errorf("gr4jutil: reading parameter file %s: unknown keys %v", fileName, u)
		}
	default:
		return p, fmt.Errorf("gr4jutil: parameter file %s has invalid extension '%s'; "+
			"it should be .json or .toml", fileName, ext)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("gr4jutil: parameter file %s: %v", fileName, err)
	}
	return p, nil
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		if v == "" {
			return make(map[string]string), nil
		}
		b := bytes.NewBuffer([]byte(v))
		d := json.NewDecoder(b)
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("gr4jutil: parsing configuration variable %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("gr4jutil: invalid type for configuration variable %s: %#v", varName, i)
	}
}
