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
	"os"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/gr4j"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to GR4J.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "ForcingFile",
			usage: `
              ForcingFile is the path to a comma-separated file containing
              the daily forcing data. The file must have a header row and
              columns named 'date', 'rainfall' [mm], and 'pet' [mm]. An
              optional 'observed' column holds observed streamflow [mm]
              for evaluating the simulation. The path can include
              environment variables, and can be a URL (http://, https://)
              or a blob storage location (file://, gs://, or s3://).`,
			shorthand:  "f",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), summarizeCmd.Flags()},
		},
		{
			name: "ParameterFile",
			usage: `
              ParameterFile is the path to a JSON (.json) or TOML (.toml)
              file containing the model parameters, with the keys
              production_store_capacity, exchange_coefficient,
              routing_store_capacity, days, production_store_content, and
              routing_store_content. If it is empty, the Parameters.*
              options are used instead. Like ForcingFile, it can be a URL
              or blob storage location.`,
			shorthand:  "p",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), summarizeCmd.Flags()},
		},
		{
			name: "Parameters.ProductionStoreCapacity",
			usage: `
              Parameters.ProductionStoreCapacity is the maximum water content
              of the production store (X1) [mm].`,
			defaultVal: 350.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), summarizeCmd.Flags()},
		},
		{
			name: "Parameters.ExchangeCoefficient",
			usage: `
              Parameters.ExchangeCoefficient is the groundwater exchange
              coefficient (X2) [mm/day]. Positive values import water into
              the catchment and negative values export it.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), summarizeCmd.Flags()},
		},
		{
			name: "Parameters.RoutingStoreCapacity",
			usage: `
              Parameters.RoutingStoreCapacity is the maximum water content
              of the routing store (X3) [mm].`,
			defaultVal: 90.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), summarizeCmd.Flags()},
		},
		{
			name: "Parameters.Days",
			usage: `
              Parameters.Days is the unit hydrograph time base (X4) [days].`,
			defaultVal: 1.7,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), summarizeCmd.Flags()},
		},
		{
			name: "Parameters.ProductionStoreContent",
			usage: `
              Parameters.ProductionStoreContent is the initial water content
              of the production store [mm].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), summarizeCmd.Flags()},
		},
		{
			name: "Parameters.RoutingStoreContent",
			usage: `
              Parameters.RoutingStoreContent is the initial water content
              of the routing store [mm].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), summarizeCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile specifies the path to the desired output file
              location. Files ending in '.xlsx' are written as spreadsheets
              and all other files as comma-separated text. The path can
              include environment variables and can be a blob storage
              location.`,
			shorthand:  "o",
			defaultVal: "gr4j_output.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile specifies the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved in
              the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile specifies the path where a hydrograph of the simulated
              (and observed, if available) streamflow should be saved. The
              format is determined by the extension (e.g., .png, .svg, .pdf).
              If it is left blank, no hydrograph is created.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies which model variables should be included in the
              output file. Each output variable is defined by the desired name and an
              expression that can be used to calculate it
              (in the form VariableName = "Expression"). These expressions can utilize
              variables built into the model, as well as the functions 'exp(x)',
              'log(x)', 'max(x, y)', 'min(x, y)', and 'pow(x, y)'.
              The available variables are: ` + strings.Join(outputVariableNames(), ", ") + `.`,
			defaultVal: map[string]string{"Flow": "Flow"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GR4J")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func outputVariableNames() []string {
	names, _ := gr4j.OutputOptions()
	return names
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(summarizeCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("gr4j: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "gr4j",
	Short: "A daily rainfall-runoff model.",
	Long: `GR4J is a lumped conceptual rainfall-runoff model that simulates daily
streamflow from rainfall and potential evapotranspiration using four parameters.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GR4J_var' where 'var' is the
name of the variable to be set (with '.' replaced by '_'). Many configuration
variables are additionally allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of GR4J.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "GR4J v%s\n", gr4j.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that runs a simulation and saves the results.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run runs a GR4J simulation over the forcing data in ForcingFile and
saves the requested OutputVariables to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.TODO()
		log := newLogger(cmd.OutOrStdout())

		outputFile, err := checkOutputFile(ctx, Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		vars, err := GetStringMapString("OutputVariables", Cfg)
		if err != nil {
			return err
		}
		outputVars, err := checkOutputVars(vars)
		if err != nil {
			return err
		}
		forcingFile, err := checkForcingFile(ctx, Cfg.GetString("ForcingFile"), log)
		if err != nil {
			return err
		}
		params, err := parameters(ctx, Cfg, log)
		if err != nil {
			return err
		}

		_, err = Run(
			cmd,
			checkLogFile(os.ExpandEnv(Cfg.GetString("LogFile")), outputFile),
			outputFile,
			os.ExpandEnv(Cfg.GetString("PlotFile")),
			outputVars,
			forcingFile,
			params,
			nil, nil, nil,
		)
		return err
	},
	DisableAutoGenTag: true,
}

// summarizeCmd is a command that runs a simulation and prints a
// summary of the results.
var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a simulation.",
	Long: `summarize runs a GR4J simulation over the forcing data in ForcingFile
without saving any output, and prints the water balance and flow statistics.
If the forcing data includes observed streamflow, goodness-of-fit
statistics are printed as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.TODO()
		log := newLogger(cmd.OutOrStdout())

		forcingFile, err := checkForcingFile(ctx, Cfg.GetString("ForcingFile"), log)
		if err != nil {
			return err
		}
		params, err := parameters(ctx, Cfg, log)
		if err != nil {
			return err
		}
		sum, err := Summarize(forcingFile, params)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), sum)
		return nil
	},
	DisableAutoGenTag: true,
}
