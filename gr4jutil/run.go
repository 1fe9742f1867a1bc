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
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/gr4j"
	"github.com/spf13/cobra"
)

// newLogger returns a logger that writes to w.
func newLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.Out = w
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	}
	log.Level = logrus.InfoLevel
	return log
}

// readForcing reads the forcing data in the given file.
// logStatus logs the status messages sent on the returned channel, at
// most one per interval. The returned function closes the channel and
// waits for the logger to finish.
func logStatus(log logrus.FieldLogger, interval time.Duration) (chan *gr4j.SimulationStatus, func()) {
	c := make(chan *gr4j.SimulationStatus)
	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for msg := range c {
			select {
			case <-ticker.C:
				log.Info(msg.String())
			default:
				runtime.Gosched()
			}
		}
	}()
	return c, func() {
		close(c)
		<-done
	}
}

func readForcing(forcingFile string) (*gr4j.Forcing, error) {
	f, err := os.Open(forcingFile)
	if err != nil {
		return nil, fmt.Errorf("gr4j: problem opening forcing file: %v", err)
	}
	defer f.Close()
	return gr4j.ReadForcing(f)
}

// Run runs the model.
//
// CobraCommand is the cobra.Command instance where Run is called from.
// It is needed to print certain outputs to the web interface.
//
// LogFile is the path to the desired logfile location.
//
// OutputFile is the path to the desired output file location. Files
// ending in ".xlsx" are saved as spreadsheets, and all other files
// are saved in comma-separated format.
//
// PlotFile is the path where a hydrograph should be saved. If it is empty,
// no hydrograph is created.
//
// OutputVariables specifies which model variables should be included in the
// output file.
//
// ForcingFile is the path to the local forcing data file.
//
// params are the model parameters. addInit, addRun, and addCleanup
// specify functions beyond the default functions to run at initialization,
// runtime, and cleanup, respectively.
//
// Any of LogFile, OutputFile, and PlotFile can be blob storage locations,
// in which case the files are uploaded after the simulation finishes.
func Run(CobraCommand *cobra.Command, LogFile, OutputFile, PlotFile string, OutputVariables map[string]string,
	ForcingFile string, params gr4j.Parameters, addInit, addRun, addCleanup []gr4j.SimulationManipulator) (*gr4j.Simulation, error) {

	startTime := time.Now()

	var upload, uploadLog uploader

	// Start a function to receive and print log messages.
	logfile, err := os.Create(uploadLog.maybeUpload(LogFile))
	if err != nil {
		return nil, fmt.Errorf("gr4j: problem creating log file: %v", err)
	}
	var out io.Writer = os.Stdout
	if CobraCommand != nil {
		out = CobraCommand.OutOrStdout()
	}
	log := newLogger(io.MultiWriter(out, logfile))
	cLog, stopStatus := logStatus(log, 2*time.Second)

	logClosed := false
	closeLog := func() error {
		if logClosed {
			return nil
		}
		logClosed = true
		stopStatus()
		return logfile.Close()
	}
	defer closeLog()

	log.Info("Parsing output variable expressions...")
	o, err := gr4j.NewOutputter(upload.maybeUpload(OutputFile), OutputVariables, nil)
	if err != nil {
		return nil, err
	}
	if PlotFile != "" {
		PlotFile = upload.maybeUpload(PlotFile)
	}
	if upload.err != nil {
		return nil, upload.err
	}

	log.WithField("file", ForcingFile).Info("Reading forcing data...")
	forcing, err := readForcing(ForcingFile)
	if err != nil {
		return nil, err
	}

	s := &gr4j.Simulation{
		InitFuncs: []gr4j.SimulationManipulator{
			gr4j.UseForcing(forcing),
			gr4j.CheckForcing(),
			gr4j.NewModel(params),
			o.CheckOutputVars(),
		},
		RunFuncs: []gr4j.SimulationManipulator{
			gr4j.Advance(),
			gr4j.Log(cLog),
		},
		CleanupFuncs: []gr4j.SimulationManipulator{
			o.Output(),
		},
	}
	if PlotFile != "" {
		s.CleanupFuncs = append(s.CleanupFuncs, gr4j.PlotHydrograph(PlotFile))
	}
	s.CleanupFuncs = append(s.CleanupFuncs, upload.uploadOutput())
	s.InitFuncs = append(s.InitFuncs, addInit...)
	s.RunFuncs = append(s.RunFuncs, addRun...)
	s.CleanupFuncs = append(s.CleanupFuncs, addCleanup...)

	log.WithField("timesteps", forcing.Len()).Info("Initializing model...")
	if err = s.Init(); err != nil {
		return nil, err
	}
	log.Info("Running simulation...")
	if err = s.Run(); err != nil {
		return nil, err
	}
	log.WithField("file", OutputFile).Info("Writing output...")
	if err = s.Cleanup(); err != nil {
		return nil, err
	}

	sum, err := s.Summarize()
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"rainfall":  sum.TotalRainfall,
		"actualET":  sum.TotalActualET,
		"exchange":  sum.TotalActualExchange,
		"flow":      sum.TotalFlow,
		"residual":  sum.BalanceResidual,
		"timesteps": sum.Timesteps,
	}).Info("Water balance [mm]")
	if sum.Fit != nil {
		log.WithFields(logrus.Fields{
			"NSE": sum.Fit.NSE,
			"R2":  sum.Fit.RSquared,
			"MB":  sum.Fit.MB,
		}).Info("Fit to observations")
	}
	log.Infof("GR4J completed successfully in %v.", time.Since(startTime))

	if err = closeLog(); err != nil {
		return nil, fmt.Errorf("gr4j: problem closing log file: %v", err)
	}
	if err = uploadLog.upload(context.TODO()); err != nil {
		return nil, err
	}
	return s, nil
}

// Summarize runs a simulation over the forcing data in ForcingFile
// without saving any output and returns a summary of the results.
func Summarize(ForcingFile string, params gr4j.Parameters) (*gr4j.Summary, error) {
	forcing, err := readForcing(ForcingFile)
	if err != nil {
		return nil, err
	}
	s := &gr4j.Simulation{
		InitFuncs: []gr4j.SimulationManipulator{
			gr4j.UseForcing(forcing),
			gr4j.CheckForcing(),
			gr4j.NewModel(params),
		},
		RunFuncs: []gr4j.SimulationManipulator{
			gr4j.Advance(),
		},
	}
	if err = s.Init(); err != nil {
		return nil, err
	}
	if err = s.Run(); err != nil {
		return nil, err
	}
	return s.Summarize()
}
