package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fbgain/internal/analysis"
	"github.com/san-kum/fbgain/internal/config"
	"github.com/san-kum/fbgain/internal/dynamo"
	"github.com/san-kum/fbgain/internal/export"
	"github.com/san-kum/fbgain/internal/storage"
	"github.com/san-kum/fbgain/internal/viz"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tMODEL\tPOLES\tGAIN\tCONTROLLER\tTIMESTAMP")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.6g\t%s\t%s\n",
			run.ID, run.Model, strings.Join(run.Poles, " "), run.Gain, run.Controller,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func loadColumn(runID, name string) (*storage.RunMetadata, *storage.Trace, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	trace, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	data := trace.Column(name)
	if data == nil {
		return nil, nil, nil, fmt.Errorf("run %s has no column %q (available: %v)", runID, name, trace.Header)
	}
	return meta, trace, data, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, _, data, err := loadColumn(args[0], column)
	if err != nil {
		return err
	}

	fmt.Printf("%s  poles %s  gain %.6g\n\n", meta.ID, strings.Join(meta.Poles, " "), meta.Gain)
	fmt.Println(asciigraph.Plot(viz.Downsample(data, 80),
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s over %gs", column, meta.Duration)),
	))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, trace, data, err := loadColumn(args[0], column)
	if err != nil {
		return err
	}
	if len(trace.Times) < 2 {
		return fmt.Errorf("run %s has too few samples", meta.ID)
	}

	// sample rate from the mean spacing; adaptive runs are not uniform
	span := trace.Times[len(trace.Times)-1] - trace.Times[0]
	rate := float64(len(trace.Times)-1) / span
	measured := analysis.DominantFrequency(data, rate)

	fmt.Printf("run:               %s\n", meta.ID)
	fmt.Printf("samples:           %d at %.6g Hz\n", len(data), rate)
	fmt.Printf("dominant frequency %.4f Hz\n", measured)

	achieved, err := config.ParsePoles(meta.Achieved)
	if err != nil {
		return err
	}
	for _, p := range achieved {
		if imag(p) <= 0 {
			continue
		}
		fmt.Printf("pole %-14s damped frequency %.4f Hz\n", config.FormatPole(p), analysis.DampedFrequency(p))
	}

	fmt.Println("\nmetrics:")
	for _, name := range metricOrder {
		if v, ok := meta.Metrics[name]; ok {
			fmt.Printf("  %-16s %.6g\n", name, v)
		}
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	if outPath == "" {
		outPath = runID + ".png"
	}

	if strings.EqualFold(filepath.Ext(outPath), ".json") {
		return exportJSON(runID)
	}

	meta, trace, data, err := loadColumn(runID, column)
	if err != nil {
		return err
	}
	p, err := export.ResponsePlot(
		fmt.Sprintf("%s  poles %s", meta.ID, strings.Join(meta.Poles, " ")),
		column,
		export.Series{Name: column, X: trace.Times, Y: data},
	)
	if err != nil {
		return err
	}
	if err := export.Save(p, outPath, 0, 0); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

func exportJSON(runID string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	data := &export.Data{
		Model:      meta.Model,
		Poles:      meta.Poles,
		Gain:       meta.Gain,
		Prescale:   meta.Prescale,
		Integrator: meta.Integrator,
		Controller: meta.Controller,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
	}
	data.Attach(resultFromTrace(trace, meta.Metrics))

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteJSON(f, data); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

// resultFromTrace regroups stored columns into per-sample rows.
func resultFromTrace(trace *storage.Trace, metrics map[string]float64) *dynamo.Result {
	res := &dynamo.Result{Times: trace.Times, Metrics: metrics}
	if len(trace.Times) > 0 {
		res.StepsTaken = len(trace.Times) - 1
	}
	for i := range trace.Times {
		var x dynamo.State
		var y []float64
		var u dynamo.Control
		for _, name := range trace.Header {
			v := trace.Columns[name][i]
			switch name[0] {
			case 'x':
				x = append(x, v)
			case 'y':
				y = append(y, v)
			case 'u':
				u = append(u, v)
			}
		}
		res.States = append(res.States, x)
		if y != nil {
			res.Outputs = append(res.Outputs, y)
		}
		// the last row carries a placeholder control
		if u != nil && i < len(trace.Times)-1 {
			res.Controls = append(res.Controls, u)
		}
	}
	return res
}
