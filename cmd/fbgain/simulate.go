package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fbgain/internal/config"
	"github.com/san-kum/fbgain/internal/dynamo"
	"github.com/san-kum/fbgain/internal/experiment"
	"github.com/san-kum/fbgain/internal/integrators"
	"github.com/san-kum/fbgain/internal/storage"
	"github.com/san-kum/fbgain/internal/viz"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var metricOrder = []string{
	"settling_time", "overshoot", "control_effort", "peak_control", "stability", "stored_energy",
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	d, err := design(cmd.OutOrStdout(), cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", cfg.Model)
	start := time.Now()

	result, err := experiment.Simulate(cmd.Context(), cfg, d, logger, &progress{span: cfg.Simulation.Duration})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("gain:  %.6g\n\n", d.GainRow())

	y := result.Output(0)
	fmt.Println(asciigraph.Plot(viz.Downsample(y, 70),
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption(fmt.Sprintf("y0 over %gs", cfg.Simulation.Duration)),
	))
	fmt.Printf("\nu  %s\n", viz.Sparkline(controlSeries(result), 70))

	fmt.Println("\nmetrics:")
	fmt.Println(viz.MetricsTable(viz.DefaultStyles, result.Metrics, metricOrder))

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	fingerprint, err := storage.Fingerprint(cfg)
	if err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Model:       cfg.Model,
		Fingerprint: fingerprint,
		Poles:       config.FormatPoles(d.Poles),
		Achieved:    config.FormatPoles(d.Achieved),
		Gain:        d.GainRow(),
		Prescale:    d.Prescale,
		Dt:          cfg.Simulation.Dt,
		Duration:    cfg.Simulation.Duration,
		Integrator:  cfg.Simulation.Integrator,
		Controller:  cfg.Simulation.Controller,
	}, result)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

// progress logs the state norm every tenth of the run at debug level.
type progress struct {
	span float64
	next float64
}

func (p *progress) OnStep(x dynamo.State, u dynamo.Control, t float64) {
	if t < p.next {
		return
	}
	logger.Debug("progress", "t", t, "norm", x.Norm(), "u", u)
	p.next += p.span / 10
}

func controlSeries(result *dynamo.Result) []float64 {
	u := make([]float64, len(result.Controls))
	for i, c := range result.Controls {
		if len(c) > 0 {
			u[i] = c[0]
		}
	}
	return u
}

type comparison struct {
	name    string
	steps   int
	elapsed time.Duration
	final   float64
	err     error
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	d, err := design(cmd.OutOrStdout(), cfg)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	// the reference is RK4 at a tenth of the step
	ref := *cfg
	ref.Simulation.Integrator = "rk4"
	ref.Simulation.Dt = cfg.Simulation.Dt / 10
	ref.Simulation.Adaptive = false

	runs := make([]comparison, len(names)+1)
	g, ctx := errgroup.WithContext(cmd.Context())

	simulate := func(i int, name string, c *config.Config) {
		g.Go(func() error {
			start := time.Now()
			res, err := experiment.Simulate(ctx, c, d, logger)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			y := res.Output(0)
			runs[i] = comparison{
				name:    name,
				steps:   res.StepsTaken,
				elapsed: time.Since(start),
				final:   y[len(y)-1],
			}
			if len(res.Errors) > 0 {
				runs[i].err = res.Errors[0]
			}
			return nil
		})
	}

	for i, name := range names {
		if _, err := integrators.ByName(name); err != nil {
			return err
		}
		c := *cfg
		c.Simulation.Integrator = name
		simulate(i, name, &c)
	}
	simulate(len(names), "reference", &ref)

	if err := g.Wait(); err != nil {
		return err
	}

	reference := runs[len(names)].final
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INTEGRATOR\tSTEPS\tTIME\tFINAL y0\t|ERROR|\tSTATUS")
	for _, run := range runs {
		status := "ok"
		if run.err != nil {
			status = run.err.Error()
		}
		fmt.Fprintf(tw, "%s\t%d\t%v\t%.6g\t%.3g\t%s\n",
			run.name, run.steps, run.elapsed.Round(time.Microsecond), run.final, math.Abs(run.final-reference), status)
	}
	return tw.Flush()
}
