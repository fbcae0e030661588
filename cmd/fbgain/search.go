package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/fbgain/internal/config"
	"github.com/san-kum/fbgain/internal/optim"
	"github.com/spf13/cobra"
)

var (
	reMin       float64
	reMax       float64
	imMax       float64
	gridSteps   int
	metric      string
	maxControl  float64
	maxOvershot float64
	topN        int
)

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&reMin, "re-min", -100, "most negative real part")
	cmd.Flags().Float64Var(&reMax, "re-max", -5, "least negative real part")
	cmd.Flags().Float64Var(&imMax, "im-max", 50, "largest imaginary part")
	cmd.Flags().IntVar(&gridSteps, "steps", 10, "grid points per axis")
	cmd.Flags().StringVar(&metric, "metric", "settling_time", "metric to minimise")
	cmd.Flags().Float64Var(&maxControl, "max-control", 0, "reject designs whose peak input exceeds this (0 disables)")
	cmd.Flags().Float64Var(&maxOvershot, "max-overshoot", 0, "reject designs whose overshoot exceeds this fraction (0 disables)")
	cmd.Flags().IntVar(&topN, "top", 5, "candidates to print")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if reMin >= reMax || reMax >= 0 {
		return fmt.Errorf("need re-min < re-max < 0, got %g and %g", reMin, reMax)
	}

	g := optim.NewGridSearch(
		optim.Linspace(reMin, reMax, gridSteps),
		optim.Linspace(0, imMax, gridSteps),
		metric,
	)
	if maxControl > 0 {
		g.Limits["peak_control"] = maxControl
	}
	if maxOvershot > 0 {
		g.Limits["overshoot"] = maxOvershot
	}

	fmt.Printf("searching %d pole pairs by %s...\n", gridSteps*gridSteps, metric)
	best, all, err := g.Search(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "POLES\tGAIN\t%s\tPEAK CONTROL\n", metric)
	for i, cand := range all {
		if i >= topN {
			break
		}
		fmt.Fprintf(tw, "%v\t%.6g\t%.6g\t%.6g\n",
			config.FormatPoles(cand.Poles), cand.Gain, cand.Score, cand.Metrics["peak_control"])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: %v (%d feasible)\n", config.FormatPoles(best.Poles), len(all))
	if outPath != "" {
		cfg.Poles = config.FormatPoles(best.Poles)
		if err := config.Save(outPath, cfg); err != nil {
			return err
		}
		fmt.Printf("design saved to %s\n", outPath)
	}
	return nil
}
