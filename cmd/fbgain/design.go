package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	"github.com/san-kum/fbgain/internal/config"
	"github.com/san-kum/fbgain/internal/experiment"
	"github.com/san-kum/fbgain/internal/export"
	"github.com/san-kum/fbgain/internal/place"
	"github.com/san-kum/fbgain/internal/viz"
	"github.com/spf13/cobra"
)

func runPlace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	d, err := design(cmd.OutOrStdout(), cfg)
	if err != nil {
		return err
	}
	fmt.Println(viz.Report(viz.DefaultStyles, d))

	if polePlot != "" {
		open, err := place.Eigenvalues(d.System.A)
		if err != nil {
			return err
		}
		p, err := export.PoleMap(open, d.Achieved)
		if err != nil {
			return err
		}
		if err := export.Save(p, polePlot, 0, 0); err != nil {
			return err
		}
		fmt.Printf("pole map written to %s\n", polePlot)
	}
	return nil
}

// design wraps experiment.FromConfig, printing "uncontrollable" to w the way
// the default command does.
func design(w io.Writer, cfg *config.Config) (*experiment.Design, error) {
	d, err := experiment.FromConfig(cfg, logger)
	if errors.Is(err, place.ErrUncontrollable) {
		fmt.Fprintln(w, "uncontrollable")
		logger.Debug("placement aborted", "error", err)
		return nil, errReported
	}
	return d, err
}

func runTune(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("tune needs an interactive terminal")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	tuner, err := viz.NewTuner(cfg, logger)
	if err != nil {
		if errors.Is(err, place.ErrUncontrollable) {
			fmt.Fprintln(cmd.OutOrStdout(), "uncontrollable")
			return errReported
		}
		return err
	}

	final, err := viz.RunTuner(tuner)
	if err != nil {
		return err
	}
	fmt.Printf("poles: %s\n", viz.FormatPoles(final))
	if d := tuner.Design(); d != nil {
		fmt.Printf("gain:  %.6g\n", d.GainRow())
	}

	if outPath != "" {
		cfg.Poles = config.FormatPoles(final)
		if err := config.Save(outPath, cfg); err != nil {
			return err
		}
		fmt.Printf("design saved to %s\n", outPath)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	models := []string{config.ModelRLC, config.ModelTransferFunction}
	if len(args) == 1 {
		models = args
	}
	for _, m := range models {
		presets := config.ListPresets(m)
		if len(presets) == 0 {
			fmt.Printf("no presets for model: %s\n", m)
			continue
		}
		fmt.Printf("presets for %s:\n", m)
		for _, name := range presets {
			p := config.GetPreset(m, name)
			fmt.Printf("  %-14s poles %v\n", name, p.Poles)
		}
	}
	return nil
}

// watchDebounce absorbs the burst of events editors emit for one save.
const watchDebounce = 200 * time.Millisecond

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// watch the directory: editors often replace the file on save
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	placeFile(path)
	fmt.Printf("watching %s (ctrl+c to stop)\n", path)

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			logger.Debug("design file changed", "op", ev.Op.String())
			timer = time.After(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-timer:
			timer = nil
			placeFile(path)
		}
	}
}

func placeFile(path string) {
	cfg, err := config.Load(path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logger.Error("invalid design file", "path", path, "error", err)
		return
	}

	d, err := experiment.FromConfig(cfg, logger)
	switch {
	case errors.Is(err, place.ErrUncontrollable):
		fmt.Println("uncontrollable")
	case err != nil:
		logger.Error("placement failed", "error", err)
	default:
		fmt.Println(viz.Report(viz.DefaultStyles, d))
	}
}
