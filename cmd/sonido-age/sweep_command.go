package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-age/classifier"
	"github.com/RyanBlaney/sonido-age/logging"
	"github.com/RyanBlaney/sonido-age/report"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	var flags overrides
	var ks []int
	var trials int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Classify the test samples for every k and distance option",
		RunE: func(cmd *cobra.Command, args []string) error {
			if trials < 1 {
				return fmt.Errorf("--trials must be positive, got %d", trials)
			}
			for _, k := range ks {
				if k < 1 {
					return fmt.Errorf("--ks values must be positive, got %d", k)
				}
			}

			cfg, err := ctx.loadConfig(cmd, &flags)
			if err != nil {
				return err
			}

			closeLog, err := setupLogging(cfg, "test_cases_knn", ctx.noColor)
			if err != nil {
				return err
			}
			defer closeLog()

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			startMetrics(runCtx, cfg)

			out := cmd.OutOrStdout()
			baseSeed := cfg.Data.Seed
			results := make([][]*classifier.Report, 0, trials)

			for trial := 0; trial < trials; trial++ {
				// every trial draws a fresh split
				if baseSeed != 0 {
					cfg.Data.Seed = baseSeed + int64(trial)
				}
				logging.Info("Starting sweep trial", logging.Fields{
					"trial":  trial + 1,
					"trials": trials,
				})

				driver, err := buildDriver(runCtx, cfg, out)
				if err != nil {
					return err
				}
				reports, err := driver.Sweep(runCtx, ks, classifier.DefaultVariants())
				if err != nil {
					return err
				}
				results = append(results, reports)
			}

			if trials == 1 {
				_, err = fmt.Fprintln(out, report.Sweep(results[0]))
			} else {
				_, err = fmt.Fprintln(out, report.Trials(results))
			}
			return err
		},
	}

	flags.register(cmd.Flags(), false)
	cmd.Flags().IntSliceVar(&ks, "ks", classifier.DefaultSweepKs, "Neighbour counts to sweep")
	cmd.Flags().IntVar(&trials, "trials", 1, "Repeat the sweep over this many fresh stratified splits")
	return cmd
}
