package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-age/report"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags overrides

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Extract features, then classify the training and test samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig(cmd, &flags)
			if err != nil {
				return err
			}

			closeLog, err := setupLogging(cfg, "knn", ctx.noColor)
			if err != nil {
				return err
			}
			defer closeLog()

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			startMetrics(runCtx, cfg)

			out := cmd.OutOrStdout()
			driver, err := buildDriver(runCtx, cfg, out)
			if err != nil {
				return err
			}

			rep, err := driver.Run(runCtx, cfg.ClassifierOptions())
			if err != nil {
				return err
			}

			_, err = out.Write([]byte(report.Run(rep) + "\n"))
			return err
		},
	}

	flags.register(cmd.Flags(), true)
	return cmd
}
