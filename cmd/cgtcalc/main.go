package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ukcgt/cgtcalc/app"
	"github.com/ukcgt/cgtcalc/config"
	"github.com/ukcgt/cgtcalc/log"
)

type flags struct {
	verbose   bool
	output    string
	format    string
	logFormat string
	full      bool
	humanize  bool
	jobs      int
}

func command(cfg config.Config, errPrinter log.ErrorPrinter) *cobra.Command {
	f := flags{}
	ok := true

	cmd := &cobra.Command{
		Use:   "cgtcalc [flags] <input file>",
		Short: "Calculate UK capital gains tax from a ledger of share transactions",
		Long: "Reads BUY, SELL, CAPRETURN, DIVIDEND, SPLIT and UNSPLIT records and matches\n" +
			"disposals under the same day, bed and breakfast and Section 104 rules.",
		Version:       app.CgtCalcVersion,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := cfg.LogLevel
			if f.verbose {
				level = "debug"
			}
			logger, err := log.New(os.Stderr, level, f.logFormat)
			if err != nil {
				return err
			}

			format, err := app.ParseOutputFormat(f.format)
			if err != nil {
				return err
			}
			options := app.NewOptions()
			options.Format = format
			options.RenderFullValues = f.full
			options.Humanize = f.humanize
			options.Concurrency = f.jobs

			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			readers := []app.DescribedReader{{Desc: args[0], Reader: in}}
			if f.output == "" {
				ok = app.RunCgtAppToConsole(readers, options, logger, errPrinter)
				return nil
			}

			fp, err := os.Create(f.output)
			if err != nil {
				return fmt.Errorf("error opening output file %q: %w", f.output, err)
			}
			defer fp.Close()
			ok = app.RunCgtAppToWriter(fp, readers, options, logger, errPrinter)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().StringVarP(&f.format, "format", "f", cfg.Format, "Report format: text or table")
	cmd.Flags().StringVar(&f.logFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	cmd.Flags().BoolVar(&f.full, "full-values", cfg.FullValues,
		"Print full precision values in table output")
	cmd.Flags().BoolVar(&f.humanize, "humanize", cfg.Humanize,
		"Group digits in thousands in table output")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", runtime.GOMAXPROCS(0),
		"Number of assets to calculate concurrently")

	cmd.PostRunE = func(cmd *cobra.Command, args []string) error {
		if !ok {
			return errCalculationFailed
		}
		return nil
	}
	return cmd
}

var errCalculationFailed = errors.New("calculation failed")

func main() {
	errPrinter := &log.StderrErrorPrinter{}
	cfg, err := config.Load()
	if err != nil {
		errPrinter.Ln("Error:", err)
		os.Exit(1)
	}

	if err := command(cfg, errPrinter).Execute(); err != nil {
		// The app has already reported its own failures.
		if !errors.Is(err, errCalculationFailed) {
			errPrinter.Ln("Error:", err)
		}
		os.Exit(1)
	}
}
