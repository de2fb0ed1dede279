package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/edge-ai/go-bench/harness"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions carries flag state shared by all subcommands.
type rootOptions struct {
	configFile string
	verbose    bool
	config     harness.Config
	flags      *pflag.FlagSet
}

// resolveConfig merges the config file (when given) with explicitly set
// flags; flags win.
func (o *rootOptions) resolveConfig() error {
	fromFlags := o.config
	if o.configFile != "" {
		loaded, err := harness.LoadConfig(o.configFile)
		if err != nil {
			return err
		}
		o.config = loaded

		flagged := map[string]func(){
			"model":      func() { o.config.ModelPath = fromFlags.ModelPath },
			"image":      func() { o.config.ImagePath = fromFlags.ImagePath },
			"iterations": func() { o.config.Iterations = fromFlags.Iterations },
			"warmup":     func() { o.config.WarmupRuns = fromFlags.WarmupRuns },
			"workers":    func() { o.config.Workers = fromFlags.Workers },
			"output":     func() { o.config.OutputDir = fromFlags.OutputDir },
			"input-size": func() { o.config.InputSize = fromFlags.InputSize },
		}
		for name, apply := range flagged {
			if o.flags.Changed(name) {
				apply()
			}
		}
	}
	return o.config.Validate()
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	if o.verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{config: harness.DefaultConfig()}

	root := &cobra.Command{
		Use:           "mlbench",
		Short:         "Benchmark ONNX image classification with per-operation resource tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	opts.flags = flags
	flags.StringVarP(&opts.configFile, "config", "c", "", "path to YAML benchmark config")
	flags.StringVar(&opts.config.ModelPath, "model", opts.config.ModelPath, "path to ONNX model file")
	flags.StringVar(&opts.config.ImagePath, "image", opts.config.ImagePath, "path to test image")
	flags.IntVar(&opts.config.Iterations, "iterations", opts.config.Iterations, "number of measured iterations")
	flags.IntVar(&opts.config.WarmupRuns, "warmup", opts.config.WarmupRuns, "number of unmeasured warmup runs")
	flags.IntVar(&opts.config.Workers, "workers", opts.config.Workers, "worker goroutines for concurrent mode")
	flags.StringVar(&opts.config.OutputDir, "output", opts.config.OutputDir, "output directory for CSV files")
	flags.IntVar(&opts.config.InputSize, "input-size", opts.config.InputSize, "square model input resolution")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newBenchCmd(opts))
	return root
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the instrumented pipeline once and print the metrics report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolveConfig(); err != nil {
				return err
			}
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			runner := harness.NewRunner(opts.config, logger)
			report, prediction, err := runner.RunOnce()
			report.Write(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Predicted Class Index: %d\n", prediction.ClassIndex)
			fmt.Fprintf(cmd.OutOrStdout(), "Confidence Score: %.4f\n", prediction.Confidence)
			fmt.Fprintf(cmd.OutOrStdout(), "GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
			return nil
		},
	}
}

func newBenchCmd(opts *rootOptions) *cobra.Command {
	var concurrent bool

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run repeated iterations and write per-operation CSV files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolveConfig(); err != nil {
				return err
			}
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			runner := harness.NewRunner(opts.config, logger)
			if concurrent {
				return runner.BenchConcurrent(cmd.OutOrStdout())
			}
			return runner.Bench(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&concurrent, "concurrent", false, "run the concurrent preprocessing benchmark instead")
	return cmd
}
