// Command anchorci provisions the anchorpy toolchain on a fresh machine and
// runs the test suite, one step at a time.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tak3r/anchorpy/internal/config"
	"github.com/tak3r/anchorpy/internal/runner"
	"github.com/tak3r/anchorpy/internal/trigger"
	"github.com/tak3r/anchorpy/pkg/pipeline"
	"github.com/tak3r/anchorpy/pkg/pipeline/drawer"
	"github.com/tak3r/anchorpy/pkg/pipeline/measure"
	"github.com/tak3r/anchorpy/pkg/pipeline/model"
)

var (
	workspace    string
	eventName    string
	runGraphFile string
	graphOutFile string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:          "anchorci",
	Short:        "Sequential provisioning and test runner",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var runCmd = &cobra.Command{
	Use:   "run [pipeline.yml]",
	Short: "Execute a pipeline against a fresh environment",
	Long: `The run command executes every step of the pipeline in declaration order.
The first failing step aborts the remainder; the exit code is 0 iff every
step succeeded. Without an argument the built-in anchorpy provisioning
pipeline is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadPipeline(args)
		if err != nil {
			return err
		}

		event, err := resolveEvent()
		if err != nil {
			if eventName == "" && errors.Is(err, trigger.ErrUnknownEvent) {
				log.WithError(err).Info("unsupported trigger event, skipping")
				fmt.Fprintf(cmd.OutOrStdout(), "%s: skipped (unsupported trigger event)\n", cfg.Name)

				return nil
			}

			return err
		}
		if !event.Matches(cfg.On) {
			log.WithFields(log.Fields{"pipeline": cfg.Name, "event": event}).Info("pipeline not triggered by event, skipping")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: skipped (not triggered on %s)\n", cfg.Name, event)

			return nil
		}

		msr := measure.NewDefaultMeasure()
		opts := []model.PipelineOption{measure.PipelineMeasure(msr)}
		if runGraphFile != "" {
			opts = append(opts, drawer.PipelineDrawer(drawer.NewSVGDrawer(runGraphFile), msr))
		}

		pipe, err := pipeline.New(cfg.Build(), opts...)
		if err != nil {
			return errors.Wrap(err, "error assembling pipeline")
		}

		ws := workspace
		if ws == "" {
			if ws, err = os.Getwd(); err != nil {
				return errors.Wrap(err, "error getting current directory")
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		report, runErr := pipe.Run(ctx, pipeline.HostEnvironment(ws), &runner.ShellRunner{})
		if report != nil {
			printReport(cmd.OutOrStdout(), cfg.Name, event, report)
		}

		return runErr
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [pipeline.yml]",
	Short: "Parse and validate a pipeline definition without executing it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadPipeline(args)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d steps, ok\n", cfg.Name, len(cfg.Steps))

		return nil
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph [pipeline.yml]",
	Short: "Render the pipeline step graph without executing it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadPipeline(args)
		if err != nil {
			return err
		}

		d := drawer.NewSVGDrawer(graphOutFile)
		if _, err := pipeline.New(cfg.Build(), drawer.PipelineDrawer(d, nil)); err != nil {
			return errors.Wrap(err, "error assembling pipeline")
		}
		if err := d.Draw(); err != nil {
			return errors.Wrap(err, "error rendering pipeline graph")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", graphOutFile)

		return nil
	},
}

func loadPipeline(args []string) (*config.Pipeline, error) {
	if len(args) == 0 {
		return config.Default(), nil
	}

	return config.Load(args[0])
}

func resolveEvent() (trigger.Event, error) {
	if eventName != "" {
		return trigger.Parse(eventName)
	}

	return trigger.Resolve(os.Getenv)
}

func printReport(w io.Writer, name string, event trigger.Event, report *pipeline.RunReport) {
	fmt.Fprintf(w, "%s (%s)\n", name, event)
	for _, res := range report.Steps {
		switch res.Status {
		case model.StatusPassed:
			fmt.Fprintf(w, "  ok    %-24s %s\n", res.Name, res.Duration)
		case model.StatusFailed:
			fmt.Fprintf(w, "  FAIL  %-24s %s (exit %d)\n", res.Name, res.Duration, res.ExitCode)
			if res.Stderr != "" {
				fmt.Fprint(w, res.Stderr)
			}
		case model.StatusSkipped:
			fmt.Fprintf(w, "  skip  %s\n", res.Name)
		}
	}

	if report.Passed() {
		fmt.Fprintf(w, "pass (%s)\n", report.Duration)
	} else {
		fmt.Fprintf(w, "fail at %q (%s)\n", report.Failed.Name, report.Duration)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	runCmd.Flags().StringVar(&workspace, "workspace", "", "directory steps execute in (default: current directory)")
	runCmd.Flags().StringVar(&eventName, "event", "", "trigger event (push or pull-request; default: detected from CI environment)")
	runCmd.Flags().StringVar(&runGraphFile, "graph-file", "", "also render the run graph to this file")
	graphCmd.Flags().StringVar(&graphOutFile, "graph-file", "pipeline.svg", "file to render the pipeline graph to")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(graphCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
