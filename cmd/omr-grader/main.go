package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/omr-grader/internal/config"
	"github.com/ironsheep/omr-grader/internal/pipeline"
	"github.com/ironsheep/omr-grader/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	// Global flags
	cfgPath string
	envFile string
	verbose bool

	// grade flags
	watch bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "omr-grader",
	Short: "Straighten and grade scanned questionnaire pages",
	Long: `omr-grader reads scanned questionnaire pages, straightens them, finds the
grade columns and question rows of each page and reports the grade marked
for every question.

Stages:
  crop    cut the answer rectangle out of raw scans
  align   straighten pages and save the band registry
  grade   detect ink marks using the saved bands
  run     execute the stages listed in pipeline.steps`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = newLogger(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var cropCmd = &cobra.Command{
	Use:   "crop",
	Short: "Crop the answer rectangle out of every raw page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(cmd, (*pipeline.Pipeline).Crop)
	},
}

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Straighten pages and write the band registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(cmd, (*pipeline.Pipeline).Align)
	},
}

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade aligned pages using the band registry",
	Long: `Grade every aligned page listed in the band registry and print one line
per question. With --watch the pages are graded again each time the
registry is rewritten, until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !watch {
			return runStage(cmd, (*pipeline.Pipeline).Grade)
		}
		p, err := newPipeline(cmd)
		if err != nil {
			return err
		}
		return p.WatchGrade(cmd.Context())
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the stages listed in pipeline.steps",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd)
		if err != nil {
			return err
		}
		_, err = p.Run(cmd.Context())
		return err
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the page inspection tools over MCP on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := pipeline.New(cfg, logger)
		if err != nil {
			return err
		}
		return server.New(p, logger, Version).Run(cmd.Context())
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPath
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "omr-grader %s\n", Version)
		fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "Configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before the configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	gradeCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Grade again whenever the band registry changes")

	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(cropCmd)
	rootCmd.AddCommand(alignCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// newPipeline builds a pipeline that prints its report to the command's output.
func newPipeline(cmd *cobra.Command) (*pipeline.Pipeline, error) {
	return pipeline.New(cfg, logger, pipeline.WithOutput(cmd.OutOrStdout()))
}

// runStage runs one batch stage and writes the metrics textfile afterwards.
func runStage(cmd *cobra.Command, stage func(*pipeline.Pipeline, context.Context) (pipeline.Summary, error)) error {
	p, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	_, err = stage(p, cmd.Context())
	if merr := p.WriteMetrics(); merr != nil {
		logger.Error("failed to write metrics", zap.Error(merr))
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
