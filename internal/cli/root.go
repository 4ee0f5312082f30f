package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/turtacn/Hierarch/internal/light"
	"github.com/turtacn/Hierarch/internal/monitor"
	"github.com/turtacn/Hierarch/internal/orchestrator"
	"github.com/turtacn/Hierarch/pkg/consts"
	"github.com/turtacn/Hierarch/pkg/fsm"
	"github.com/turtacn/Hierarch/pkg/logger"
	"github.com/turtacn/Hierarch/pkg/protocol"
	"gopkg.in/yaml.v3"
)

// Version is stamped at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

var (
	cfgFile     string
	metricsPort string
)

var rootCmd = &cobra.Command{
	Use:          "hierarch",
	Short:        "Hierarch: a hierarchical state machine engine",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the light state machine through a scripted scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		cfg, err := protocol.Load(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("metrics-port") {
			cfg.Observability.MetricsPort = metricsPort
		}

		// 2. Init Logger & Metrics. Stdout is reserved for the report.
		logger.InitLoggerTo(cmd.ErrOrStderr(), cfg.Observability.LogLevel, cfg.Observability.LogFormat)
		var observer fsm.Observer
		if cfg.Observability.MetricsPort != "" {
			observer = monitor.InitMetrics(cfg.Observability.MetricsPort)
		}

		logger.Log.Info("Booting Hierarch engine...", "engine", cfg.Engine.Name, "mode", cfg.Engine.Mode)

		// 3. Run Scenario
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		report, err := orchestrator.NewRunner(cfg, observer).Run(ctx)
		if report != nil {
			if werr := writeReport(cmd.OutOrStdout(), report); werr != nil {
				return werr
			}
		}
		return err
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the light state hierarchy",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, _, err := light.Build(consts.DefaultEngineName, fsm.WithLogger(logger.Discard()))
		if err != nil {
			return err
		}
		writeTree(cmd.OutOrStdout(), e)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hierarch %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", consts.DefaultConfigFile, "config file path")
	runCmd.Flags().StringVar(&metricsPort, "metrics-port", "",
		fmt.Sprintf("serve Prometheus metrics on this address, e.g. %s (overrides observability.metrics_port)", consts.DefaultMetricsPort))
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(versionCmd)
}

func writeReport(w io.Writer, report *orchestrator.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

func writeTree[K fsm.Kind, E fsm.Event](w io.Writer, e *fsm.Engine[K, E]) {
	fmt.Fprintln(w, e.Top())
	var walk func(k K, prefix string)
	walk = func(k K, prefix string) {
		children := e.Children(k)
		for i, child := range children {
			branch, next := "├── ", "│   "
			if i == len(children)-1 {
				branch, next = "└── ", "    "
			}
			fmt.Fprintf(w, "%s%s%s\n", prefix, branch, child)
			walk(child, prefix+next)
		}
	}
	walk(e.Top(), "")
}

// Execute runs the root command and returns its error for main to report.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// Personal.AI order the ending
