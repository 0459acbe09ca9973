// Package main implements the xproblog CLI: it consolidates
// probabilistic-Prolog KB files into an instrumented KB, drives an
// external inference engine over it, and reconstructs human-readable
// proof trees for proved queries.
//
// # File Index
//
//   - main.go          - entry point, rootCmd, global flags, config/logger init
//   - cmd_rewrite.go    - rewriteCmd: KB Rewriter pass only
//   - cmd_run.go        - runCmd: rewrite + invoke engine + persist trace
//   - cmd_why.go        - whyCmd: build and render a query's proof tree
//   - cmd_status.go     - statusCmd: report KB/engine/output file state
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"xproblog/internal/config"
	"xproblog/internal/logging"
)

var (
	workspace string
	kbDirFlag string
	verbose   bool
	timeout   time.Duration

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd is the xproblog CLI's base command.
var rootCmd = &cobra.Command{
	Use:   "xproblog",
	Short: "Consolidate a probabilistic-Prolog KB and explain its proofs",
	Long: `xproblog rewrites a directory of probabilistic-Prolog KB files into
one instrumented KB, runs an external inference engine over it, and
reconstructs human-readable proof trees explaining why a query is
entailed by the knowledge base.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		ws := resolveWorkspace()
		cfg, err = config.Load(filepath.Join(ws, ".xproblog", "config.yaml"))
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if kbDirFlag != "" {
			cfg.KBDir = kbDirFlag
		}
		if verbose {
			cfg.Logging.Debug = true
			cfg.Logging.Level = "debug"
		}

		logging.Configure(cfg.Logging.Debug, cfg.CategorySet(), cfg.Logging.Level, cfg.Logging.JSONFormat)
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

// resolveWorkspace returns the absolute workspace directory, defaulting
// to the current working directory.
func resolveWorkspace() string {
	if workspace == "" {
		wd, _ := os.Getwd()
		return wd
	}
	if abs, err := filepath.Abs(workspace); err == nil {
		return abs
	}
	return workspace
}

// kbDir returns the absolute KB source directory, resolved relative to
// the workspace when cfg.KBDir is not already absolute.
func kbDir() string {
	dir := cfg.KBDir
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(resolveWorkspace(), dir)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&kbDirFlag, "kb-dir", "", "KB source directory (default: config kb_dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Engine invocation timeout (default: config engine.timeout)")

	rootCmd.AddCommand(rewriteCmd, runCmd, whyCmd, treeCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// engineTimeout returns the --timeout override if set, else the
// configured engine timeout.
func engineTimeout() time.Duration {
	if timeout > 0 {
		return timeout
	}
	return cfg.GetEngineTimeout()
}
