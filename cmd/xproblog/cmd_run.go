package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"xproblog/internal/engine"
	"xproblog/internal/kb"
)

// runCmd rewrites the KB, invokes the engine (reusing the persisted
// output when the KB is unchanged), persists the trace, and prints the
// query answers (§6).
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Rewrite the KB, run the inference engine, and print query answers",
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	dir := kbDir()

	rewriteResult, err := kb.Rewrite(dir)
	if err != nil {
		return fmt.Errorf("rewrite: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), engineTimeout())
	defer cancel()

	logger.Info("invoking engine",
		zap.String("command", cfg.Engine.Command),
		zap.Bool("kb_unchanged", rewriteResult.Unchanged))

	result, err := engine.Obtain(ctx, dir, kb.OutputFileName, cfg.Engine.Command, cfg.Engine.Args, rewriteResult.Unchanged)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	fmt.Printf("%d query answers, %d trace lines\n", len(result.Answers), len(result.Trace))
	for _, answer := range result.Answers {
		query, prob, ok := engine.SplitAnswer(answer)
		if !ok {
			continue
		}
		fmt.Printf("  %s: %s\n", query, prob)
	}
	return nil
}
