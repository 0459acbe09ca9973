package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"xproblog/internal/kb"
)

// rewriteCmd runs the KB Rewriter pass only, reporting change/no-change.
var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Consolidate the KB source directory into one instrumented KB",
	Long: `Runs the Clause Tokenizer, Rule Parser, and KB Rewriter over the
configured KB directory, writing the consolidated, instrumented KB file
and reporting whether it changed from the previous generation.`,
	RunE: runRewrite,
}

func runRewrite(cmd *cobra.Command, args []string) error {
	dir := kbDir()
	logger.Info("rewriting KB", zap.String("dir", dir))

	result, err := kb.Rewrite(dir)
	if err != nil {
		return fmt.Errorf("rewrite: %w", err)
	}

	fmt.Printf("wrote %s (%d facts, %d rules)\n", result.OutputPath, len(result.Facts), len(result.Rules))
	if result.Unchanged {
		fmt.Println("KB is unchanged from the previous generation.")
	} else {
		fmt.Println("KB changed.")
		if result.Diff != "" {
			fmt.Println(result.Diff)
		}
	}
	return nil
}
