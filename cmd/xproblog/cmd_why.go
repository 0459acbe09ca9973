package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"xproblog/internal/engine"
	"xproblog/internal/kb"
	"xproblog/internal/model"
	"xproblog/internal/prooftree"
	"xproblog/internal/trace"
)

// whyCmd builds and renders the AND/OR proof tree for one query, the
// "Glass Box" explanation surface (§4.F, §7).
var whyCmd = &cobra.Command{
	Use:   "why <query>",
	Short: "Explain why a query is entailed by the KB (AND/OR proof tree)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExplain(cmd, args[0], false)
	},
}

// treeCmd renders the regular proof tree for one query, which keeps only
// the first alternative of each OR-node (§4.G).
var treeCmd = &cobra.Command{
	Use:   "tree <query>",
	Short: "Render the regular proof tree for a query (first alternative per OR-node)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExplain(cmd, args[0], true)
	},
}

func runExplain(cmd *cobra.Command, queryText string, regular bool) error {
	dir := kbDir()

	rewriteResult, err := kb.Rewrite(dir)
	if err != nil {
		return fmt.Errorf("rewrite: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), engineTimeout())
	defer cancel()

	result, err := engine.Obtain(ctx, dir, kb.OutputFileName, cfg.Engine.Command, cfg.Engine.Args, rewriteResult.Unchanged)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	basic := model.NewBasicFactSet(rewriteResult.Facts)
	traceResult := trace.Parse(result.Trace, basic)
	skeletons := prooftree.BuildSkeletons(traceResult.Proved, basic, traceResult.Arrival)

	query := model.Canon(queryText)
	andOr, err := prooftree.BuildAndOrTree(query, skeletons, basic)
	if err != nil {
		return fmt.Errorf("query %q: %w", queryText, err)
	}

	logger.Info("built proof tree", zap.String("query", string(query)), zap.Bool("regular", regular))

	tree := andOr
	if regular {
		tree = prooftree.BuildRegularTree(andOr)
	}

	fmt.Print(prooftree.RenderASCII(tree))
	return nil
}
