package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"xproblog/internal/engine"
	"xproblog/internal/kb"
)

// statusCmd reports KB/engine/output file state without running anything.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report KB, engine, and persisted-output file state",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	dir := kbDir()
	fmt.Println("xproblog status")
	fmt.Println("===============")
	fmt.Printf("KB directory:   %s\n", dir)
	fmt.Printf("Engine command: %s %v\n", cfg.Engine.Command, cfg.Engine.Args)
	fmt.Printf("Engine timeout: %s\n", engineTimeout())

	outputPath := filepath.Join(dir, kb.OutputFileName)
	if info, err := os.Stat(outputPath); err == nil {
		fmt.Printf("Consolidated KB: %s (%d bytes)\n", outputPath, info.Size())
	} else {
		fmt.Printf("Consolidated KB: not yet written (%s)\n", outputPath)
	}

	if _, ok, err := engine.LoadPersisted(dir); err != nil {
		return fmt.Errorf("checking persisted engine output: %w", err)
	} else if ok {
		fmt.Printf("Persisted engine output: %s\n", filepath.Join(dir, engine.OutFileName))
	} else {
		fmt.Println("Persisted engine output: none")
	}

	return nil
}
