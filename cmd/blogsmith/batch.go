// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/blogsmith/internal/batch"
)

const defaultBatchDir = "output/posts"

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate posts for every topic in a file",
	Long: `Batch reads one topic per line from --topics-file ("-" for stdin) and runs
the pipeline for each. Lines starting with # and blank lines are ignored.
Each topic is an independent run; a failure is reported and the remaining
topics still run. Posts are written to --output-dir.`,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlag("export.format", cmd.Flags().Lookup("format"))
		bindFlag("export.output_dir", cmd.Flags().Lookup("output-dir"))
		bindFlag("batch.concurrency", cmd.Flags().Lookup("concurrency"))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("topics-file")
		topics, err := readTopicsFile(path, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			return fmt.Errorf("no topics in %s", path)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Export.OutputDir == "" {
			cfg.Export.OutputDir = defaultBatchDir
		}
		ex, err := newExecutor(cfg)
		if err != nil {
			return err
		}

		stderr := cmd.ErrOrStderr()
		fmt.Fprintf(stderr, "Generating %d posts into %s\n", len(topics), cfg.Export.OutputDir)
		summary, err := batch.Run(cmd.Context(), ex, topics, cfg.Batch, cfg.Export, stderr)
		fmt.Fprintf(stderr, "Done: %d generated, %d failed\n", summary.Generated, summary.Failed)
		if err != nil {
			return err
		}
		if summary.HasFailures() {
			return fmt.Errorf("%d of %d topics failed", summary.Failed, summary.Total())
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().String("topics-file", "", "file with one topic per line, or - for stdin")
	batchCmd.Flags().String("output-dir", defaultBatchDir, "directory for generated posts")
	batchCmd.Flags().String("format", "markdown", "output format: markdown, text, or html")
	batchCmd.Flags().Int("concurrency", 2, "topics generated at once")
	_ = batchCmd.MarkFlagRequired("topics-file")

	rootCmd.AddCommand(batchCmd)
}

func readTopicsFile(path string, stdin io.Reader) ([]string, error) {
	if path == "-" {
		return batch.ReadTopics(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening topics file: %w", err)
	}
	defer f.Close()
	return batch.ReadTopics(f)
}
